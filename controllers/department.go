package controllers

import (
	"campus-management-api/models"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type departmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	HeadID      *int    `json:"head_id"`
}

// GetDepartments lists all departments.
func GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := getDB().Preload("Head").
		Where("delete_at IS NULL").
		Order("department_id ASC").
		Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    departments,
		"count":   len(departments),
	})
}

// GetDepartment returns one department by id.
func GetDepartment(c *gin.Context) {
	id := c.Param("id")

	var department models.Department
	if err := getDB().Preload("Head").
		Where("department_id = ? AND delete_at IS NULL", id).
		First(&department).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    department,
	})
}

// CreateDepartment creates a department (admin only). A head, when set, is
// also attached to the department as a member.
func CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	department := models.Department{
		Name:        req.Name,
		Description: req.Description,
		HeadID:      req.HeadID,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	if err := getDB().Create(&department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	if err := attachHeadToDepartment(department); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach department head"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    department,
	})
}

// UpdateDepartment updates a department (admin only).
func UpdateDepartment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var department models.Department
	if err := getDB().Where("department_id = ? AND delete_at IS NULL", id).
		First(&department).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	department.Name = req.Name
	department.Description = req.Description
	department.HeadID = req.HeadID
	department.UpdateAt = &now

	if err := getDB().Save(&department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update department"})
		return
	}

	if err := attachHeadToDepartment(department); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach department head"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    department,
	})
}

// DeleteDepartment soft deletes a department (admin only).
func DeleteDepartment(c *gin.Context) {
	id := c.Param("id")

	var department models.Department
	if err := getDB().Where("department_id = ? AND delete_at IS NULL", id).
		First(&department).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	now := time.Now()
	if err := getDB().Model(&models.Department{}).
		Where("department_id = ?", department.DepartmentID).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete department"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Department deleted"})
}

// attachHeadToDepartment keeps the head's own department_id in sync.
func attachHeadToDepartment(department models.Department) error {
	if department.HeadID == nil {
		return nil
	}
	return getDB().Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", *department.HeadID).
		Update("department_id", department.DepartmentID).Error
}
