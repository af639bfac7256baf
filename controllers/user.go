package controllers

import (
	"campus-management-api/models"
	"campus-management-api/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required"`
	Phone        *string  `json:"phone"`
	Roll         *int     `json:"roll"`
	StaffID      *int     `json:"staff_id"`
	Gender       *string  `json:"gender"`
	DepartmentID *int     `json:"department_id"`
	Groups       []string `json:"groups"`
}

type updateUserRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Phone        *string `json:"phone"`
	Roll         *int    `json:"roll"`
	StaffID      *int    `json:"staff_id"`
	Gender       *string `json:"gender"`
	DepartmentID *int    `json:"department_id"`
}

// GetUsers lists users. Admin only; supports ?group= filtering by role group.
func GetUsers(c *gin.Context) {
	query := getDB().Model(&models.User{}).
		Preload("Department").
		Where("users.delete_at IS NULL")

	if group := c.Query("group"); group != "" {
		query = query.
			Joins("JOIN user_groups ug ON ug.user_id = users.user_id").
			Joins("JOIN groups g ON g.group_id = ug.group_id").
			Where("g.name = ?", group)
	}

	var users []models.User
	if err := query.Order("users.user_id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"count":   len(users),
	})
}

// GetUser returns one user. Admins can fetch anyone; others only themselves.
func GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	actorID, _ := getCurrentUserID(c)
	if !isAdmin(c) && actorID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var user models.User
	if err := getDB().Preload("Department").
		Where("user_id = ? AND delete_at IS NULL", id).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	groups, _ := loadGroupNames(getDB(), user.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"groups":  groups,
	})
}

// CreateUser creates a user (admin only) and attaches the requested role
// groups through the membership index.
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if valid, message := utils.ValidatePassword(req.Password); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     hashed,
		Phone:        req.Phone,
		Roll:         req.Roll,
		StaffID:      req.StaffID,
		Gender:       req.Gender,
		DepartmentID: req.DepartmentID,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	if err := getDB().Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	for _, name := range req.Groups {
		var group models.Group
		if err := getDB().Where("name = ?", name).First(&group).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown group: " + name})
			return
		}
		if err := getDB().Create(&models.UserGroup{UserID: user.UserID, GroupID: group.GroupID}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach group"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateUser updates a user. Admins can update anyone; others only themselves.
func UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	actorID, _ := getCurrentUserID(c)
	if !isAdmin(c) && actorID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var user models.User
	if err := getDB().Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := utils.SanitizeInput(*req.Email)
		if !utils.ValidateEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}
		user.Email = email
	}
	if req.Password != nil {
		if valid, message := utils.ValidatePassword(*req.Password); !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": message})
			return
		}
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = hashed
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Roll != nil {
		user.Roll = req.Roll
	}
	if req.StaffID != nil {
		user.StaffID = req.StaffID
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}

	now := time.Now()
	user.UpdateAt = &now

	if err := getDB().Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteUser soft deletes a user (admin only).
func DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var user models.User
	if err := getDB().Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	if err := getDB().Model(&models.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}
