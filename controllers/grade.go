package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"campus-management-api/models"
	"campus-management-api/services"

	"github.com/gin-gonic/gin"
)

type gradeRequest struct {
	StudentID int     `json:"student_id" binding:"required"`
	CourseID  int     `json:"course_id" binding:"required"`
	Score     float64 `json:"score" binding:"required"`
	Grade     string  `json:"grade" binding:"required"`
	Remarks   *string `json:"remarks"`
}

// GetGrades lists grades. Students only see their own.
func GetGrades(c *gin.Context) {
	query := getDB().Model(&models.Grade{}).
		Preload("Student").
		Preload("Course")

	if isStudent(c) && !isTeacherOrAdmin(c) {
		uid, _ := getCurrentUserID(c)
		query = query.Where("student_id = ?", uid)
	} else if student := c.Query("student"); student != "" {
		query = query.Where("student_id = ?", student)
	}

	if course := c.Query("course"); course != "" {
		query = query.Where("course_id = ?", course)
	}

	var grades []models.Grade
	if err := query.Order("grade_id ASC").Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grades"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    grades,
		"count":   len(grades),
	})
}

// CreateGrade assigns a grade (teacher/admin only) and notifies the student.
func CreateGrade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var course models.Course
	if err := getDB().Where("course_id = ? AND delete_at IS NULL", req.CourseID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var existing int64
	getDB().Model(&models.Grade{}).
		Where("student_id = ? AND course_id = ?", req.StudentID, req.CourseID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Grade already assigned for this course"})
		return
	}

	grade := models.Grade{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Score:     req.Score,
		Grade:     req.Grade,
		Remarks:   req.Remarks,
	}

	if err := getDB().Create(&grade).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign grade"})
		return
	}

	// Producer fan-out: notify the graded student.
	svc := services.NewNotificationService(getDB())
	msg := fmt.Sprintf("Your grade for %s (%s) has been published: %s.", course.Title, course.Code, req.Grade)
	if err := svc.NotifyUser(req.StudentID, msg); err != nil {
		log.Printf("grade notification failed (student=%d course=%d): %v", req.StudentID, course.CourseID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    grade,
	})
}

// UpdateGrade changes an assigned grade (teacher/admin only).
func UpdateGrade(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var grade models.Grade
	if err := getDB().Where("grade_id = ?", id).First(&grade).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grade not found"})
		return
	}

	var req struct {
		Score   *float64 `json:"score"`
		Grade   *string  `json:"grade"`
		Remarks *string  `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Score != nil {
		grade.Score = *req.Score
	}
	if req.Grade != nil {
		grade.Grade = *req.Grade
	}
	if req.Remarks != nil {
		grade.Remarks = req.Remarks
	}

	if err := getDB().Save(&grade).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grade"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    grade,
	})
}

// DeleteGrade removes a grade (teacher/admin only).
func DeleteGrade(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	res := getDB().Where("grade_id = ?", id).Delete(&models.Grade{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete grade"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grade not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Grade deleted"})
}
