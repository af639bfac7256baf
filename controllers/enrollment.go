package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"campus-management-api/models"
	"campus-management-api/services"

	"github.com/gin-gonic/gin"
)

type enrollmentRequest struct {
	StudentID int `json:"student_id"`
	CourseID  int `json:"course_id" binding:"required"`
}

type enrollmentUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetEnrollments lists enrollments. Students only see their own.
func GetEnrollments(c *gin.Context) {
	query := getDB().Model(&models.Enrollment{}).
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

	var enrollments []models.Enrollment
	if err := query.Order("enrollment_id ASC").Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    enrollments,
		"count":   len(enrollments),
	})
}

// CreateEnrollment enrolls a student. Students enroll themselves; teachers
// and admins can enroll anyone. The enrolled student is notified.
func CreateEnrollment(c *gin.Context) {
	var req enrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := getCurrentUserID(c)
	studentID := req.StudentID
	if !isTeacherOrAdmin(c) {
		studentID = actorID
	}
	if studentID == 0 {
		studentID = actorID
	}

	var course models.Course
	if err := getDB().Where("course_id = ? AND delete_at IS NULL", req.CourseID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var existing int64
	getDB().Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, req.CourseID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Student is already enrolled in this course"})
		return
	}

	enrollment := models.Enrollment{
		StudentID:  studentID,
		CourseID:   req.CourseID,
		EnrolledOn: time.Now(),
		Status:     models.EnrollmentActive,
	}

	if err := getDB().Create(&enrollment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create enrollment"})
		return
	}

	// Producer fan-out: notify the enrolled student. Notification failure
	// does not undo the enrollment.
	svc := services.NewNotificationService(getDB())
	msg := fmt.Sprintf("You have been enrolled in %s (%s).", course.Title, course.Code)
	if err := svc.NotifyUser(studentID, msg); err != nil {
		log.Printf("enrollment notification failed (student=%d course=%d): %v", studentID, course.CourseID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    enrollment,
	})
}

// UpdateEnrollment changes an enrollment status (teacher/admin only).
func UpdateEnrollment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var enrollment models.Enrollment
	if err := getDB().Where("enrollment_id = ?", id).First(&enrollment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		return
	}

	var req enrollmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.EnrollmentActive && req.Status != models.EnrollmentDropped {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Active or Dropped"})
		return
	}

	enrollment.Status = req.Status
	if err := getDB().Save(&enrollment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update enrollment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    enrollment,
	})
}

// DeleteEnrollment removes an enrollment (teacher/admin only).
func DeleteEnrollment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	res := getDB().Where("enrollment_id = ?", id).Delete(&models.Enrollment{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete enrollment"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Enrollment deleted"})
}
