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

type attendanceRequest struct {
	StudentID int    `json:"student_id" binding:"required"`
	CourseID  int    `json:"course_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Status    string `json:"status" binding:"required"`
}

// GetAttendance lists attendance records. Students only see their own.
func GetAttendance(c *gin.Context) {
	query := getDB().Model(&models.Attendance{}).
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
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var records []models.Attendance
	if err := query.Order("attendance_id ASC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
		"count":   len(records),
	})
}

// CreateAttendance records attendance (teacher/admin only). Marking a
// student absent notifies them.
func CreateAttendance(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != models.AttendancePresent && req.Status != models.AttendanceAbsent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Present or Absent"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
		return
	}

	var course models.Course
	if err := getDB().Where("course_id = ? AND delete_at IS NULL", req.CourseID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var existing int64
	getDB().Model(&models.Attendance{}).
		Where("student_id = ? AND course_id = ? AND date = ?", req.StudentID, req.CourseID, date).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Attendance already recorded for this date"})
		return
	}

	record := models.Attendance{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      date,
		Status:    req.Status,
	}

	if err := getDB().Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
		return
	}

	// Producer fan-out: absences notify the student.
	if req.Status == models.AttendanceAbsent {
		svc := services.NewNotificationService(getDB())
		msg := fmt.Sprintf("You were marked absent in %s (%s) on %s.", course.Title, course.Code, req.Date)
		if err := svc.NotifyUser(req.StudentID, msg); err != nil {
			log.Printf("absence notification failed (student=%d course=%d): %v", req.StudentID, course.CourseID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    record,
	})
}

// UpdateAttendance changes a recorded status (teacher/admin only).
func UpdateAttendance(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var record models.Attendance
	if err := getDB().Where("attendance_id = ?", id).First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendance record not found"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.AttendancePresent && req.Status != models.AttendanceAbsent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Present or Absent"})
		return
	}

	record.Status = req.Status
	if err := getDB().Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}

// DeleteAttendance removes a record (teacher/admin only).
func DeleteAttendance(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	res := getDB().Where("attendance_id = ?", id).Delete(&models.Attendance{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attendance"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendance record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attendance deleted"})
}
