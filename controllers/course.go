package controllers

import (
	"campus-management-api/models"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type courseRequest struct {
	Title        string  `json:"title" binding:"required"`
	Code         string  `json:"code" binding:"required"`
	Description  *string `json:"description"`
	DepartmentID int     `json:"department_id" binding:"required"`
	InstructorID *int    `json:"instructor_id"`
}

// GetCourses lists courses. Students only see courses they are actively
// enrolled in; teachers and admins see everything.
func GetCourses(c *gin.Context) {
	query := getDB().Model(&models.Course{}).
		Preload("Department").
		Preload("Instructor").
		Where("courses.delete_at IS NULL")

	if department := c.Query("department"); department != "" {
		query = query.Where("courses.department_id = ?", department)
	}
	if instructor := c.Query("instructor"); instructor != "" {
		query = query.Where("courses.instructor_id = ?", instructor)
	}

	if isStudent(c) && !isTeacherOrAdmin(c) {
		uid, _ := getCurrentUserID(c)
		query = query.Where(
			"courses.course_id IN (SELECT course_id FROM enrollments WHERE student_id = ? AND status = ?)",
			uid, models.EnrollmentActive,
		)
	}

	var courses []models.Course
	if err := query.Order("courses.course_id ASC").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    courses,
		"count":   len(courses),
	})
}

// GetCourse returns one course by id.
func GetCourse(c *gin.Context) {
	id := c.Param("id")

	var course models.Course
	if err := getDB().Preload("Department").Preload("Instructor").
		Where("course_id = ? AND delete_at IS NULL", id).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    course,
	})
}

// CreateCourse creates a course (teacher/admin only).
func CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dept models.Department
	if err := getDB().Where("department_id = ? AND delete_at IS NULL", req.DepartmentID).
		First(&dept).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department not found"})
		return
	}

	now := time.Now()
	course := models.Course{
		Title:        req.Title,
		Code:         req.Code,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		InstructorID: req.InstructorID,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	if err := getDB().Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    course,
	})
}

// UpdateCourse updates a course (teacher/admin only).
func UpdateCourse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var course models.Course
	if err := getDB().Where("course_id = ? AND delete_at IS NULL", id).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	course.Title = req.Title
	course.Code = req.Code
	course.Description = req.Description
	course.DepartmentID = req.DepartmentID
	course.InstructorID = req.InstructorID
	course.UpdateAt = &now

	if err := getDB().Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    course,
	})
}

// DeleteCourse soft deletes a course (teacher/admin only).
func DeleteCourse(c *gin.Context) {
	id := c.Param("id")

	var course models.Course
	if err := getDB().Where("course_id = ? AND delete_at IS NULL", id).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	now := time.Now()
	if err := getDB().Model(&models.Course{}).
		Where("course_id = ?", course.CourseID).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Course deleted"})
}

// GetCourseEnrollments lists all enrollments for a course.
func GetCourseEnrollments(c *gin.Context) {
	id := c.Param("id")

	var enrollments []models.Enrollment
	if err := getDB().Preload("Student").
		Where("course_id = ?", id).
		Order("enrollment_id ASC").
		Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    enrollments,
		"count":   len(enrollments),
	})
}

// GetCourseAttendance lists attendance records for a course, optionally
// filtered by ?date=YYYY-MM-DD.
func GetCourseAttendance(c *gin.Context) {
	id := c.Param("id")

	query := getDB().Preload("Student").Where("course_id = ?", id)
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

// GetCourseGrades lists grades for a course.
func GetCourseGrades(c *gin.Context) {
	id := c.Param("id")

	var grades []models.Grade
	if err := getDB().Preload("Student").
		Where("course_id = ?", id).
		Order("grade_id ASC").
		Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grades"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    grades,
		"count":   len(grades),
	})
}
