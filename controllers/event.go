package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"campus-management-api/middleware"
	"campus-management-api/models"
	"campus-management-api/services"

	"github.com/gin-gonic/gin"
)

type eventRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
}

// GetEvents lists events with optional filters:
// ?upcoming=true, ?past=true, ?date_from=, ?date_to=, ?created_by=.
func GetEvents(c *gin.Context) {
	query := getDB().Model(&models.Event{}).
		Preload("Creator").
		Where("delete_at IS NULL")

	today := time.Now().Format("2006-01-02")
	if c.Query("upcoming") == "true" {
		query = query.Where("date >= ?", today)
	}
	if c.Query("past") == "true" {
		query = query.Where("date < ?", today)
	}
	if from := c.Query("date_from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("date_to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if creator := c.Query("created_by"); creator != "" {
		query = query.Where("created_by = ?", creator)
	}

	var events []models.Event
	if err := query.Order("date ASC, event_id ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    events,
		"count":   len(events),
	})
}

// GetEvent returns one event by id.
func GetEvent(c *gin.Context) {
	id := c.Param("id")

	var event models.Event
	if err := getDB().Preload("Creator").
		Where("event_id = ? AND delete_at IS NULL", id).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    event,
	})
}

// CreateEvent creates an event (teacher/admin only) and announces it to the
// student group.
func CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
		return
	}

	actorID, _ := getCurrentUserID(c)
	now := time.Now()
	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   &actorID,
		Date:        date,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	if err := getDB().Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	// Announce to every student. A missing group or fan-out failure does not
	// undo the event.
	svc := services.NewNotificationService(getDB())
	msg := fmt.Sprintf("New event: %s on %s.", event.Title, req.Date)
	if err := svc.NotifyGroup(middleware.GroupStudent, msg); err != nil {
		log.Printf("event announcement failed (event=%d): %v", event.EventID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    event,
	})
}

// UpdateEvent updates an event (teacher/admin only).
func UpdateEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var event models.Event
	if err := getDB().Where("event_id = ? AND delete_at IS NULL", id).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
		return
	}

	now := time.Now()
	event.Title = req.Title
	event.Description = req.Description
	event.Date = date
	event.UpdateAt = &now

	if err := getDB().Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    event,
	})
}

// DeleteEvent soft deletes an event (teacher/admin only).
func DeleteEvent(c *gin.Context) {
	id := c.Param("id")

	var event models.Event
	if err := getDB().Where("event_id = ? AND delete_at IS NULL", id).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	now := time.Now()
	if err := getDB().Model(&models.Event{}).
		Where("event_id = ?", event.EventID).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event deleted"})
}

// RegisterForEvent signs the current user up as a participant.
func RegisterForEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var event models.Event
	if err := getDB().Where("event_id = ? AND delete_at IS NULL", id).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	actorID, _ := getCurrentUserID(c)

	var existing int64
	getDB().Model(&models.EventParticipant{}).
		Where("student_id = ? AND event_id = ?", actorID, id).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Already registered for this event"})
		return
	}

	participant := models.EventParticipant{StudentID: actorID, EventID: id}
	if err := getDB().Create(&participant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    participant,
	})
}

// UnregisterFromEvent removes the current user's registration.
func UnregisterFromEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	actorID, _ := getCurrentUserID(c)

	res := getDB().Where("student_id = ? AND event_id = ?", actorID, id).
		Delete(&models.EventParticipant{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unregister"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration removed"})
}

// GetEventParticipants lists an event's registered participants.
func GetEventParticipants(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var event models.Event
	if err := getDB().Where("event_id = ? AND delete_at IS NULL", id).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var participants []models.EventParticipant
	if err := getDB().Preload("Student").
		Where("event_id = ?", id).
		Order("id ASC").
		Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    participants,
		"count":   len(participants),
	})
}
