package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"campus-management-api/config"
	"campus-management-api/models"
	"campus-management-api/services"

	"github.com/gin-gonic/gin"
)

type createNotificationRequest struct {
	Message      string `json:"message" binding:"required"`
	UserID       int    `json:"user_id"`
	UserIDs      []int  `json:"user_ids"`
	Group        string `json:"group"`
	DepartmentID int    `json:"department_id"`
}

// GetNotifications lists the current user's notifications, newest first.
// Filters: ?read_status=true|false, ?unread=true, ?limit=, ?offset=.
func GetNotifications(c *gin.Context) {
	actorID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := getDB().Model(&models.Notification{}).Where("user_id = ?", actorID)

	if rs := c.Query("read_status"); rs != "" {
		query = query.Where("read_status = ?", rs == "true")
	}
	if c.Query("unread") == "true" {
		query = query.Where("read_status = ?", false)
	}

	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o > 0 {
		offset = o
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, notification_id DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
		"count":   len(notifications),
		"total":   total,
	})
}

// GetNotification returns a single notification owned by the current user.
func GetNotification(c *gin.Context) {
	actorID, _ := getCurrentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var notification models.Notification
	if err := getDB().Where("notification_id = ?", id).First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if notification.UserID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Notification belongs to another user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notification,
	})
}

// CreateNotification sends a notification. Regular users can only notify
// themselves; teachers and admins can target any user, a list of users, a
// role group, or a department. Delivered notifications are mirrored to email
// on a best-effort basis.
func CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := getCurrentUserID(c)
	svc := services.NewNotificationService(getDB())

	if !isTeacherOrAdmin(c) {
		// Self-notification only.
		if err := svc.NotifyUser(actorID, req.Message); err != nil {
			respondNotificationError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Notification sent"})
		return
	}

	var err error
	var recipients []int
	switch {
	case req.Group != "":
		err = svc.NotifyGroup(req.Group, req.Message)
	case req.DepartmentID != 0:
		err = svc.NotifyDepartment(req.DepartmentID, req.Message)
	case len(req.UserIDs) > 0:
		err = svc.NotifyUsers(req.UserIDs, req.Message)
		recipients = req.UserIDs
	case req.UserID != 0:
		err = svc.NotifyUser(req.UserID, req.Message)
		recipients = []int{req.UserID}
	default:
		err = svc.NotifyUser(actorID, req.Message)
		recipients = []int{actorID}
	}
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	// Email mirror is fire-and-forget; SMTP problems never fail the request.
	if len(recipients) > 0 {
		go mirrorNotificationEmail(recipients, req.Message)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Notification sent"})
}

// mirrorNotificationEmail sends a plain email copy of the notification to the
// recipients that have an address on file.
func mirrorNotificationEmail(userIDs []int, message string) {
	var emails []string
	if err := getDB().Model(&models.User{}).
		Where("user_id IN ? AND delete_at IS NULL", userIDs).
		Pluck("email", &emails).Error; err != nil {
		log.Printf("notification email lookup failed: %v", err)
		return
	}
	if len(emails) == 0 {
		return
	}
	html := "<p>" + message + "</p>"
	if err := config.SendMail(emails, "New campus notification", html); err != nil {
		log.Printf("notification email send failed: %v", err)
	}
}

// MarkNotificationRead marks one notification as read. Idempotent.
func MarkNotificationRead(c *gin.Context) {
	setNotificationRead(c, true)
}

// MarkNotificationUnread marks one notification as unread. Idempotent.
func MarkNotificationUnread(c *gin.Context) {
	setNotificationRead(c, false)
}

func setNotificationRead(c *gin.Context, read bool) {
	actorID, _ := getCurrentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	svc := services.NewNotificationService(getDB())
	if read {
		err = svc.MarkRead(uint(id), actorID)
	} else {
		err = svc.MarkUnread(uint(id), actorID)
	}
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead marks every unread notification of the current
// user as read and reports how many rows changed.
func MarkAllNotificationsRead(c *gin.Context) {
	actorID, _ := getCurrentUserID(c)

	updated, err := services.NewNotificationService(getDB()).MarkAllRead(actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updated": updated,
	})
}

// GetUnreadCount returns the current user's unread notification count.
func GetUnreadCount(c *gin.Context) {
	actorID, _ := getCurrentUserID(c)

	count, err := services.NewNotificationService(getDB()).UnreadCount(actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"unread_count": count,
	})
}

// DeleteNotification permanently removes one notification owned by the
// current user.
func DeleteNotification(c *gin.Context) {
	actorID, _ := getCurrentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := services.NewNotificationService(getDB()).Delete(uint(id), actorID); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}

// DeleteAllReadNotifications purges every read notification of the current
// user and reports how many rows were removed.
func DeleteAllReadNotifications(c *gin.Context) {
	actorID, _ := getCurrentUserID(c)

	deleted, err := services.NewNotificationService(getDB()).DeleteAllRead(actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": deleted,
	})
}

// respondNotificationError maps service error kinds to HTTP statuses.
func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRecipient),
		errors.Is(err, services.ErrUnknownGroup),
		errors.Is(err, services.ErrUnknownDepartment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Notification operation failed"})
	}
}
