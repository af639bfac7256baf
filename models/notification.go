package models

import "time"

// Notification is one per-recipient record. Recipient and message are
// immutable after creation; only read_status ever changes.
type Notification struct {
	NotificationID uint      `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID         int       `gorm:"column:user_id" json:"user_id"`
	Message        string    `gorm:"column:message" json:"message"`
	ReadStatus     bool      `gorm:"column:read_status" json:"read_status"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user_detail,omitempty"`
}

func (Notification) TableName() string { return "notifications" }
