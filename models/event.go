package models

import "time"

type Event struct {
	EventID     int        `gorm:"primaryKey;column:event_id" json:"event_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	CreatedBy   *int       `gorm:"column:created_by" json:"created_by,omitempty"`
	Date        time.Time  `gorm:"column:date" json:"date"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

type EventParticipant struct {
	ID        int `gorm:"primaryKey;column:id" json:"id"`
	StudentID int `gorm:"column:student_id;uniqueIndex:uq_event_participant" json:"student_id"`
	EventID   int `gorm:"column:event_id;uniqueIndex:uq_event_participant" json:"event_id"`

	// Relations
	Student *User  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// TableName overrides
func (Event) TableName() string {
	return "events"
}

func (EventParticipant) TableName() string {
	return "event_participants"
}
