package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is one dispatch attempt for a training event. Status moves
// pending -> sent or pending -> failed exactly once; rows are never deleted.
type Notification struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrainingEventID uint      `gorm:"index;not null"`
	Title           string    `gorm:"size:255"`
	Body            string    `gorm:"type:text"`
	Status          string    `gorm:"size:16;default:'pending';index"`
	ScheduledFor    *time.Time
	SentAt          *time.Time
	CreatedAt       time.Time
}
