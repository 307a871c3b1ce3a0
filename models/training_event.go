package models

import (
	"time"

	"gorm.io/gorm"
)

// TrainingEvent is one scheduled training session. Assigned trainers are the
// recipient set for any notification dispatched for the event.
type TrainingEvent struct {
	gorm.Model
	Title       string    `gorm:"not null"`
	Category    string    `gorm:"size:64;index"` // e.g. "Fire Safety", "Road Safety"
	Date        time.Time `gorm:"index;not null"`
	StartTime   string    `gorm:"size:8"` // "HH:MM"
	Location    string
	Description string    `gorm:"type:text"`
	Trainers    []Trainer `gorm:"many2many:training_event_trainers;"`
}
