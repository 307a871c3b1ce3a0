package services

import (
	"errors"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationStore persists one row per notification attempt. Status is
// written exactly once after creation: the mark methods guard on
// status = 'pending', so a record can never leave sent or failed.
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(trainingEventID uint, title, body string, scheduledFor *time.Time) (*models.Notification, error) {
	n := models.Notification{
		ID:              uuid.New(),
		TrainingEventID: trainingEventID,
		Title:           title,
		Body:            body,
		Status:          models.NotificationPending,
		ScheduledFor:    scheduledFor,
		CreatedAt:       time.Now(),
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, storageErr("insert notification", err)
	}
	return &n, nil
}

func (s *NotificationStore) Get(id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageErr("notification not found", err)
		}
		return nil, storageErr("load notification", err)
	}
	return &n, nil
}

// MarkSent transitions pending -> sent and stamps sent_at. Calling it on a
// record that already left pending changes nothing.
func (s *NotificationStore) MarkSent(id uuid.UUID) (*models.Notification, error) {
	now := time.Now()
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.NotificationPending).
		Updates(map[string]any{"status": models.NotificationSent, "sent_at": now})
	if res.Error != nil {
		return nil, storageErr("mark notification sent", res.Error)
	}
	return s.Get(id)
}

// MarkFailed transitions pending -> failed. Failures are terminal; no retry
// scheduling hangs off this state.
func (s *NotificationStore) MarkFailed(id uuid.UUID) (*models.Notification, error) {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.NotificationPending).
		Update("status", models.NotificationFailed)
	if res.Error != nil {
		return nil, storageErr("mark notification failed", res.Error)
	}
	return s.Get(id)
}

// List returns a point-in-time snapshot, newest first.
func (s *NotificationStore) List() ([]models.Notification, error) {
	var out []models.Notification
	if err := s.db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, storageErr("list notifications", err)
	}
	return out, nil
}

// DuePending returns pending notifications whose scheduled_for has passed,
// for the cron sweep.
func (s *NotificationStore) DuePending(now time.Time) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.db.
		Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?", models.NotificationPending, now).
		Order("scheduled_for ASC").
		Find(&out).Error; err != nil {
		return nil, storageErr("list due notifications", err)
	}
	return out, nil
}
