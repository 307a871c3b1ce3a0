package services

import (
	"context"
	"errors"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TrainingService struct {
	db         *gorm.DB
	store      *NotificationStore
	dispatcher *Dispatcher
	logger     *zap.SugaredLogger
}

func NewTrainingService(db *gorm.DB, store *NotificationStore, dispatcher *Dispatcher, logger *zap.SugaredLogger) *TrainingService {
	return &TrainingService{db: db, store: store, dispatcher: dispatcher, logger: logger}
}

type ScheduleTrainingInput struct {
	Title        string
	Category     string
	Date         time.Time
	StartTime    string
	Location     string
	Description  string
	TrainerIDs   []uint
	Notify       bool
	ScheduledFor *time.Time
}

// ScheduleOutcome reports the committed event plus the best-effort
// notification result for the UI toasts.
type ScheduleOutcome struct {
	Event        *models.TrainingEvent
	Notification *models.Notification
	Dispatch     *DispatchResult
	NotifyErr    error
}

// Schedule commits the training event, then runs the notification flow.
// Notification failures never roll the event back; they come back in the
// outcome for the UI to surface as a warning toast.
func (s *TrainingService) Schedule(ctx context.Context, in ScheduleTrainingInput) (*ScheduleOutcome, error) {
	var trainers []models.Trainer
	if len(in.TrainerIDs) > 0 {
		if err := s.db.Where("id IN ? AND active = ?", in.TrainerIDs, true).Find(&trainers).Error; err != nil {
			return nil, storageErr("load trainers", err)
		}
	}

	event := models.TrainingEvent{
		Title:       in.Title,
		Category:    in.Category,
		Date:        in.Date,
		StartTime:   in.StartTime,
		Location:    in.Location,
		Description: in.Description,
		Trainers:    trainers,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, storageErr("insert training event", err)
	}

	out := &ScheduleOutcome{Event: &event}
	if !in.Notify {
		return out, nil
	}

	body := "You have been assigned to " + in.Title + " on " + in.Date.Format("2006-01-02")
	n, err := s.store.Create(event.ID, "Training scheduled: "+in.Title, body, in.ScheduledFor)
	if err != nil {
		// The event is already committed; notification is best-effort.
		s.logger.Warnw("could not create notification record", "event_id", event.ID, "error", err)
		out.NotifyErr = err
		return out, nil
	}
	out.Notification = n

	// Deferred dispatch: the cron sweep picks it up once scheduled_for passes.
	if in.ScheduledFor != nil && in.ScheduledFor.After(time.Now()) {
		return out, nil
	}

	res, derr := s.DispatchForEvent(ctx, n)
	out.Dispatch = &res
	out.NotifyErr = derr
	return out, nil
}

// DispatchForEvent resolves the event's assigned trainers into recipients and
// runs the dispatcher with the training merge tags.
func (s *TrainingService) DispatchForEvent(ctx context.Context, n *models.Notification) (DispatchResult, error) {
	var event models.TrainingEvent
	if err := s.db.Preload("Trainers").First(&event, n.TrainingEventID).Error; err != nil {
		return DispatchResult{}, storageErr("load training event", err)
	}

	recipients := make([]Recipient, 0, len(event.Trainers))
	trainerNames := ""
	for _, t := range event.Trainers {
		recipients = append(recipients, Recipient{UserID: t.ID, Email: t.Email, Phone: t.Phone})
		if trainerNames != "" {
			trainerNames += ", "
		}
		trainerNames += t.FullName
	}

	mergeTags := map[string]string{
		"trainingTitle":    event.Title,
		"trainingDate":     event.Date.Format("2006-01-02"),
		"trainingTime":     event.StartTime,
		"trainingLocation": event.Location,
		"trainerName":      trainerNames,
	}

	return s.dispatcher.Dispatch(ctx, n, recipients, mergeTags)
}

func (s *TrainingService) Get(id uint) (*models.TrainingEvent, error) {
	var event models.TrainingEvent
	if err := s.db.Preload("Trainers").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, storageErr("load training event", err)
	}
	return &event, nil
}

func (s *TrainingService) List(from, to *time.Time) ([]models.TrainingEvent, error) {
	q := s.db.Preload("Trainers").Order("date ASC")
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	var events []models.TrainingEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, storageErr("list training events", err)
	}
	return events, nil
}

func (s *TrainingService) Update(id uint, in ScheduleTrainingInput) (*models.TrainingEvent, error) {
	event, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		event.Title = in.Title
	}
	if in.Category != "" {
		event.Category = in.Category
	}
	if !in.Date.IsZero() {
		event.Date = in.Date
	}
	if in.StartTime != "" {
		event.StartTime = in.StartTime
	}
	if in.Location != "" {
		event.Location = in.Location
	}
	if in.Description != "" {
		event.Description = in.Description
	}
	if err := s.db.Save(event).Error; err != nil {
		return nil, storageErr("update training event", err)
	}

	if in.TrainerIDs != nil {
		var trainers []models.Trainer
		if err := s.db.Where("id IN ?", in.TrainerIDs).Find(&trainers).Error; err != nil {
			return nil, storageErr("load trainers", err)
		}
		if err := s.db.Model(event).Association("Trainers").Replace(trainers); err != nil {
			return nil, storageErr("replace trainers", err)
		}
	}
	return event, nil
}

func (s *TrainingService) Delete(id uint) error {
	if err := s.db.Delete(&models.TrainingEvent{}, id).Error; err != nil {
		return storageErr("delete training event", err)
	}
	return nil
}
