package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrainingService(t *testing.T, provider Provider) (*TrainingService, *NotificationStore) {
	db := newTestDB(t)
	store := NewNotificationStore(db)
	registry := NewDeviceRegistry(db, testLogger())
	dispatcher := NewDispatcher(store, registry, provider, nil, nil, "isf_admin", testLogger())
	svc := NewTrainingService(db, store, dispatcher, testLogger())
	return svc, store
}

func seedTrainer(t *testing.T, svc *TrainingService, name, email string) *models.Trainer {
	t.Helper()
	tr := models.Trainer{FullName: name, Email: email, Active: true}
	require.NoError(t, svc.db.Create(&tr).Error)
	return &tr
}

func TestScheduleWithNotifySendsMergeTags(t *testing.T) {
	provider := &fakeProvider{}
	svc, store := newTestTrainingService(t, provider)

	trainer := seedTrainer(t, svc, "Jordan Blake", "t@example.com")

	date, _ := time.ParseInLocation("2006-01-02", "2025-05-01", time.Local)
	out, err := svc.Schedule(context.Background(), ScheduleTrainingInput{
		Title:      "Fire Drill",
		Category:   "Fire Safety",
		Date:       date,
		StartTime:  "10:00",
		Location:   "Plant 2",
		TrainerIDs: []uint{trainer.ID},
		Notify:     true,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Event)
	require.NotNil(t, out.Notification)
	require.NotNil(t, out.Dispatch)
	assert.Equal(t, 1, out.Dispatch.Sent)

	require.Len(t, provider.calls, 1)
	call := provider.calls[0]
	assert.Equal(t, "t@example.com", call.User.Email)
	assert.Equal(t, "Fire Drill", call.MergeTags["trainingTitle"])
	assert.Equal(t, "2025-05-01", call.MergeTags["trainingDate"])
	assert.Equal(t, "10:00", call.MergeTags["trainingTime"])
	assert.Equal(t, "Plant 2", call.MergeTags["trainingLocation"])
	assert.Equal(t, "Jordan Blake", call.MergeTags["trainerName"])

	got, err := store.Get(out.Notification.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, got.Status)
	require.NotNil(t, got.SentAt)
}

func TestScheduleSucceedsWhenProviderFails(t *testing.T) {
	provider := &fakeProvider{failFor: map[string]error{
		"t@example.com": errors.New("simulated network error"),
	}}
	svc, store := newTestTrainingService(t, provider)

	trainer := seedTrainer(t, svc, "Jordan Blake", "t@example.com")

	out, err := svc.Schedule(context.Background(), ScheduleTrainingInput{
		Title:      "Fire Drill",
		Date:       time.Now().AddDate(0, 0, 7),
		TrainerIDs: []uint{trainer.ID},
		Notify:     true,
	})
	// The schedule action already committed; the notification failure only
	// comes back in the outcome.
	require.NoError(t, err)
	require.NotNil(t, out.Event)
	assert.NotZero(t, out.Event.ID)
	require.NotNil(t, out.Dispatch)
	assert.Equal(t, 1, out.Dispatch.Failed)
	assert.ErrorIs(t, out.NotifyErr, ErrProvider)

	got, serr := store.Get(out.Notification.ID)
	require.NoError(t, serr)
	assert.Equal(t, models.NotificationFailed, got.Status)
}

func TestScheduleWithoutNotifyCreatesNoNotification(t *testing.T) {
	provider := &fakeProvider{}
	svc, store := newTestTrainingService(t, provider)

	out, err := svc.Schedule(context.Background(), ScheduleTrainingInput{
		Title: "Toolbox Talk",
		Date:  time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, out.Notification)
	assert.Zero(t, provider.callCount())

	list, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestScheduleDeferredDispatchStaysPending(t *testing.T) {
	provider := &fakeProvider{}
	svc, store := newTestTrainingService(t, provider)

	trainer := seedTrainer(t, svc, "Sam Reyes", "s@example.com")

	at := time.Now().Add(2 * time.Hour)
	out, err := svc.Schedule(context.Background(), ScheduleTrainingInput{
		Title:        "First Aid Refresher",
		Date:         time.Now().AddDate(0, 0, 3),
		TrainerIDs:   []uint{trainer.ID},
		Notify:       true,
		ScheduledFor: &at,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Notification)
	assert.Nil(t, out.Dispatch)
	assert.Zero(t, provider.callCount())

	got, err := store.Get(out.Notification.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationPending, got.Status)
}

func TestScheduleSkipsInactiveTrainers(t *testing.T) {
	provider := &fakeProvider{}
	svc, _ := newTestTrainingService(t, provider)

	active := seedTrainer(t, svc, "Active One", "a@example.com")
	inactive := seedTrainer(t, svc, "Gone One", "g@example.com")
	require.NoError(t, svc.db.Model(inactive).Update("active", false).Error)

	out, err := svc.Schedule(context.Background(), ScheduleTrainingInput{
		Title:      "Ladder Safety",
		Date:       time.Now().AddDate(0, 0, 1),
		TrainerIDs: []uint{active.ID, inactive.ID},
		Notify:     true,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Dispatch)
	assert.Equal(t, 1, out.Dispatch.Sent)
	require.Len(t, provider.calls, 1)
	assert.Equal(t, "a@example.com", provider.calls[0].User.Email)
}
