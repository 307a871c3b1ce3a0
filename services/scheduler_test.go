package services

import (
	"errors"
	"testing"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepDispatchesDueAndContinuesPastFailures(t *testing.T) {
	provider := &fakeProvider{failFor: map[string]error{
		"down@example.com": errors.New("vendor down"),
	}}
	svc, store := newTestTrainingService(t, provider)

	bad := seedTrainer(t, svc, "Down Trainer", "down@example.com")
	good := seedTrainer(t, svc, "Up Trainer", "up@example.com")

	evBad := models.TrainingEvent{Title: "Chemical Handling", Date: time.Now(), Trainers: []models.Trainer{*bad}}
	require.NoError(t, svc.db.Create(&evBad).Error)
	evGood := models.TrainingEvent{Title: "Fire Drill", Date: time.Now(), Trainers: []models.Trainer{*good}}
	require.NoError(t, svc.db.Create(&evGood).Error)

	// The failing record is due first; the sweep must still reach the second.
	earlier := time.Now().Add(-2 * time.Minute)
	later := time.Now().Add(-time.Minute)
	nBad, err := store.Create(evBad.ID, "t", "b", &earlier)
	require.NoError(t, err)
	nGood, err := store.Create(evGood.ID, "t", "b", &later)
	require.NoError(t, err)

	sched := NewDispatchScheduler(store, svc, testLogger())
	sched.sweep()

	got, err := store.Get(nBad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationFailed, got.Status)

	got, err = store.Get(nGood.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, got.Status)
	require.NotNil(t, got.SentAt)
	assert.Equal(t, 2, provider.callCount())
}

func TestSweepIgnoresUndueRecords(t *testing.T) {
	provider := &fakeProvider{}
	svc, store := newTestTrainingService(t, provider)

	trainer := seedTrainer(t, svc, "Up Trainer", "up@example.com")
	ev := models.TrainingEvent{Title: "First Aid", Date: time.Now(), Trainers: []models.Trainer{*trainer}}
	require.NoError(t, svc.db.Create(&ev).Error)

	future := time.Now().Add(time.Hour)
	n, err := store.Create(ev.ID, "t", "b", &future)
	require.NoError(t, err)

	sched := NewDispatchScheduler(store, svc, testLogger())
	sched.sweep()

	got, err := store.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationPending, got.Status)
	assert.Zero(t, provider.callCount())
}
