package services

import (
	"testing"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotificationStartsPending(t *testing.T) {
	store := NewNotificationStore(newTestDB(t))

	n, err := store.Create(42, "Training scheduled", "Fire Drill on 2025-05-01", nil)
	require.NoError(t, err)

	assert.Equal(t, models.NotificationPending, n.Status)
	assert.Nil(t, n.SentAt)
	assert.Equal(t, uint(42), n.TrainingEventID)
}

func TestMarkSentStampsSentAt(t *testing.T) {
	store := NewNotificationStore(newTestDB(t))

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	sent, err := store.MarkSent(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, sent.Status)
	require.NotNil(t, sent.SentAt)
}

func TestStatusTransitionsAreTerminal(t *testing.T) {
	store := NewNotificationStore(newTestDB(t))

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	_, err = store.MarkSent(n.ID)
	require.NoError(t, err)

	// Once sent, a later failure report must not rewrite history.
	after, err := store.MarkFailed(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, after.Status)

	m, err := store.Create(2, "t", "b", nil)
	require.NoError(t, err)
	_, err = store.MarkFailed(m.ID)
	require.NoError(t, err)

	after, err = store.MarkSent(m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationFailed, after.Status)
	assert.Nil(t, after.SentAt)
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	store := NewNotificationStore(db)

	older, err := store.Create(1, "old", "b", nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer, err := store.Create(2, "new", "b", nil)
	require.NoError(t, err)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestDuePendingSelectsOnlyDue(t *testing.T) {
	store := NewNotificationStore(newTestDB(t))

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	due, err := store.Create(1, "due", "b", &past)
	require.NoError(t, err)
	_, err = store.Create(2, "not yet", "b", &future)
	require.NoError(t, err)
	_, err = store.Create(3, "unscheduled", "b", nil)
	require.NoError(t, err)

	settled, err := store.Create(4, "already sent", "b", &past)
	require.NoError(t, err)
	_, err = store.MarkSent(settled.ID)
	require.NoError(t, err)

	list, err := store.DuePending(time.Now())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, due.ID, list[0].ID)
}
