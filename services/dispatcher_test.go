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

func newTestDispatcher(t *testing.T, provider Provider) (*Dispatcher, *NotificationStore, *DeviceRegistry) {
	db := newTestDB(t)
	store := NewNotificationStore(db)
	registry := NewDeviceRegistry(db, testLogger())
	d := NewDispatcher(store, registry, provider, nil, nil, "isf_admin", testLogger())
	return d, store, registry
}

func TestDispatchZeroRecipientsIsNoOpSuccess(t *testing.T) {
	provider := &fakeProvider{}
	d, store, _ := newTestDispatcher(t, provider)

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	res, err := d.Dispatch(context.Background(), n, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Sent)
	assert.Zero(t, res.Failed)
	assert.Zero(t, provider.callCount())

	// The record settles so the scheduler never re-picks it.
	got, err := store.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, got.Status)
}

func TestDispatchAllRecipientsSucceed(t *testing.T) {
	provider := &fakeProvider{}
	d, store, _ := newTestDispatcher(t, provider)

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	recipients := []Recipient{
		{UserID: 1, Email: "a@example.com"},
		{UserID: 2, Email: "b@example.com"},
	}
	res, err := d.Dispatch(context.Background(), n, recipients, map[string]string{"trainingTitle": "Fire Drill"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	assert.Zero(t, res.Failed)
	assert.Equal(t, 2, provider.callCount())

	got, err := store.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, got.Status)
	require.NotNil(t, got.SentAt)
}

func TestDispatchPartialFailureTaintsRecord(t *testing.T) {
	provider := &fakeProvider{failFor: map[string]error{
		"b@example.com": errors.New("quota exceeded"),
	}}
	d, store, _ := newTestDispatcher(t, provider)

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	recipients := []Recipient{
		{UserID: 1, Email: "a@example.com"},
		{UserID: 2, Email: "b@example.com"},
	}
	res, err := d.Dispatch(context.Background(), n, recipients, nil)
	require.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)

	got, serr := store.Get(n.ID)
	require.NoError(t, serr)
	assert.Equal(t, models.NotificationFailed, got.Status)
	assert.Nil(t, got.SentAt)
}

func TestDispatchTotalFailure(t *testing.T) {
	provider := &fakeProvider{failFor: map[string]error{
		"a@example.com": errors.New("network down"),
	}}
	d, store, _ := newTestDispatcher(t, provider)

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	res, err := d.Dispatch(context.Background(), n, []Recipient{{UserID: 1, Email: "a@example.com"}}, nil)
	require.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, 1, res.Failed)

	got, serr := store.Get(n.ID)
	require.NoError(t, serr)
	assert.Equal(t, models.NotificationFailed, got.Status)
}

func TestDispatchTimeoutTreatedAsProviderError(t *testing.T) {
	provider := &fakeProvider{block: true}
	d, store, _ := newTestDispatcher(t, provider)
	d.timeout = 20 * time.Millisecond

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	res, err := d.Dispatch(context.Background(), n, []Recipient{{UserID: 1, Email: "a@example.com"}}, nil)
	require.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, 1, res.Failed)

	got, serr := store.Get(n.ID)
	require.NoError(t, serr)
	assert.Equal(t, models.NotificationFailed, got.Status)
}

func TestDispatchSendsMergeTagsPerRecipient(t *testing.T) {
	provider := &fakeProvider{}
	d, store, _ := newTestDispatcher(t, provider)

	n, err := store.Create(1, "t", "b", nil)
	require.NoError(t, err)

	tags := map[string]string{
		"trainingTitle": "Fire Drill",
		"trainingDate":  "2025-05-01",
		"trainingTime":  "10:00",
	}
	_, err = d.Dispatch(context.Background(), n, []Recipient{{UserID: 9, Email: "t@example.com"}}, tags)
	require.NoError(t, err)

	require.Len(t, provider.calls, 1)
	call := provider.calls[0]
	assert.Equal(t, "isf_admin", call.TemplateID)
	assert.Equal(t, "t@example.com", call.User.Email)
	assert.Equal(t, "Fire Drill", call.MergeTags["trainingTitle"])
	assert.Equal(t, "2025-05-01", call.MergeTags["trainingDate"])
}
