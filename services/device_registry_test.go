package services

import (
	"testing"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTokenIdempotent(t *testing.T) {
	db := newTestDB(t)
	reg := NewDeviceRegistry(db, testLogger())

	first, err := reg.RegisterToken(1, "fcm-token-abc", "web")
	require.NoError(t, err)
	require.True(t, first.IsActive)

	// Age the row so the refreshed timestamp is observable.
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(first).Update("last_used_at", stale).Error)

	second, err := reg.RegisterToken(1, "fcm-token-abc", "web")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsActive)
	assert.True(t, second.LastUsedAt.After(stale))

	var count int64
	require.NoError(t, db.Model(&models.DeviceToken{}).Where("device_token = ?", "fcm-token-abc").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeactivateUnknownTokenIsNoOp(t *testing.T) {
	db := newTestDB(t)
	reg := NewDeviceRegistry(db, testLogger())

	err := reg.DeactivateToken("never-seen")
	assert.NoError(t, err)
}

func TestDeactivateThenReRegisterReactivates(t *testing.T) {
	db := newTestDB(t)
	reg := NewDeviceRegistry(db, testLogger())

	dev, err := reg.RegisterToken(7, "tok-1", "web")
	require.NoError(t, err)

	require.NoError(t, reg.DeactivateToken("tok-1"))

	var row models.DeviceToken
	require.NoError(t, db.First(&row, dev.ID).Error)
	assert.False(t, row.IsActive)

	again, err := reg.RegisterToken(7, "tok-1", "web")
	require.NoError(t, err)
	assert.Equal(t, dev.ID, again.ID)
	assert.True(t, again.IsActive)
}

func TestRegisterTokenRejectsEmpty(t *testing.T) {
	db := newTestDB(t)
	reg := NewDeviceRegistry(db, testLogger())

	_, err := reg.RegisterToken(1, "", "web")
	assert.ErrorIs(t, err, ErrTokenUnavailable)
}

func TestActiveTokensFiltersInactiveAndOtherUsers(t *testing.T) {
	db := newTestDB(t)
	reg := NewDeviceRegistry(db, testLogger())

	_, err := reg.RegisterToken(1, "tok-a", "web")
	require.NoError(t, err)
	_, err = reg.RegisterToken(1, "tok-b", "android")
	require.NoError(t, err)
	_, err = reg.RegisterToken(2, "tok-c", "web")
	require.NoError(t, err)
	require.NoError(t, reg.DeactivateToken("tok-b"))

	tokens, err := reg.ActiveTokens([]uint{1})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "tok-a", tokens[0].DeviceToken)

	tokens, err = reg.ActiveTokens(nil)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
