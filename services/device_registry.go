package services

import (
	"errors"
	"strings"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeviceRegistry owns the device_tokens table: one row per provider-issued
// token, soft-deleted via is_active. Never hard-deletes, so token history
// survives for audit.
type DeviceRegistry struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewDeviceRegistry(db *gorm.DB, logger *zap.SugaredLogger) *DeviceRegistry {
	return &DeviceRegistry{db: db, logger: logger}
}

func validDeviceType(t string) bool {
	switch strings.ToLower(t) {
	case "web", "ios", "android":
		return true
	}
	return false
}

// RegisterToken is idempotent: re-registering a known token refreshes
// last_used_at and reactivates the existing row, preserving its id.
func (r *DeviceRegistry) RegisterToken(userID uint, token, deviceType string) (*models.DeviceToken, error) {
	if token == "" {
		return nil, ErrTokenUnavailable
	}
	if !validDeviceType(deviceType) {
		deviceType = "web"
	}
	deviceType = strings.ToLower(deviceType)

	now := time.Now()

	var existing models.DeviceToken
	err := r.db.Where("device_token = ?", token).First(&existing).Error
	if err == nil {
		existing.LastUsedAt = now
		existing.IsActive = true
		existing.DeviceType = deviceType
		if err := r.db.Save(&existing).Error; err != nil {
			return nil, storageErr("refresh device token", err)
		}
		r.logger.Debugw("device token refreshed", "user_id", userID, "device_token_id", existing.ID)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr("lookup device token", err)
	}

	dev := models.DeviceToken{
		UserID:      userID,
		DeviceToken: token,
		DeviceType:  deviceType,
		IsActive:    true,
		CreatedAt:   now,
		LastUsedAt:  now,
	}
	if err := r.db.Create(&dev).Error; err != nil {
		return nil, storageErr("insert device token", err)
	}
	r.logger.Infow("device token registered", "user_id", userID, "device_type", deviceType)
	return &dev, nil
}

// DeactivateToken soft-deletes every row holding the token. A token the
// registry never saw is not an error; it only logs.
func (r *DeviceRegistry) DeactivateToken(token string) error {
	res := r.db.Model(&models.DeviceToken{}).
		Where("device_token = ?", token).
		Update("is_active", false)
	if res.Error != nil {
		return storageErr("deactivate device token", res.Error)
	}
	if res.RowsAffected == 0 {
		r.logger.Debugw("deactivate called for unknown token")
	}
	return nil
}

// ActiveTokens returns the active tokens for a set of users, for push fan-out.
func (r *DeviceRegistry) ActiveTokens(userIDs []uint) ([]models.DeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var tokens []models.DeviceToken
	if err := r.db.
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Find(&tokens).Error; err != nil {
		return nil, storageErr("list active device tokens", err)
	}
	return tokens, nil
}
