package models

import "time"

// DeviceToken maps a user to one push-delivery token issued by the provider.
// Rows are soft-deleted via IsActive; re-registering the same token
// reactivates the existing row instead of inserting a duplicate.
type DeviceToken struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	DeviceToken string `gorm:"uniqueIndex;size:512;not null"`
	DeviceType  string `gorm:"size:16"` // "web" | "ios" | "android"
	IsActive    bool   `gorm:"default:true"`
	CreatedAt   time.Time
	LastUsedAt  time.Time
}
