package models

import "gorm.io/gorm"

// Document is metadata for a file stored in S3; the blob itself lives under Key.
type Document struct {
	gorm.Model
	UploadedBy  uint   `gorm:"index"` // users.id
	Title       string `gorm:"not null"`
	Category    string `gorm:"size:64;index"`
	Key         string `gorm:"size:512;not null"`
	URL         string `gorm:"size:512"`
	ContentType string `gorm:"size:128"`
	SizeBytes   int64
}
