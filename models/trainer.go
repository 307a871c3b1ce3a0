package models

import "gorm.io/gorm"

type Trainer struct {
	gorm.Model
	FullName  string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Phone     string `gorm:"size:32"`
	Specialty string `gorm:"size:64"` // e.g. "Fire Safety", "First Aid"
	Active    bool   `gorm:"default:true"`
}
