package services

import (
	"errors"

	"github.com/mdAli87/ISF-admin/config"
	"github.com/mdAli87/ISF-admin/models"
)

type ProfileInput struct {
	FullName string `json:"full_name"`
}

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	return map[string]interface{}{
		"id":          user.ID,
		"email":       user.Email,
		"full_name":   user.FullName,
		"role":        user.Role,
		"mfa_enabled": user.MFAEnabled,
	}, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}

	return config.DB.Save(&user).Error
}

func DeleteUser(email string) error {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return result.Error
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}
