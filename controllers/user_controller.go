package controllers

import (
	"net/http"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	email := c.GetString("email")
	profile, err := services.GetUserProfile(email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	email := c.GetString("email")
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := services.UpdateUserProfile(email, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully"})
}
