package controllers

import (
	"net/http"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Store *services.NotificationStore
}

func NewNotificationController(store *services.NotificationStore) *NotificationController {
	return &NotificationController{Store: store}
}

// GET /notifications — newest first, point-in-time snapshot.
func (nc *NotificationController) List(c *gin.Context) {
	notifications, err := nc.Store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
