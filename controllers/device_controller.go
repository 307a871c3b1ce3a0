package controllers

import (
	"errors"
	"net/http"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	Registry *services.DeviceRegistry
}

// constructor
func NewDeviceController(reg *services.DeviceRegistry) *DeviceController {
	return &DeviceController{Registry: reg}
}

type registerTokenReq struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"` // "web" | "ios" | "android"
	Permission string `json:"permission"`  // browser permission state, "denied" skips registration
}

// POST /devices/register
func (dc *DeviceController) Register(c *gin.Context) {
	uid := c.GetUint("userID")

	var req registerTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The client reports the browser's permission state; a denial means no
	// token exists to register.
	if req.Permission == "denied" {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrPermissionDenied.Error()})
		return
	}

	dev, err := dc.Registry.RegisterToken(uid, req.Token, req.DeviceType)
	if err != nil {
		// Persistence failure is non-fatal for the session; the dashboard
		// just continues without push capability.
		if errors.Is(err, services.ErrStorage) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push registration unavailable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           dev.ID,
		"device_type":  dev.DeviceType,
		"is_active":    dev.IsActive,
		"last_used_at": dev.LastUsedAt,
	})
}

type deactivateTokenReq struct {
	Token string `json:"token" binding:"required"`
}

// POST /devices/deactivate — called on logout or token invalidation.
func (dc *DeviceController) Deactivate(c *gin.Context) {
	var req deactivateTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := dc.Registry.DeactivateToken(req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
