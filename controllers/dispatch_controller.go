package controllers

import (
	"net/http"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
)

// DispatchController exposes the browser-facing send endpoint, mirroring the
// hosted function contract: POST with user identifiers and merge tags,
// responds {success: bool}. CORS preflight is answered permissively by the
// router's middleware so browser calls pass.
type DispatchController struct {
	Provider   services.Provider
	TemplateID string
}

func NewDispatchController(provider services.Provider, templateID string) *DispatchController {
	return &DispatchController{Provider: provider, TemplateID: templateID}
}

type notifyReq struct {
	UserID     string            `json:"userId" binding:"required"`
	UserEmail  string            `json:"userEmail" binding:"required,email"`
	UserNumber string            `json:"userNumber"`
	MergeTags  map[string]string `json:"mergeTags"`
}

// POST /functions/notify
func (dc *DispatchController) Notify(c *gin.Context) {
	var req notifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId and userEmail are required"})
		return
	}

	err := dc.Provider.Send(c.Request.Context(), services.SendRequest{
		TemplateID: dc.TemplateID,
		User: services.ProviderUser{
			ID:     req.UserID,
			Email:  req.UserEmail,
			Number: req.UserNumber,
		},
		MergeTags: req.MergeTags,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
