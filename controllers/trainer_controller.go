package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TrainerController struct {
	Svc *services.TrainerService
}

func NewTrainerController(svc *services.TrainerService) *TrainerController {
	return &TrainerController{Svc: svc}
}

func (tc *TrainerController) Create(c *gin.Context) {
	var in services.TrainerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := tc.Svc.Create(in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (tc *TrainerController) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	trainers, err := tc.Svc.List(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainers": trainers})
}

func (tc *TrainerController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	// partial update: bind without the create-time required tags
	var req struct {
		FullName  string `json:"full_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Specialty string `json:"specialty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := tc.Svc.Update(uint(id), services.TrainerInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "trainer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *TrainerController) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := tc.Svc.Deactivate(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "trainer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
