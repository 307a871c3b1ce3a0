package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TrainingController struct {
	Svc *services.TrainingService
}

func NewTrainingController(svc *services.TrainingService) *TrainingController {
	return &TrainingController{Svc: svc}
}

type scheduleTrainingReq struct {
	Title        string `json:"title" binding:"required"`
	Category     string `json:"category"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime    string `json:"start_time"`              // HH:MM
	Location     string `json:"location"`
	Description  string `json:"description"`
	TrainerIDs   []uint `json:"trainer_ids"`
	Notify       bool   `json:"notify"`
	ScheduledFor string `json:"scheduled_for"` // RFC3339, optional deferred dispatch
}

// updateTrainingReq drops the required tags so partial updates bind.
type updateTrainingReq struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	Location    string `json:"location"`
	Description string `json:"description"`
	TrainerIDs  []uint `json:"trainer_ids"`
}

// POST /trainings — schedules the event; notification is best-effort and
// never blocks the 201.
func (tc *TrainingController) Schedule(c *gin.Context) {
	var req scheduleTrainingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	in := services.ScheduleTrainingInput{
		Title:       req.Title,
		Category:    req.Category,
		Date:        date,
		StartTime:   req.StartTime,
		Location:    req.Location,
		Description: req.Description,
		TrainerIDs:  req.TrainerIDs,
		Notify:      req.Notify,
	}
	if req.ScheduledFor != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_for"})
			return
		}
		in.ScheduledFor = &at
	}

	out, err := tc.Svc.Schedule(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"message": "training scheduled",
		"event":   out.Event,
	}
	if out.Notification != nil {
		resp["notification_id"] = out.Notification.ID
	}
	userID, _ := c.Get("userID")
	uid, _ := userID.(uint)
	if out.Dispatch != nil {
		if out.Dispatch.Failed > 0 {
			resp["warning"] = fmt.Sprintf("%d notifications failed to send", out.Dispatch.Failed)
			services.EmitAlert(uid, "dispatch_failed",
				fmt.Sprintf("%d notifications for %q failed to send", out.Dispatch.Failed, req.Title))
		} else if out.Dispatch.Sent > 0 {
			resp["notice"] = fmt.Sprintf("Notifications sent to %d trainers", out.Dispatch.Sent)
			services.EmitAlert(uid, "dispatch_sent",
				fmt.Sprintf("Notifications for %q sent to %d trainers", req.Title, out.Dispatch.Sent))
		}
	} else if out.NotifyErr != nil {
		resp["warning"] = "notifications could not be sent"
		services.EmitAlert(uid, "dispatch_failed",
			fmt.Sprintf("Notifications for %q could not be sent", req.Title))
	}

	c.JSON(http.StatusCreated, resp)
}

// GET /trainings?from=YYYY-MM-DD&to=YYYY-MM-DD
func (tc *TrainingController) List(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		to = &t
	}

	events, err := tc.Svc.List(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainings": events})
}

func (tc *TrainingController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	event, err := tc.Svc.Get(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "training not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (tc *TrainingController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateTrainingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.ScheduleTrainingInput{
		Title:       req.Title,
		Category:    req.Category,
		StartTime:   req.StartTime,
		Location:    req.Location,
		Description: req.Description,
		TrainerIDs:  req.TrainerIDs,
	}
	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		in.Date = date
	}

	event, err := tc.Svc.Update(uint(id), in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "training not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (tc *TrainingController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := tc.Svc.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
