package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Svc *services.AnalyticsService
}

func NewAnalyticsController(svc *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc}
}

// GET /analytics/activity?months=6
func (h *AnalyticsController) GetMonthlyActivity(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))

	out, err := h.Svc.MonthlyActivity(c.Request.Context(), months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": out})
}

// GET /analytics/categories
func (h *AnalyticsController) GetCategoryDistribution(c *gin.Context) {
	out, err := h.Svc.CategoryDistribution(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// GET /analytics/weekly?week_start=YYYY-MM-DD
func (h *AnalyticsController) GetWeeklyTrends(c *gin.Context) {
	now := time.Now()
	weekStart := now
	if v := c.Query("week_start"); v != "" {
		ws, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start"})
			return
		}
		weekStart = ws
	}

	out, err := h.Svc.WeeklyTrends(c.Request.Context(), weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": out})
}

// GET /analytics/upcoming?limit=5
func (h *AnalyticsController) GetUpcomingTrainings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	out, err := h.Svc.UpcomingTrainings(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainings": out})
}

// GET /analytics/deliveries
func (h *AnalyticsController) GetDeliveryStats(c *gin.Context) {
	out, err := h.Svc.NotificationDeliveryStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
