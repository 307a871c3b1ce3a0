package services

import (
	"context"
	"math"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"gorm.io/gorm"
)

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// ---------- Monthly activity ----------

type MonthBucket struct {
	Month     string `json:"month"` // "2025-05"
	Trainings int64  `json:"trainings"`
}

// MonthlyActivity counts trainings per calendar month over the last `months`
// months, including empty months so charts keep a continuous axis.
func (s *AnalyticsService) MonthlyActivity(ctx context.Context, months int) ([]MonthBucket, error) {
	if months <= 0 {
		months = 6
	}
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)

	var events []models.TrainingEvent
	if err := s.db.WithContext(ctx).
		Where("date >= ?", first).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return nil, storageErr("load training events", err)
	}

	counts := map[string]int64{}
	for _, e := range events {
		counts[e.Date.Format("2006-01")]++
	}

	out := make([]MonthBucket, 0, months)
	for m := first; !m.After(now); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		out = append(out, MonthBucket{Month: key, Trainings: counts[key]})
	}
	return out, nil
}

// ---------- Category distribution ----------

type CategoryShare struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	Percent  float64 `json:"percent"`
}

func (s *AnalyticsService) CategoryDistribution(ctx context.Context) ([]CategoryShare, error) {
	type row struct {
		Category string
		Count    int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.TrainingEvent{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, storageErr("count categories", err)
	}

	var total int64
	for _, r := range rows {
		total += r.Count
	}

	out := make([]CategoryShare, 0, len(rows))
	for _, r := range rows {
		share := CategoryShare{Category: r.Category, Count: r.Count}
		if total > 0 {
			share.Percent = round2(float64(r.Count) / float64(total) * 100.0)
		}
		out = append(out, share)
	}
	return out, nil
}

// ---------- Weekly trends ----------

type DayBucket struct {
	Date      string `json:"date"` // "2025-05-01"
	Trainings int64  `json:"trainings"`
}

// WeeklyTrends buckets trainings per day for the week starting at weekStart
// (normalized to Monday), empty days included.
func (s *AnalyticsService) WeeklyTrends(ctx context.Context, weekStart time.Time) ([]DayBucket, error) {
	from := startOfWeek(weekStart)
	to := from.AddDate(0, 0, 6)

	var events []models.TrainingEvent
	if err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, dayEnd(to)).
		Find(&events).Error; err != nil {
		return nil, storageErr("load training events", err)
	}

	counts := map[string]int64{}
	for _, e := range events {
		counts[e.Date.Format("2006-01-02")]++
	}

	out := make([]DayBucket, 0, 7)
	for i := 0; i < 7; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, DayBucket{Date: key, Trainings: counts[key]})
	}
	return out, nil
}

// ---------- Upcoming trainings ----------

func (s *AnalyticsService) UpcomingTrainings(ctx context.Context, limit int) ([]models.TrainingEvent, error) {
	if limit <= 0 {
		limit = 5
	}
	var events []models.TrainingEvent
	if err := s.db.WithContext(ctx).
		Preload("Trainers").
		Where("date >= ?", dayStart(time.Now())).
		Order("date ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, storageErr("load upcoming trainings", err)
	}
	return events, nil
}

// ---------- Delivery stats ----------

type DeliveryStats struct {
	Pending int64 `json:"pending"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
}

func (s *AnalyticsService) NotificationDeliveryStats(ctx context.Context) (*DeliveryStats, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, storageErr("count notification statuses", err)
	}

	out := &DeliveryStats{}
	for _, r := range rows {
		switch r.Status {
		case models.NotificationPending:
			out.Pending = r.Count
		case models.NotificationSent:
			out.Sent = r.Count
		case models.NotificationFailed:
			out.Failed = r.Count
		}
	}
	return out, nil
}

// ---------- internals ----------

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	tt := dayStart(t)
	return tt.AddDate(0, 0, -(wd - 1)) // Monday
}
