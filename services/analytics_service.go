package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vashonai/Dietlytic/models"
)

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

type MacroAverages struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Fiber    float64 `json:"fiber"`
}

// IntakeSummary aggregates the user's logged entries over a date range
// for the progress screen.
type IntakeSummary struct {
	From            string        `json:"from"`
	To              string        `json:"to"`
	TotalEntries    int           `json:"total_entries"`
	DaysWithEntries int           `json:"days_with_entries"`
	DailyAverages   MacroAverages `json:"daily_averages"`
	AvgHealthScore  float64       `json:"avg_health_score"`
	HealthyShare    float64       `json:"healthy_share"` // fraction of entries scoring >= 70
}

// Summary averages intake per day-with-entries; days without logs are
// excluded from the averages rather than counted as zero.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, from, to time.Time) (*IntakeSummary, error) {
	var entries []models.NutritionEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND ate_at >= ? AND ate_at < ?", userID, dayStart(from), dayStart(to).Add(24*time.Hour)).
		Order("ate_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	out := &IntakeSummary{
		From:         dayStart(from).Format("2006-01-02"),
		To:           dayStart(to).Format("2006-01-02"),
		TotalEntries: len(entries),
	}
	if len(entries) == 0 {
		return out, nil
	}

	days := map[string]struct{}{}
	var totals MacroAverages
	var scoreSum float64
	var healthy int
	for _, e := range entries {
		days[e.AteAt.Format("2006-01-02")] = struct{}{}
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fat += e.Fat
		totals.Sugar += e.Sugar
		totals.Sodium += e.Sodium
		totals.Fiber += e.Fiber
		scoreSum += float64(e.HealthScore)
		if e.HealthScore >= 70 {
			healthy++
		}
	}

	n := float64(len(days))
	out.DaysWithEntries = len(days)
	out.DailyAverages = MacroAverages{
		Calories: totals.Calories / n,
		Protein:  totals.Protein / n,
		Carbs:    totals.Carbs / n,
		Fat:      totals.Fat / n,
		Sugar:    totals.Sugar / n,
		Sodium:   totals.Sodium / n,
		Fiber:    totals.Fiber / n,
	}
	out.AvgHealthScore = scoreSum / float64(len(entries))
	out.HealthyShare = float64(healthy) / float64(len(entries))
	return out, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
