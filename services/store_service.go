package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vashonai/Dietlytic/models"
)

// GormNutritionStore persists nutrition entries. Implements
// NutritionStore for the orchestrator and backs the meal history API.
type GormNutritionStore struct {
	db    *gorm.DB
	coach *CoachService
}

func NewGormNutritionStore(db *gorm.DB, coach *CoachService) *GormNutritionStore {
	return &GormNutritionStore{db: db, coach: coach}
}

func (s *GormNutritionStore) SaveNutritionEntry(ctx context.Context, userID uint, label string, rec models.NutritionRecord) (uint, error) {
	analysis := s.coach.AnalyzeFood(rec)

	entry := models.NutritionEntry{
		UserID:       userID,
		FoodLabel:    label,
		AteAt:        time.Now(),
		ServingUnit:  rec.ServingUnit,
		ServingGrams: rec.ServingGrams,
		Calories:     rec.Calories,
		Protein:      rec.Protein,
		Carbs:        rec.TotalCarbs,
		Fat:          rec.TotalFat,
		SaturatedFat: rec.SaturatedFat,
		Fiber:        rec.DietaryFiber,
		Sugar:        rec.Sugars,
		Sodium:       rec.Sodium,
		Cholesterol:  rec.Cholesterol,
		Potassium:    rec.Potassium,
		HealthScore:  analysis.HealthScore,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// SetPhotoURL records the uploaded photo location on an existing entry.
func (s *GormNutritionStore) SetPhotoURL(ctx context.Context, entryID uint, url string) error {
	return s.db.WithContext(ctx).
		Model(&models.NutritionEntry{}).
		Where("id = ?", entryID).
		Update("photo_url", url).Error
}

func (s *GormNutritionStore) ListEntries(ctx context.Context, userID uint) ([]models.NutritionEntry, error) {
	var entries []models.NutritionEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&entries).Error
	return entries, err
}

// DailyTotals sums macros over today's entries for the goals screen.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Entries  int     `json:"entries"`
}

func (s *GormNutritionStore) TodaysTotals(ctx context.Context, userID uint) (*DailyTotals, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	var entries []models.NutritionEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND ate_at >= ? AND ate_at < ?", userID, start, end).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	totals := &DailyTotals{Entries: len(entries)}
	for _, e := range entries {
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fat += e.Fat
		totals.Sugar += e.Sugar
		totals.Sodium += e.Sodium
	}
	return totals, nil
}

// GormProfileStore reads and updates the goal profile. Implements
// ProfileStore.
type GormProfileStore struct {
	db *gorm.DB
}

func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{db: db}
}

func (s *GormProfileStore) GetUserGoalProfile(ctx context.Context, userID uint) (*models.UserGoalProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var conditions []models.HealthConditionRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&conditions).Error; err != nil {
		return nil, err
	}
	var restrictions []models.DietaryRestrictionRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&restrictions).Error; err != nil {
		return nil, err
	}

	profile := &models.UserGoalProfile{
		UserID:        user.ID,
		WeightGoal:    models.WeightGoal(user.WeightGoal),
		ActivityLevel: models.ActivityLevel(user.ActivityLevel),
	}
	for _, c := range conditions {
		profile.HealthConditions = append(profile.HealthConditions, models.HealthCondition{
			Name:         c.Name,
			Type:         c.Type,
			Severity:     c.Severity,
			Restrictions: splitList(c.Restrictions),
		})
	}
	for _, r := range restrictions {
		profile.DietaryRestrictions = append(profile.DietaryRestrictions, r.Restriction)
	}
	return profile, nil
}

func (s *GormProfileStore) ListGoals(ctx context.Context, userID uint) ([]models.UserGoal, error) {
	var goals []models.UserGoal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

// UpsertGoal updates the goal by id when one is given, otherwise
// creates it.
func (s *GormProfileStore) UpsertGoal(ctx context.Context, userID uint, goal models.UserGoal) error {
	goal.UserID = userID
	if goal.ID == 0 {
		return s.db.WithContext(ctx).Create(&goal).Error
	}

	var existing models.UserGoal
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goal.ID, userID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal.ID = 0
		return s.db.WithContext(ctx).Create(&goal).Error
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"type":          goal.Type,
		"target":        goal.Target,
		"target_value":  goal.TargetValue,
		"current_value": goal.CurrentValue,
		"is_active":     goal.IsActive,
		"notes":         goal.Notes,
	}).Error
}

// UpsertHealthCondition matches by name (case-insensitive) so the coach
// can restate a known condition without duplicating it.
func (s *GormProfileStore) UpsertHealthCondition(ctx context.Context, userID uint, cond models.HealthCondition) error {
	rec := models.HealthConditionRecord{
		UserID:       userID,
		Name:         cond.Name,
		Type:         cond.Type,
		Severity:     cond.Severity,
		Restrictions: strings.Join(cond.Restrictions, ","),
	}

	var existing models.HealthConditionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, cond.Name).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(&rec).Error
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"type":         rec.Type,
		"severity":     rec.Severity,
		"restrictions": rec.Restrictions,
	}).Error
}

// ReplaceDietaryRestrictions swaps the user's restriction set atomically.
func (s *GormProfileStore) ReplaceDietaryRestrictions(ctx context.Context, userID uint, restrictions []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.DietaryRestrictionRecord{}).Error; err != nil {
			return err
		}
		for _, r := range restrictions {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			rec := models.DietaryRestrictionRecord{UserID: userID, Restriction: r}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
