package models

import (
	"time"

	"gorm.io/gorm"
)

// NutritionEntry is one logged food with its nutrition snapshot at the
// time of logging. The snapshot is denormalized so history survives
// upstream catalog changes.
type NutritionEntry struct {
	gorm.Model
	UserID       uint      `gorm:"index;not null"`
	FoodLabel    string    `gorm:"not null"`
	AteAt        time.Time `gorm:"index"`
	PhotoURL     string
	ServingUnit  string
	ServingGrams float64
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	SaturatedFat float64
	Fiber        float64
	Sugar        float64
	Sodium       float64
	Cholesterol  float64
	Potassium    float64
	HealthScore  int
}

// UserGoal holds one of the user's tracked goals (weight, nutrition,
// fitness). The active weight goal drives advisory generation.
type UserGoal struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null"`
	Type         string `gorm:"size:20"` // weight | fitness | nutrition | health
	Target       string
	TargetValue  float64
	CurrentValue float64
	IsActive     bool `gorm:"default:true"`
	Notes        string
}

// HealthConditionRecord is a persisted health condition. Restrictions
// are stored comma separated, same shape the profile API exposes.
type HealthConditionRecord struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Type         string `gorm:"size:20"` // chronic | temporary | allergy | intolerance
	Severity     string `gorm:"size:20"` // mild | moderate | severe
	Restrictions string `gorm:"type:text"`
}

// DietaryRestrictionRecord is one user-declared restriction (vegan,
// halal, gluten-free, ...). Replaced as a set on update.
type DietaryRestrictionRecord struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	Restriction string `gorm:"not null"`
}
