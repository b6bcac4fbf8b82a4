package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email         string `gorm:"uniqueIndex;not null"`
	Password      string `gorm:"not null"`
	FullName      string
	HeightCm      float64
	WeightKg      float64
	WeightGoal    string // lose | maintain | gain
	ActivityLevel string // sedentary | light | moderate | active | very_active
}
