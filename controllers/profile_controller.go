package controllers

import (
	"net/http"

	"github.com/vashonai/Dietlytic/config"
	"github.com/vashonai/Dietlytic/models"
	"github.com/vashonai/Dietlytic/services"
	"github.com/vashonai/Dietlytic/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profiles *services.GormProfileStore
}

func NewProfileController(profiles *services.GormProfileStore) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// GET /user/profile
func (pc *ProfileController) Get(c *gin.Context) {
	userID := c.GetUint("userID")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	profile, err := pc.profiles.GetUserGoalProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"full_name":      user.FullName,
		"height_cm":      user.HeightCm,
		"weight_kg":      user.WeightKg,
		"weight_goal":    user.WeightGoal,
		"activity_level": user.ActivityLevel,
		"goal_profile":   profile,
	}
	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		out["bmi"] = bmi
		out["bmi_category"] = utils.BMICategory(bmi)
		out["daily_calorie_target"] = utils.EstimateDailyCalories(user.WeightKg, user.ActivityLevel, user.WeightGoal)
	}

	c.JSON(http.StatusOK, out)
}

type ProfileInput struct {
	FullName      string  `json:"full_name"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	WeightGoal    string  `json:"weight_goal"`    // lose | maintain | gain
	ActivityLevel string  `json:"activity_level"` // sedentary ... very_active
}

// PUT /user/profile
func (pc *ProfileController) Update(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, c.GetUint("userID")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.HeightCm > 0 {
		user.HeightCm = input.HeightCm
	}
	if input.WeightKg > 0 {
		user.WeightKg = input.WeightKg
	}
	switch models.WeightGoal(input.WeightGoal) {
	case models.GoalLose, models.GoalMaintain, models.GoalGain:
		user.WeightGoal = input.WeightGoal
	}
	switch models.ActivityLevel(input.ActivityLevel) {
	case models.ActivitySedentary, models.ActivityLight, models.ActivityModerate,
		models.ActivityActive, models.ActivityVeryActive:
		user.ActivityLevel = input.ActivityLevel
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// PUT /user/profile/conditions  { "conditions": [ {...} ] }
func (pc *ProfileController) UpdateConditions(c *gin.Context) {
	var input struct {
		Conditions []models.HealthCondition `json:"conditions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	for _, cond := range input.Conditions {
		if err := pc.profiles.UpsertHealthCondition(c.Request.Context(), userID, cond); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "conditions updated"})
}

// PUT /user/profile/restrictions  { "restrictions": ["vegan", ...] }
func (pc *ProfileController) UpdateRestrictions(c *gin.Context) {
	var input struct {
		Restrictions []string `json:"restrictions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pc.profiles.ReplaceDietaryRestrictions(c.Request.Context(), c.GetUint("userID"), input.Restrictions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "restrictions updated"})
}
