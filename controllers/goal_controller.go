package controllers

import (
	"net/http"

	"github.com/vashonai/Dietlytic/models"
	"github.com/vashonai/Dietlytic/services"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	profiles *services.GormProfileStore
}

func NewGoalController(profiles *services.GormProfileStore) *GoalController {
	return &GoalController{profiles: profiles}
}

// GET /user/goals
func (gc *GoalController) List(c *gin.Context) {
	goals, err := gc.profiles.ListGoals(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

type GoalInput struct {
	ID           uint    `json:"id"`
	Type         string  `json:"type" binding:"required"` // weight | fitness | nutrition | health
	Target       string  `json:"target"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
	IsActive     *bool   `json:"is_active"`
	Notes        string  `json:"notes"`
}

// PUT /user/goals
func (gc *GoalController) Upsert(c *gin.Context) {
	var input GoalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.Type {
	case "weight", "fitness", "nutrition", "health":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown goal type"})
		return
	}

	goal := models.UserGoal{
		Type:         input.Type,
		Target:       input.Target,
		TargetValue:  input.TargetValue,
		CurrentValue: input.CurrentValue,
		IsActive:     true,
		Notes:        input.Notes,
	}
	goal.ID = input.ID
	if input.IsActive != nil {
		goal.IsActive = *input.IsActive
	}

	if err := gc.profiles.UpsertGoal(c.Request.Context(), c.GetUint("userID"), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal saved"})
}
