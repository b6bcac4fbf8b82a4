package controllers

import (
	"log"
	"net/http"

	"github.com/vashonai/Dietlytic/models"
	"github.com/vashonai/Dietlytic/services"
	"github.com/vashonai/Dietlytic/utils"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	store *services.GormNutritionStore
}

func NewMealController(store *services.GormNutritionStore) *MealController {
	return &MealController{store: store}
}

// POST /meals  { "label": ..., "nutrition": {...}, "photo_base64": "data:..." }
//
// Persists a resolved nutrition record as a history entry. The photo is
// optional; upload failure does not fail the log.
func (mc *MealController) Log(c *gin.Context) {
	var req struct {
		Label       string                 `json:"label" binding:"required"`
		Nutrition   models.NutritionRecord `json:"nutrition" binding:"required"`
		PhotoBase64 string                 `json:"photo_base64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	entryID, err := mc.store.SaveNutritionEntry(c.Request.Context(), userID, req.Label, req.Nutrition)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.PhotoBase64 != "" {
		url, err := utils.UploadMealPhoto(c.Request.Context(), req.PhotoBase64, userID)
		if err != nil {
			log.Printf("meal photo upload failed for entry %d: %v", entryID, err)
		} else if err := mc.store.SetPhotoURL(c.Request.Context(), entryID, url); err != nil {
			log.Printf("recording photo url failed for entry %d: %v", entryID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": entryID})
}

// GET /meals
func (mc *MealController) List(c *gin.Context) {
	entries, err := mc.store.ListEntries(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GET /meals/today
func (mc *MealController) TodaysTotals(c *gin.Context) {
	totals, err := mc.store.TodaysTotals(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, totals)
}
