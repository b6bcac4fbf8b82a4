package controllers

import (
	"errors"
	"net/http"

	"github.com/vashonai/Dietlytic/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	food  *services.FoodService
	store *services.GormNutritionStore
	hub   *services.AdvisoryHub
}

func NewFoodController(food *services.FoodService, store *services.GormNutritionStore, hub *services.AdvisoryHub) *FoodController {
	return &FoodController{food: food, store: store, hub: hub}
}

// POST /food/scan  { "image_base64": "data:image/jpeg;base64,..." }
//
// Responds with either a resolved scan result (single detection) or a
// candidate list the client must disambiguate. An empty response body
// section means no food was identified.
func (fc *FoodController) Scan(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	userID := c.GetUint("userID")
	outcome, err := fc.food.ScanImage(c.Request.Context(), userID, req.ImageBase64)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImageUnreadable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDetectionTransport), errors.Is(err, services.ErrLookupTransport):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if outcome.Result != nil {
		fc.hub.BroadcastAdvisory(userID, outcome.Result.Label, outcome.Result.Analysis, outcome.Result.Advisory)
	}
	c.JSON(http.StatusOK, outcome)
}

// POST /food/resolve  { "label": "pizza" }
//
// Resolves a chosen candidate (after client-side disambiguation) into
// nutrition facts, assessment and advisory.
func (fc *FoodController) Resolve(c *gin.Context) {
	var req struct {
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	userID := c.GetUint("userID")
	result, err := fc.food.ResolveLabel(c.Request.Context(), userID, req.Label)
	if err != nil {
		if errors.Is(err, services.ErrLookupTransport) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fc.hub.BroadcastAdvisory(userID, result.Label, result.Analysis, result.Advisory)
	c.JSON(http.StatusOK, result)
}
