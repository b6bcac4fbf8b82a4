package controllers

import (
	"net/http"

	"github.com/vashonai/Dietlytic/models"
	"github.com/vashonai/Dietlytic/services"

	"github.com/gin-gonic/gin"
)

type CoachController struct {
	agent *services.AgentService
}

func NewCoachController(agent *services.AgentService) *CoachController {
	return &CoachController{agent: agent}
}

// POST /coach/message  { "type": "text"|"voice", "content": "..." }
//
// Always returns 200 with a usable response; remote reasoning outages
// degrade to local replies inside the agent.
func (cc *CoachController) Message(c *gin.Context) {
	var req struct {
		Type    string `json:"type"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = "text"
	}

	resp := cc.agent.ProcessFreeformInput(c.Request.Context(), c.GetUint("userID"), req.Type, req.Content)
	c.JSON(http.StatusOK, resp)
}

// POST /coach/scanned-food  { "label": ..., "nutrition": {...} }
func (cc *CoachController) ScannedFood(c *gin.Context) {
	var req struct {
		Label     string                 `json:"label" binding:"required"`
		Nutrition models.NutritionRecord `json:"nutrition" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := cc.agent.ProcessScannedFood(c.Request.Context(), c.GetUint("userID"), req.Label, req.Nutrition)
	c.JSON(http.StatusOK, resp)
}

// GET /coach/history
func (cc *CoachController) History(c *gin.Context) {
	c.JSON(http.StatusOK, cc.agent.ConversationHistory(c.GetUint("userID")))
}

// DELETE /coach/history
func (cc *CoachController) ClearHistory(c *gin.Context) {
	cc.agent.ClearConversation(c.GetUint("userID"))
	c.JSON(http.StatusOK, gin.H{"message": "conversation cleared"})
}
