package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vashonai/Dietlytic/models"
)

// NutritionStore is the persistence collaborator the orchestrator logs
// meals through.
type NutritionStore interface {
	SaveNutritionEntry(ctx context.Context, userID uint, label string, rec models.NutritionRecord) (uint, error)
}

// ProfileStore supplies the user's goal profile and applies profile
// updates the remote coach requests.
type ProfileStore interface {
	GetUserGoalProfile(ctx context.Context, userID uint) (*models.UserGoalProfile, error)
	UpsertGoal(ctx context.Context, userID uint, goal models.UserGoal) error
	UpsertHealthCondition(ctx context.Context, userID uint, cond models.HealthCondition) error
	ReplaceDietaryRestrictions(ctx context.Context, userID uint, restrictions []string) error
}

const (
	// maxRetainedTurns bounds the conversation window the orchestrator
	// keeps; older turns are dropped, never archived.
	maxRetainedTurns = 12
	// outboundTurns is how much of the window each remote call carries.
	outboundTurns = 10
)

// AgentService orchestrates the coaching conversation: it carries user
// context to the remote reasoning service, dispatches the actions it
// requests, and falls back to local canned responses whenever the remote
// call fails. Its public contract is that it always returns a usable
// CoachResponse.
//
// Conversation state is keyed by user; one user's turns never appear in
// another user's outbound context or history.
type AgentService struct {
	endpoint string
	client   *http.Client
	store    NutritionStore
	profiles ProfileStore

	mu          sync.Mutex
	histories   map[uint][]models.ConversationTurn
	generations map[uint]uint64
}

func NewAgentService(endpoint string, timeout time.Duration, store NutritionStore, profiles ProfileStore) *AgentService {
	return &AgentService{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
		store:       store,
		profiles:    profiles,
		histories:   make(map[uint][]models.ConversationTurn),
		generations: make(map[uint]uint64),
	}
}

type coachRequest struct {
	Type                string                  `json:"type"` // text | voice | scanned_food
	Content             string                  `json:"content"`
	FoodName            string                  `json:"food_name,omitempty"`
	Nutrition           *models.NutritionRecord `json:"nutrition_data,omitempty"`
	UserID              uint                    `json:"userId"`
	UserContext         *models.UserGoalProfile `json:"userContext,omitempty"`
	ConversationHistory []outboundTurn          `json:"conversationHistory"`
}

type outboundTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type coachAction struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message"`
}

type coachReply struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	Action       *coachAction         `json:"action,omitempty"`
	MealAnalysis *models.MealAnalysis `json:"mealAnalysis,omitempty"`
	Error        string               `json:"error,omitempty"`
}

type goalActionPayload struct {
	ID           uint    `json:"id,omitempty"`
	Type         string  `json:"type"`
	Target       string  `json:"target"`
	TargetValue  float64 `json:"target_value,omitempty"`
	CurrentValue float64 `json:"current_value,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

type profileActionPayload struct {
	HealthConditions    []models.HealthCondition `json:"health_conditions,omitempty"`
	DietaryRestrictions []string                 `json:"dietary_restrictions,omitempty"`
}

// ProcessFreeformInput handles one free-text or transcribed-voice turn.
// Remote failures of any kind degrade to a local keyword response; the
// caller always gets a usable CoachResponse.
func (s *AgentService) ProcessFreeformInput(ctx context.Context, userID uint, inputType, content string) models.CoachResponse {
	gen := s.currentGeneration(userID)

	profile, err := s.profiles.GetUserGoalProfile(ctx, userID)
	if err != nil {
		log.Printf("agent: profile load failed for user %d: %v", userID, err)
	}

	reply, err := s.callRemote(ctx, coachRequest{
		Type:                inputType,
		Content:             content,
		UserID:              userID,
		UserContext:         profile,
		ConversationHistory: s.outboundWindow(userID),
	})
	if err != nil {
		log.Printf("agent: remote coach unavailable, degrading: %v", err)
		resp := s.fallbackFreeform(content)
		s.recordExchange(userID, gen, content, resp.Message)
		return resp
	}

	actionTaken := s.dispatchAction(ctx, userID, reply, gen)
	s.recordExchange(userID, gen, content, reply.Message)
	return models.CoachResponse{
		Message:      reply.Message,
		MealAnalysis: reply.MealAnalysis,
		ActionTaken:  actionTaken,
		Success:      true,
	}
}

// ProcessScannedFood asks the remote coach for feedback on an already
// resolved nutrition record, with the same degraded-mode guarantee.
func (s *AgentService) ProcessScannedFood(ctx context.Context, userID uint, label string, rec models.NutritionRecord) models.CoachResponse {
	gen := s.currentGeneration(userID)
	userTurn := fmt.Sprintf("I scanned %s", label)

	profile, err := s.profiles.GetUserGoalProfile(ctx, userID)
	if err != nil {
		log.Printf("agent: profile load failed for user %d: %v", userID, err)
	}

	reply, err := s.callRemote(ctx, coachRequest{
		Type:                "scanned_food",
		Content:             userTurn,
		FoodName:            label,
		Nutrition:           &rec,
		UserID:              userID,
		UserContext:         profile,
		ConversationHistory: s.outboundWindow(userID),
	})
	if err != nil {
		log.Printf("agent: remote coach unavailable, degrading: %v", err)
		resp := fallbackScannedFood(label, rec)
		s.recordExchange(userID, gen, userTurn, resp.Message)
		return resp
	}

	actionTaken := s.dispatchAction(ctx, userID, reply, gen)
	s.recordExchange(userID, gen, userTurn, reply.Message)
	return models.CoachResponse{
		Message:      reply.Message,
		MealAnalysis: reply.MealAnalysis,
		ActionTaken:  actionTaken,
		Success:      true,
	}
}

// ConversationHistory returns a copy of the user's retained window. The
// window is the single source of truth for what that user's next remote
// call sees; there is no separately growing full history.
func (s *AgentService) ConversationHistory(userID uint) []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.histories[userID]
	out := make([]models.ConversationTurn, len(history))
	copy(out, history)
	return out
}

// ClearConversation resets the user's window synchronously and bumps
// their generation so any in-flight exchange is discarded when it
// resolves. Other users' windows are untouched.
func (s *AgentService) ClearConversation(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, userID)
	s.generations[userID]++
}

func (s *AgentService) currentGeneration(userID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

func (s *AgentService) outboundWindow(userID uint) []outboundTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.histories[userID]
	start := 0
	if len(history) > outboundTurns {
		start = len(history) - outboundTurns
	}
	out := make([]outboundTurn, 0, len(history)-start)
	for _, t := range history[start:] {
		out = append(out, outboundTurn{Role: t.Role, Content: t.Content})
	}
	return out
}

// recordExchange appends the user/assistant pair unless the conversation
// was cleared while the call was in flight.
func (s *AgentService) recordExchange(userID uint, gen uint64, userContent, assistantContent string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generations[userID] {
		return
	}
	now := time.Now()
	history := append(s.histories[userID],
		models.ConversationTurn{ID: uuid.NewString(), Role: "user", Content: userContent, Timestamp: now},
		models.ConversationTurn{ID: uuid.NewString(), Role: "assistant", Content: assistantContent, Timestamp: now},
	)
	if len(history) > maxRetainedTurns {
		history = history[len(history)-maxRetainedTurns:]
	}
	s.histories[userID] = history
}

func (s *AgentService) callRemote(ctx context.Context, req coachRequest) (*coachReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal coach request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build coach request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call coach: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read coach response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coach status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var reply coachReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("decode coach response: %w", err)
	}
	if !reply.Success {
		return nil, fmt.Errorf("coach rejected request: %s", reply.Error)
	}
	if strings.TrimSpace(reply.Message) == "" {
		return nil, fmt.Errorf("coach returned empty message")
	}
	return &reply, nil
}

// dispatchAction executes the side effect the remote coach requested.
// Unknown action types are ignored; a cleared conversation (stale
// generation) suppresses side effects entirely.
func (s *AgentService) dispatchAction(ctx context.Context, userID uint, reply *coachReply, gen uint64) models.ActionTaken {
	if reply.Action == nil || gen != s.currentGeneration(userID) {
		return models.ActionNone
	}

	switch reply.Action.Type {
	case "log_meal":
		if reply.MealAnalysis == nil || len(reply.MealAnalysis.RecognizedFoods) == 0 {
			return models.ActionNone
		}
		// The reported action must match what was persisted: a failure
		// after earlier foods saved is still a logged meal.
		saved := 0
		for _, food := range reply.MealAnalysis.RecognizedFoods {
			rec := models.NutritionRecord{FoodName: food.Name, ServingUnit: "serving", ServingGrams: 100}
			if food.Nutrition != nil {
				rec = *food.Nutrition
				rec.FoodName = food.Name
			}
			if _, err := s.store.SaveNutritionEntry(ctx, userID, food.Name, rec); err != nil {
				log.Printf("agent: log meal failed for %q: %v", food.Name, err)
				continue
			}
			saved++
		}
		if saved == 0 {
			return models.ActionNone
		}
		return models.ActionLoggedMeal

	case "update_goal":
		var payload goalActionPayload
		if err := decodeStrict(reply.Action.Data, &payload); err != nil {
			log.Printf("agent: bad update_goal payload: %v", err)
			return models.ActionNone
		}
		goal := models.UserGoal{
			UserID:       userID,
			Type:         payload.Type,
			Target:       payload.Target,
			TargetValue:  payload.TargetValue,
			CurrentValue: payload.CurrentValue,
			IsActive:     true,
			Notes:        payload.Notes,
		}
		goal.ID = payload.ID
		if err := s.profiles.UpsertGoal(ctx, userID, goal); err != nil {
			log.Printf("agent: upsert goal failed: %v", err)
			return models.ActionNone
		}
		return models.ActionUpdatedGoal

	case "update_profile":
		var payload profileActionPayload
		if err := decodeStrict(reply.Action.Data, &payload); err != nil {
			log.Printf("agent: bad update_profile payload: %v", err)
			return models.ActionNone
		}
		for _, cond := range payload.HealthConditions {
			if err := s.profiles.UpsertHealthCondition(ctx, userID, cond); err != nil {
				log.Printf("agent: upsert condition failed: %v", err)
				return models.ActionNone
			}
		}
		if payload.DietaryRestrictions != nil {
			if err := s.profiles.ReplaceDietaryRestrictions(ctx, userID, payload.DietaryRestrictions); err != nil {
				log.Printf("agent: replace restrictions failed: %v", err)
				return models.ActionNone
			}
		}
		return models.ActionUpdatedProfile

	case "provide_feedback", "ask_clarification":
		return models.ActionNone

	default:
		log.Printf("agent: unknown action type %q ignored", reply.Action.Type)
		return models.ActionNone
	}
}

func decodeStrict(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty action payload")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// fallbackFreeform is the keyword-triggered canned response used when
// the remote coach is unreachable. The conversation must never dead-end
// on an outage.
func (s *AgentService) fallbackFreeform(content string) models.CoachResponse {
	lower := strings.ToLower(content)

	var message string
	switch {
	case strings.Contains(lower, "ate") || strings.Contains(lower, "food") || strings.Contains(lower, "meal"):
		message = "I understand you're telling me about food you've eaten. While I can't fully analyze your meal right now, I'd love to help you track your nutrition. Could you tell me more about what you had?"
	case strings.Contains(lower, "goal") || strings.Contains(lower, "target"):
		message = "I'd be happy to help you set or update your health goals! While my full goal-setting features are temporarily unavailable, you can still set goals manually in your profile. What kind of goal are you thinking about?"
	case strings.Contains(lower, "help") || strings.Contains(lower, "advice"):
		message = "I'm here to help! While my advanced features are temporarily unavailable, I can still provide general nutrition advice. What would you like to know about healthy eating?"
	default:
		message = "Thanks for your message! While my advanced features are temporarily unavailable, I'm still here to help with basic nutrition guidance. What would you like to know?"
	}

	return models.CoachResponse{
		Message:     message,
		ActionTaken: models.ActionNone,
		Success:     true,
	}
}

// fallbackScannedFood summarizes the record directly. Its sugar and
// sodium call-outs intentionally mirror (not reuse) the scorer's rules:
// they trigger earlier on sugar so a quick scan errs toward caution.
func fallbackScannedFood(label string, rec models.NutritionRecord) models.CoachResponse {
	var b strings.Builder
	fmt.Fprintf(&b, "I can see you scanned %s. Here's what I found:\n\n", label)
	fmt.Fprintf(&b, "Calories: %.0f kcal\n", rec.Calories)
	fmt.Fprintf(&b, "Protein: %.1fg\n", rec.Protein)
	fmt.Fprintf(&b, "Carbs: %.1fg\n", rec.TotalCarbs)
	fmt.Fprintf(&b, "Fat: %.1fg\n", rec.TotalFat)
	fmt.Fprintf(&b, "Sugar: %.1fg\n", rec.Sugars)
	fmt.Fprintf(&b, "Sodium: %.0fmg\n\n", rec.Sodium)

	if rec.Sugars > 15 {
		fmt.Fprintf(&b, "Note: this item is high in sugar (%.1fg). Consider moderation, especially if you're managing diabetes.\n\n", rec.Sugars)
	}
	if rec.Sodium > 600 {
		fmt.Fprintf(&b, "Note: this item is high in sodium (%.0fmg). Consider this if you're watching your blood pressure.\n\n", rec.Sodium)
	}
	if rec.Protein > 20 {
		fmt.Fprintf(&b, "Great choice! This item is high in protein (%.1fg), which helps with muscle building and satiety.\n\n", rec.Protein)
	}
	b.WriteString("While my advanced features are temporarily unavailable, I can still help you track this meal. Would you like me to log it to your food history?")

	return models.CoachResponse{
		Message:     b.String(),
		ActionTaken: models.ActionNone,
		Success:     true,
	}
}
