package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vashonai/Dietlytic/models"
)

const coachURL = "https://coach.test/api/agent"

type fakeNutritionStore struct {
	saved     []string
	saveErr   error
	failLabel string
}

func (f *fakeNutritionStore) SaveNutritionEntry(_ context.Context, _ uint, label string, _ models.NutritionRecord) (uint, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	if f.failLabel != "" && label == f.failLabel {
		return 0, fmt.Errorf("save %q: disk full", label)
	}
	f.saved = append(f.saved, label)
	return uint(len(f.saved)), nil
}

type fakeProfileStore struct {
	profile      *models.UserGoalProfile
	goals        []models.UserGoal
	conditions   []models.HealthCondition
	restrictions []string
}

func (f *fakeProfileStore) GetUserGoalProfile(context.Context, uint) (*models.UserGoalProfile, error) {
	return f.profile, nil
}

func (f *fakeProfileStore) UpsertGoal(_ context.Context, _ uint, goal models.UserGoal) error {
	f.goals = append(f.goals, goal)
	return nil
}

func (f *fakeProfileStore) UpsertHealthCondition(_ context.Context, _ uint, cond models.HealthCondition) error {
	f.conditions = append(f.conditions, cond)
	return nil
}

func (f *fakeProfileStore) ReplaceDietaryRestrictions(_ context.Context, _ uint, restrictions []string) error {
	f.restrictions = restrictions
	return nil
}

func newTestAgent() (*AgentService, *fakeNutritionStore, *fakeProfileStore) {
	store := &fakeNutritionStore{}
	profiles := &fakeProfileStore{profile: &models.UserGoalProfile{UserID: 1, WeightGoal: models.GoalLose}}
	return NewAgentService(coachURL, 5*time.Second, store, profiles), store, profiles
}

func coachResponder(reply coachReply) httpmock.Responder {
	return func(*http.Request) (*http.Response, error) {
		return httpmock.NewJsonResponse(http.StatusOK, reply)
	}
}

func TestProcessFreeformRemoteSuccess(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{Success: true, Message: "Nice, logged mentally!"}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "I had oats for breakfast")

	assert.True(t, resp.Success)
	assert.Equal(t, "Nice, logged mentally!", resp.Message)
	assert.Equal(t, models.ActionNone, resp.ActionTaken)

	history := svc.ConversationHistory(1)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "I had oats for breakfast", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.NotEmpty(t, history[0].ID)
}

func TestProcessFreeformDegradesOnRemoteOutage(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "what is a good goal for me?")

	// Degraded mode still succeeds from the caller's point of view.
	assert.True(t, resp.Success)
	assert.Equal(t, models.ActionNone, resp.ActionTaken)
	assert.Contains(t, resp.Message, "health goals")
	// The degraded exchange still lands in the window.
	assert.Len(t, svc.ConversationHistory(1), 2)
}

func TestProcessFreeformDegradesOnUnsuccessfulReply(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{Success: false, Error: "model overloaded"}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "help me eat better")

	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "I'm here to help!")
}

func TestFallbackFreeformKeywordRouting(t *testing.T) {
	svc, _, _ := newTestAgent()

	cases := []struct {
		input    string
		fragment string
	}{
		{"I ate a sandwich earlier", "track your nutrition"},
		{"set a new target for me", "health goals"},
		{"any advice today?", "I'm here to help!"},
		{"hello there", "basic nutrition guidance"},
	}
	for _, tc := range cases {
		resp := svc.fallbackFreeform(tc.input)
		assert.True(t, resp.Success)
		assert.Contains(t, resp.Message, tc.fragment, "input %q", tc.input)
	}
}

func TestConversationWindowIsBounded(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{Success: true, Message: "ok"}))

	for i := 0; i < 10; i++ {
		svc.ProcessFreeformInput(context.Background(), 1, "text", fmt.Sprintf("message %d", i))
	}

	history := svc.ConversationHistory(1)
	require.Len(t, history, maxRetainedTurns)
	// Oldest turns are dropped: the window starts mid-conversation.
	assert.Equal(t, "message 4", history[0].Content)

	window := svc.outboundWindow(1)
	require.Len(t, window, outboundTurns)
	assert.Equal(t, "message 5", window[0].Content)
}

func TestConversationsAreIsolatedPerUser(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	var lastOutbound []outboundTurn
	httpmock.RegisterResponder(http.MethodPost, coachURL,
		func(req *http.Request) (*http.Response, error) {
			var body coachRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			lastOutbound = body.ConversationHistory
			return httpmock.NewJsonResponse(http.StatusOK, coachReply{Success: true, Message: "ok"})
		})

	svc.ProcessFreeformInput(context.Background(), 1, "text", "I have diabetes")
	svc.ProcessFreeformInput(context.Background(), 2, "text", "hello coach")

	// User 2's remote call must not carry user 1's turns.
	assert.Empty(t, lastOutbound)

	h1 := svc.ConversationHistory(1)
	h2 := svc.ConversationHistory(2)
	require.Len(t, h1, 2)
	require.Len(t, h2, 2)
	assert.Equal(t, "I have diabetes", h1[0].Content)
	assert.Equal(t, "hello coach", h2[0].Content)

	// Clearing one user leaves the other's window intact.
	svc.ClearConversation(2)
	assert.Empty(t, svc.ConversationHistory(2))
	assert.Len(t, svc.ConversationHistory(1), 2)
}

func TestClearConversationResetsWindow(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{Success: true, Message: "ok"}))

	svc.ProcessFreeformInput(context.Background(), 1, "text", "hello")
	require.Len(t, svc.ConversationHistory(1), 2)

	svc.ClearConversation(1)
	assert.Empty(t, svc.ConversationHistory(1))
}

func TestClearDuringInFlightExchangeDiscardsIt(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	// Clearing while the remote call is in flight bumps the generation,
	// so the exchange must not be recorded when it resolves.
	httpmock.RegisterResponder(http.MethodPost, coachURL,
		func(*http.Request) (*http.Response, error) {
			svc.ClearConversation(1)
			return httpmock.NewJsonResponse(http.StatusOK, coachReply{Success: true, Message: "late reply"})
		})

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "hello")
	assert.True(t, resp.Success)
	assert.Empty(t, svc.ConversationHistory(1))
}

func TestDispatchLogMealAction(t *testing.T) {
	svc, store, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{
			Success: true,
			Message: "Logged your lunch!",
			Action:  &coachAction{Type: "log_meal"},
			MealAnalysis: &models.MealAnalysis{
				RecognizedFoods: []models.RecognizedFood{
					{Name: "turkey sandwich", Nutrition: &models.NutritionRecord{Calories: 350, Protein: 22}},
					{Name: "apple"},
				},
			},
		}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "I had a turkey sandwich and an apple")

	assert.Equal(t, models.ActionLoggedMeal, resp.ActionTaken)
	assert.Equal(t, []string{"turkey sandwich", "apple"}, store.saved)
}

func TestDispatchLogMealReportsPartialSave(t *testing.T) {
	svc, store, _ := newTestAgent()
	store.failLabel = "apple"
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{
			Success: true,
			Message: "Logged your lunch!",
			Action:  &coachAction{Type: "log_meal"},
			MealAnalysis: &models.MealAnalysis{
				RecognizedFoods: []models.RecognizedFood{
					{Name: "turkey sandwich"},
					{Name: "apple"},
					{Name: "orange juice"},
				},
			},
		}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "I had lunch")

	// One food failing to save must not hide the entries that were
	// persisted, nor stop the remaining foods from being saved.
	assert.Equal(t, models.ActionLoggedMeal, resp.ActionTaken)
	assert.Equal(t, []string{"turkey sandwich", "orange juice"}, store.saved)
}

func TestDispatchLogMealNothingSavedIsNone(t *testing.T) {
	svc, store, _ := newTestAgent()
	store.saveErr = fmt.Errorf("database down")
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{
			Success: true,
			Message: "Logged your lunch!",
			Action:  &coachAction{Type: "log_meal"},
			MealAnalysis: &models.MealAnalysis{
				RecognizedFoods: []models.RecognizedFood{{Name: "apple"}},
			},
		}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "I had lunch")

	assert.Equal(t, models.ActionNone, resp.ActionTaken)
	assert.Empty(t, store.saved)
}

func TestDispatchUpdateGoalAction(t *testing.T) {
	svc, _, profiles := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	payload, err := json.Marshal(goalActionPayload{Type: "weight", Target: "lose 5kg", TargetValue: 70})
	require.NoError(t, err)

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{
			Success: true,
			Message: "Goal updated.",
			Action:  &coachAction{Type: "update_goal", Data: payload},
		}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "change my goal")

	assert.Equal(t, models.ActionUpdatedGoal, resp.ActionTaken)
	require.Len(t, profiles.goals, 1)
	assert.Equal(t, "weight", profiles.goals[0].Type)
	assert.Equal(t, 70.0, profiles.goals[0].TargetValue)
	assert.True(t, profiles.goals[0].IsActive)
}

func TestDispatchRejectsUnknownPayloadFields(t *testing.T) {
	svc, _, profiles := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{
			Success: true,
			Message: "Goal updated.",
			Action: &coachAction{
				Type: "update_goal",
				Data: json.RawMessage(`{"type":"weight","drop_tables":"yes"}`),
			},
		}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "change my goal")

	// Malformed action payloads are dropped, not partially applied; the
	// message itself still goes through.
	assert.True(t, resp.Success)
	assert.Equal(t, models.ActionNone, resp.ActionTaken)
	assert.Empty(t, profiles.goals)
}

func TestDispatchUpdateProfileAction(t *testing.T) {
	svc, _, profiles := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	payload, err := json.Marshal(profileActionPayload{
		HealthConditions:    []models.HealthCondition{{Name: "diabetes", Type: "chronic", Severity: "moderate"}},
		DietaryRestrictions: []string{"low-sugar"},
	})
	require.NoError(t, err)

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{
			Success: true,
			Message: "Profile updated.",
			Action:  &coachAction{Type: "update_profile", Data: payload},
		}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "I was diagnosed with diabetes")

	assert.Equal(t, models.ActionUpdatedProfile, resp.ActionTaken)
	require.Len(t, profiles.conditions, 1)
	assert.Equal(t, "diabetes", profiles.conditions[0].Name)
	assert.Equal(t, []string{"low-sugar"}, profiles.restrictions)
}

func TestDispatchIgnoresUnknownActionType(t *testing.T) {
	svc, store, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		coachResponder(coachReply{
			Success: true,
			Message: "Something odd.",
			Action:  &coachAction{Type: "reboot_universe"},
		}))

	resp := svc.ProcessFreeformInput(context.Background(), 1, "text", "hello")

	assert.True(t, resp.Success)
	assert.Equal(t, models.ActionNone, resp.ActionTaken)
	assert.Empty(t, store.saved)
}

func TestProcessScannedFoodDegradedSummary(t *testing.T) {
	svc, _, _ := newTestAgent()
	httpmock.ActivateNonDefault(svc.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, coachURL,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))

	rec := models.NutritionRecord{
		FoodName: "Energy Drink", Calories: 210, Sugars: 54, Sodium: 105, Protein: 0,
	}
	resp := svc.ProcessScannedFood(context.Background(), 1, "Energy Drink", rec)

	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "I can see you scanned Energy Drink")
	assert.Contains(t, resp.Message, "high in sugar")
	assert.NotContains(t, resp.Message, "high in sodium")

	history := svc.ConversationHistory(1)
	require.Len(t, history, 2)
	assert.Equal(t, "I scanned Energy Drink", history[0].Content)
}

func TestProcessScannedFoodHighProteinCallout(t *testing.T) {
	resp := fallbackScannedFood("Grilled Chicken", models.NutritionRecord{
		FoodName: "Grilled Chicken", Calories: 165, Protein: 31,
	})

	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "high in protein")
}
