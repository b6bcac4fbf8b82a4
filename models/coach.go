package models

import "time"

// AdviceType categorizes the tone of a coaching message.
type AdviceType string

const (
	AdvicePositive   AdviceType = "positive"
	AdviceWarning    AdviceType = "warning"
	AdviceSuggestion AdviceType = "suggestion"
	AdviceMotivation AdviceType = "motivation"
)

// WeightGoal is the user's active weight direction.
type WeightGoal string

const (
	GoalLose     WeightGoal = "lose"
	GoalMaintain WeightGoal = "maintain"
	GoalGain     WeightGoal = "gain"
)

// ActivityLevel mirrors the profile store's activity buckets.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// HealthCondition is one diagnosed condition plus the foods it restricts.
type HealthCondition struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`     // chronic | temporary | allergy | intolerance
	Severity     string   `json:"severity"` // mild | moderate | severe
	Restrictions []string `json:"restrictions"`
}

// UserGoalProfile is the read-only slice of the profile the coaching
// pipeline consumes. Supplied by the profile store.
type UserGoalProfile struct {
	UserID              uint              `json:"user_id"`
	WeightGoal          WeightGoal        `json:"weight_goal"`
	ActivityLevel       ActivityLevel     `json:"activity_level"`
	HealthConditions    []HealthCondition `json:"health_conditions"`
	DietaryRestrictions []string          `json:"dietary_restrictions"`
}

// FoodAnalysis is the deterministic health assessment of one record.
// Recomputable at any time from the same NutritionRecord.
type FoodAnalysis struct {
	FoodName        string          `json:"food_name"`
	Nutrition       NutritionRecord `json:"nutrition"`
	IsHealthy       bool            `json:"is_healthy"`
	HealthScore     int             `json:"health_score"`
	Concerns        []string        `json:"concerns"`
	Benefits        []string        `json:"benefits"`
	Recommendations []string        `json:"recommendations"`
}

// Advisory is the user-facing coaching message built from a FoodAnalysis
// and the user's goal profile. Ephemeral, never persisted on its own.
type Advisory struct {
	Message     string     `json:"message"`
	Type        AdviceType `json:"type"`
	ActionItems []string   `json:"action_items"`
	RelatedTips []string   `json:"related_tips"`
}

// ConversationTurn is one message in the coaching conversation window.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user | assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// RecognizedFood is one food the reasoning service extracted from
// free-form input, with whatever nutrition it could estimate.
type RecognizedFood struct {
	Name      string           `json:"name"`
	Quantity  string           `json:"quantity,omitempty"`
	Unit      string           `json:"unit,omitempty"`
	Nutrition *NutritionRecord `json:"estimated_nutrition,omitempty"`
}

// MealAnalysis summarizes a described meal as a whole.
type MealAnalysis struct {
	RecognizedFoods []RecognizedFood `json:"recognized_foods"`
	TotalCalories   float64          `json:"total_calories"`
	TotalProtein    float64          `json:"total_protein"`
	TotalCarbs      float64          `json:"total_carbs"`
	TotalFat        float64          `json:"total_fat"`
	TotalSugar      float64          `json:"total_sugar"`
	HealthScore     int              `json:"health_score"`
	Concerns        []string         `json:"concerns"`
	Recommendations []string         `json:"recommendations"`
}

// ActionTaken reports which side effect the orchestrator dispatched.
type ActionTaken string

const (
	ActionNone           ActionTaken = "none"
	ActionLoggedMeal     ActionTaken = "logged_meal"
	ActionUpdatedGoal    ActionTaken = "updated_goal"
	ActionUpdatedProfile ActionTaken = "updated_profile"
)

// CoachResponse is what the orchestrator always hands back to callers,
// remote reasoning or not.
type CoachResponse struct {
	Message      string        `json:"message"`
	MealAnalysis *MealAnalysis `json:"meal_analysis,omitempty"`
	ActionTaken  ActionTaken   `json:"action_taken"`
	Success      bool          `json:"success"`
}
