package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vashonai/Dietlytic/models"
)

func appleRecord() models.NutritionRecord {
	return models.NutritionRecord{
		FoodName: "Apple", ServingUnit: "medium", ServingGrams: 182,
		Calories: 95, TotalFat: 0.3, Sodium: 2, TotalCarbs: 25,
		DietaryFiber: 4.4, Sugars: 19, Protein: 0.5,
	}
}

func pizzaRecord() models.NutritionRecord {
	return models.NutritionRecord{
		FoodName: "Pepperoni Pizza", ServingUnit: "slice", ServingGrams: 120,
		Calories: 600, TotalFat: 25, Sodium: 1200, TotalCarbs: 55,
		DietaryFiber: 2, Sugars: 25, Protein: 25,
	}
}

func TestAnalyzeFoodAppleScoresHealthy(t *testing.T) {
	svc := NewCoachService()

	analysis := svc.AnalyzeFood(appleRecord())

	// Wholesome keyword pushes the raw score past 100; it must clamp.
	assert.Equal(t, 100, analysis.HealthScore)
	assert.True(t, analysis.IsHealthy)
	assert.Empty(t, analysis.Concerns)
	assert.Contains(t, analysis.Benefits, "Nutritious food choice")
}

func TestAnalyzeFoodPizzaAccumulatesPenalties(t *testing.T) {
	svc := NewCoachService()

	analysis := svc.AnalyzeFood(pizzaRecord())

	// sugar -20, sodium -15, fat -10, calories -10, junk -30, protein +10.
	assert.Equal(t, 25, analysis.HealthScore)
	assert.False(t, analysis.IsHealthy)
	assert.Contains(t, analysis.Concerns, "High sugar content")
	assert.Contains(t, analysis.Concerns, "High sodium content")
	assert.Contains(t, analysis.Concerns, "Processed/junk food detected")
	assert.Contains(t, analysis.Benefits, "Good protein content")
}

func TestAnalyzeFoodIsDeterministic(t *testing.T) {
	svc := NewCoachService()
	rec := pizzaRecord()

	first := svc.AnalyzeFood(rec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, svc.AnalyzeFood(rec))
	}
}

func TestAnalyzeFoodBoundaryValuesDoNotPenalize(t *testing.T) {
	svc := NewCoachService()

	// Exactly at each threshold: rules are strict greater-than.
	rec := models.NutritionRecord{
		FoodName: "Plain Meal", Sugars: 20, Sodium: 600,
		TotalFat: 15, Calories: 500, Protein: 15, DietaryFiber: 5,
	}

	analysis := svc.AnalyzeFood(rec)
	assert.Equal(t, 100, analysis.HealthScore)
	assert.Empty(t, analysis.Concerns)
	assert.Empty(t, analysis.Benefits)
}

func TestGenerateAdviceHealthyWithLossGoal(t *testing.T) {
	svc := NewCoachService()
	analysis := svc.AnalyzeFood(appleRecord())
	profile := &models.UserGoalProfile{UserID: 1, WeightGoal: models.GoalLose}

	adv := svc.GenerateAdvice(analysis, profile)

	assert.Equal(t, models.AdvicePositive, adv.Type)
	assert.Contains(t, adv.Message, "Great choice with Apple!")
	assert.Contains(t, adv.Message, "Perfect for your weight loss goals!")
	assert.Contains(t, adv.ActionItems, "Keep up the healthy eating!")
}

func TestGenerateAdviceUnhealthyJunkAddsCounteractItems(t *testing.T) {
	svc := NewCoachService()
	analysis := svc.AnalyzeFood(pizzaRecord())
	require.False(t, analysis.IsHealthy)

	adv := svc.GenerateAdvice(analysis, &models.UserGoalProfile{WeightGoal: models.GoalLose})

	assert.Equal(t, models.AdviceWarning, adv.Type)
	assert.Contains(t, adv.Message, "might not be the best choice")
	assert.Contains(t, adv.Message, "This might slow down your weight loss progress.")
	assert.Contains(t, adv.ActionItems, "Drink extra water to help flush out sodium")
	assert.Contains(t, adv.ActionItems, "Take a 20-minute walk to burn some calories")
	assert.Contains(t, adv.ActionItems, "Eat a salad with your next meal")
	assert.Contains(t, adv.RelatedTips, "Thin-crust pizza loaded with vegetables is a lighter option")
	// Score 25 < 50 adds the motivational tips too.
	assert.Contains(t, adv.RelatedTips, "Remember: progress, not perfection!")
}

func TestGenerateAdviceMidScoreIsSuggestion(t *testing.T) {
	svc := NewCoachService()

	// fat -10, calories -10, sodium -15: lands between 30 and 70.
	rec := models.NutritionRecord{
		FoodName: "Lasagna", Calories: 650, TotalFat: 22, Sodium: 900,
	}
	analysis := svc.AnalyzeFood(rec)
	require.Equal(t, 65, analysis.HealthScore)
	require.False(t, analysis.IsHealthy)

	adv := svc.GenerateAdvice(analysis, nil)

	assert.Equal(t, models.AdviceSuggestion, adv.Type)
	assert.Contains(t, adv.Message, "could be improved for better nutrition")
	// No goal profile: no goal-specific action items.
	assert.Empty(t, adv.ActionItems)
}

func TestGenerateAdviceNilProfileIsGoalAgnostic(t *testing.T) {
	svc := NewCoachService()
	analysis := svc.AnalyzeFood(appleRecord())

	adv := svc.GenerateAdvice(analysis, nil)

	assert.Equal(t, models.AdvicePositive, adv.Type)
	assert.NotContains(t, adv.Message, "weight loss")
	assert.NotContains(t, adv.Message, "muscle building")
}
