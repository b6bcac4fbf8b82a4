package services

import (
	"fmt"
	"strings"

	"github.com/vashonai/Dietlytic/models"
)

// Threshold rules for the heuristic health score. This is a heuristic,
// not a medical judgment; it is kept deterministic so the same record
// always produces the same assessment.
const (
	sugarPenaltyThresholdG    = 20.0
	sodiumPenaltyThresholdMg  = 600.0
	fatPenaltyThresholdG      = 15.0
	caloriePenaltyThreshold   = 500.0
	proteinBonusThresholdG    = 15.0
	fiberBonusThresholdG      = 5.0
	healthyScoreFloor         = 70
	warningScoreCeiling       = 30
	motivationScoreCeiling    = 50
)

// junkKeywords flag processed food by label substring.
var junkKeywords = []string{
	"chips", "candy", "soda", "coke", "pepsi", "burger", "fries",
	"pizza", "donut", "cake", "cookie", "ice cream", "chocolate",
}

// wholesomeKeywords flag nutritious choices by label substring.
var wholesomeKeywords = []string{
	"apple", "banana", "orange", "broccoli", "spinach", "salad",
	"chicken", "fish", "salmon", "quinoa", "oats", "yogurt",
}

// healthierSwaps are the counteract tips appended when a junk keyword
// fires, keyed by the matched keyword.
var healthierSwaps = map[string][]string{
	"fries":     {"Try baked sweet potato fries instead of regular fries"},
	"chips":     {"Air-popped popcorn is a lighter crunchy snack", "Try baked vegetable chips"},
	"chocolate": {"Dark chocolate (70%+) is a better sweet treat"},
	"candy":     {"Dark chocolate (70%+) is a better sweet treat", "Fresh fruit can satisfy sweet cravings"},
	"soda":      {"Sparkling water with lemon beats soda", "Homemade smoothies can satisfy sweet cravings"},
	"coke":      {"Sparkling water with lemon beats soda"},
	"pepsi":     {"Sparkling water with lemon beats soda"},
	"burger":    {"A grilled chicken sandwich has far less saturated fat"},
	"pizza":     {"Thin-crust pizza loaded with vegetables is a lighter option"},
	"donut":     {"Whole-grain toast with honey is a lighter sweet breakfast"},
	"cake":      {"Homemade smoothies can satisfy sweet cravings"},
	"cookie":    {"Oatmeal cookies with less sugar are an easy swap"},
	"ice cream": {"Frozen yogurt or blended frozen banana is a lighter dessert"},
}

// CoachService turns nutrition records into health assessments and
// personalized advisories. It is pure computation with no I/O.
type CoachService struct{}

func NewCoachService() *CoachService {
	return &CoachService{}
}

// AnalyzeFood scores a nutrition record 0-100 from nutrient thresholds
// and label keywords. Deterministic: the same record always yields the
// same assessment.
func (s *CoachService) AnalyzeFood(rec models.NutritionRecord) models.FoodAnalysis {
	score := 100
	var concerns, benefits, recommendations []string

	if rec.Sugars > sugarPenaltyThresholdG {
		score -= 20
		concerns = append(concerns, "High sugar content")
		recommendations = append(recommendations, "Consider reducing sugar intake")
	}
	if rec.Sodium > sodiumPenaltyThresholdMg {
		score -= 15
		concerns = append(concerns, "High sodium content")
		recommendations = append(recommendations, "Watch your sodium intake for blood pressure")
	}
	if rec.TotalFat > fatPenaltyThresholdG {
		score -= 10
		concerns = append(concerns, "High fat content")
	}
	if rec.Calories > caloriePenaltyThreshold {
		score -= 10
		concerns = append(concerns, "High calorie content")
	}
	if rec.Protein > proteinBonusThresholdG {
		score += 10
		benefits = append(benefits, "Good protein content")
	}
	if rec.DietaryFiber > fiberBonusThresholdG {
		score += 15
		benefits = append(benefits, "High fiber content")
	}

	if matchKeyword(rec.FoodName, junkKeywords) != "" {
		score -= 30
		concerns = append(concerns, "Processed/junk food detected")
		recommendations = append(recommendations, "Consider healthier alternatives")
	}
	if matchKeyword(rec.FoodName, wholesomeKeywords) != "" {
		score += 20
		benefits = append(benefits, "Nutritious food choice")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.FoodAnalysis{
		FoodName:        rec.FoodName,
		Nutrition:       rec,
		IsHealthy:       score >= healthyScoreFloor,
		HealthScore:     score,
		Concerns:        concerns,
		Benefits:        benefits,
		Recommendations: recommendations,
	}
}

// GenerateAdvice combines an assessment with the user's goal profile
// into a coaching advisory. A nil profile yields goal-agnostic advice.
// Condition-specific contraindications are deliberately not handled
// here; that reasoning belongs to the remote coach.
func (s *CoachService) GenerateAdvice(analysis models.FoodAnalysis, profile *models.UserGoalProfile) models.Advisory {
	var goal models.WeightGoal
	if profile != nil {
		goal = profile.WeightGoal
	}

	var msg strings.Builder
	var adviceType models.AdviceType
	var actionItems, relatedTips []string

	if analysis.IsHealthy {
		adviceType = models.AdvicePositive
		fmt.Fprintf(&msg, "Great choice with %s!", analysis.FoodName)
		if len(analysis.Benefits) > 0 {
			fmt.Fprintf(&msg, " This food is %s.", strings.ToLower(strings.Join(analysis.Benefits, ", ")))
		}
		switch goal {
		case models.GoalLose:
			msg.WriteString(" Perfect for your weight loss goals!")
			actionItems = append(actionItems, "Keep up the healthy eating!")
			relatedTips = append(relatedTips, "Consider adding more vegetables to your next meal")
		case models.GoalGain:
			msg.WriteString(" Good for muscle building!")
			actionItems = append(actionItems, "Consider adding a protein source")
			relatedTips = append(relatedTips, "Pair with complex carbs for better nutrition")
		}
	} else {
		if analysis.HealthScore < warningScoreCeiling {
			adviceType = models.AdviceWarning
			fmt.Fprintf(&msg, "%s might not be the best choice for your health goals.", analysis.FoodName)
		} else {
			adviceType = models.AdviceSuggestion
			fmt.Fprintf(&msg, "%s could be improved for better nutrition.", analysis.FoodName)
		}
		if len(analysis.Concerns) > 0 {
			fmt.Fprintf(&msg, " I noticed: %s.", strings.ToLower(strings.Join(analysis.Concerns, ", ")))
		}

		switch goal {
		case models.GoalLose:
			msg.WriteString(" This might slow down your weight loss progress.")
			actionItems = append(actionItems, "Try a healthier alternative", "Add more vegetables to balance the meal")
			relatedTips = append(relatedTips, "Consider grilled chicken instead of fried", "Try air-fried vegetables as a side")
		case models.GoalGain:
			msg.WriteString(" While high in calories, the nutrition quality could be better.")
			actionItems = append(actionItems, "Add lean protein to this meal", "Include some vegetables for nutrients")
			relatedTips = append(relatedTips, "Try adding avocado for healthy fats", "Consider a protein smoothie as a supplement")
		}

		if matched := matchKeyword(analysis.FoodName, junkKeywords); matched != "" {
			msg.WriteString(" Here's how to counteract this choice:")
			actionItems = append(actionItems,
				"Drink extra water to help flush out sodium",
				"Take a 20-minute walk to burn some calories",
				"Eat a salad with your next meal",
				"Choose a healthier snack next time",
			)
			relatedTips = append(relatedTips, healthierSwaps[matched]...)
		}
	}

	if analysis.HealthScore < motivationScoreCeiling {
		relatedTips = append(relatedTips,
			"Remember: progress, not perfection!",
			"Every healthy choice counts towards your goals",
		)
	}

	return models.Advisory{
		Message:     msg.String(),
		Type:        adviceType,
		ActionItems: actionItems,
		RelatedTips: relatedTips,
	}
}

// matchKeyword returns the first keyword the label contains, or "".
func matchKeyword(label string, keywords []string) string {
	lower := strings.ToLower(label)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
