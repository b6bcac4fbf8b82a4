package services

import (
	"context"

	"github.com/vashonai/Dietlytic/models"
)

// FoodService runs the photo-to-advisory pipeline: detection, nutrition
// resolution, scoring and advisory generation.
type FoodService struct {
	vision    *VisionService
	nutrition *NutritionService
	coach     *CoachService
	profiles  ProfileStore
}

func NewFoodService(vision *VisionService, nutrition *NutritionService, coach *CoachService, profiles ProfileStore) *FoodService {
	return &FoodService{vision: vision, nutrition: nutrition, coach: coach, profiles: profiles}
}

// ScanResult is the fully resolved outcome for a single food label.
type ScanResult struct {
	Label     string                 `json:"label"`
	Nutrition models.NutritionRecord `json:"nutrition"`
	Analysis  models.FoodAnalysis    `json:"analysis"`
	Advisory  models.Advisory        `json:"advisory"`
}

// ScanOutcome is what a photo scan produces. Candidates is populated
// when the user must disambiguate (the pipeline never guesses among
// multiple detections), Result when a single candidate resolved
// automatically. Both empty means no food was identified, which is a
// valid outcome rather than an error.
type ScanOutcome struct {
	Candidates []models.FoodCandidate `json:"candidates,omitempty"`
	Result     *ScanResult            `json:"result,omitempty"`
}

// ScanImage detects food in a photo and, when detection is unambiguous,
// carries the single candidate through resolution and advisory.
func (s *FoodService) ScanImage(ctx context.Context, userID uint, imageDataURI string) (*ScanOutcome, error) {
	candidates, err := s.vision.DetectFoodBase64(ctx, imageDataURI)
	if err != nil {
		return nil, err
	}

	switch len(candidates) {
	case 0:
		return &ScanOutcome{}, nil
	case 1:
		result, err := s.ResolveLabel(ctx, userID, candidates[0].Label)
		if err != nil {
			return nil, err
		}
		return &ScanOutcome{Result: result}, nil
	default:
		return &ScanOutcome{Candidates: candidates}, nil
	}
}

// ResolveLabel resolves one chosen label (either the sole detection or
// the user's disambiguation pick) into nutrition facts, a health
// assessment and a goal-aware advisory.
func (s *FoodService) ResolveLabel(ctx context.Context, userID uint, label string) (*ScanResult, error) {
	rec, err := s.nutrition.Resolve(ctx, label)
	if err != nil {
		return nil, err
	}

	analysis := s.coach.AnalyzeFood(*rec)

	var profile *models.UserGoalProfile
	if userID != 0 {
		if profile, err = s.profiles.GetUserGoalProfile(ctx, userID); err != nil {
			// Advisory degrades to goal-agnostic when the profile
			// store is unavailable; the scan itself still succeeds.
			profile = nil
		}
	}
	advisory := s.coach.GenerateAdvice(analysis, profile)

	return &ScanResult{
		Label:     label,
		Nutrition: *rec,
		Analysis:  analysis,
		Advisory:  advisory,
	}, nil
}
