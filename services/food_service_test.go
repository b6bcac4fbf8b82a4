package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vashonai/Dietlytic/models"
)

// jpegDataURI is "fake" base64-encoded; the mocked provider never looks
// at the pixels.
const jpegDataURI = "data:image/jpeg;base64,ZmFrZQ=="

func newTestFoodService() (*FoodService, *fakeProfileStore) {
	vision := newTestVisionService()
	nutrition := newTestNutritionService()
	profiles := &fakeProfileStore{profile: &models.UserGoalProfile{UserID: 1, WeightGoal: models.GoalLose}}
	return NewFoodService(vision, nutrition, NewCoachService(), profiles), profiles
}

func mockBothProviders(t *testing.T, svc *FoodService) {
	t.Helper()
	httpmock.ActivateNonDefault(svc.vision.client)
	httpmock.ActivateNonDefault(svc.nutrition.client)
	t.Cleanup(httpmock.DeactivateAndReset)
}

func TestScanImageSingleCandidateResolvesEndToEnd(t *testing.T) {
	svc, _ := newTestFoodService()
	mockBothProviders(t, svc)

	// "Fruit salad" passes the food-vocabulary filter; a bare brand or
	// produce name like "Banana" would be filtered out.
	httpmock.RegisterResponder(http.MethodPost, visionURL+"?key=test-key",
		httpmock.NewStringResponder(http.StatusOK, `{
			"responses": [{
				"labelAnnotations": [{"description": "Fruit salad", "score": 0.96}]
			}]
		}`))
	httpmock.RegisterResponder(http.MethodPost, lookupURL,
		queryRouter(t, map[string]*models.NutritionRecord{
			"Fruit salad": {FoodName: "Fruit Salad", Calories: 105, Sugars: 14, DietaryFiber: 3.1, Protein: 1.3},
		}))

	outcome, err := svc.ScanImage(context.Background(), 1, jpegDataURI)
	require.NoError(t, err)

	assert.Empty(t, outcome.Candidates)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "Fruit salad", outcome.Result.Label)
	assert.Equal(t, 105.0, outcome.Result.Nutrition.Calories)
	assert.True(t, outcome.Result.Analysis.IsHealthy)
	assert.Equal(t, models.AdvicePositive, outcome.Result.Advisory.Type)
	assert.Contains(t, outcome.Result.Advisory.Message, "weight loss")
}

func TestScanImageMultipleCandidatesNeedDisambiguation(t *testing.T) {
	svc, _ := newTestFoodService()
	mockBothProviders(t, svc)

	httpmock.RegisterResponder(http.MethodPost, visionURL+"?key=test-key",
		httpmock.NewStringResponder(http.StatusOK, `{
			"responses": [{
				"labelAnnotations": [
					{"description": "Pizza", "score": 0.93},
					{"description": "Salad", "score": 0.89}
				]
			}]
		}`))

	outcome, err := svc.ScanImage(context.Background(), 1, jpegDataURI)
	require.NoError(t, err)

	// No guessing: two candidates go back to the user, no lookup calls.
	assert.Nil(t, outcome.Result)
	require.Len(t, outcome.Candidates, 2)
	assert.Equal(t, "Pizza", outcome.Candidates[0].Label)
	assert.Equal(t, 0, httpmock.GetCallCountInfo()["POST "+lookupURL])
}

func TestScanImageNoFoodIsEmptyOutcome(t *testing.T) {
	svc, _ := newTestFoodService()
	mockBothProviders(t, svc)

	httpmock.RegisterResponder(http.MethodPost, visionURL+"?key=test-key",
		httpmock.NewStringResponder(http.StatusOK, `{"responses":[{}]}`))

	outcome, err := svc.ScanImage(context.Background(), 1, jpegDataURI)
	require.NoError(t, err)
	assert.Empty(t, outcome.Candidates)
	assert.Nil(t, outcome.Result)
}

func TestScanImageBadImageSurfacesUnreadable(t *testing.T) {
	svc, _ := newTestFoodService()

	outcome, err := svc.ScanImage(context.Background(), 1, "garbage")
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, ErrImageUnreadable)
}

func TestResolveLabelProfileFailureDegradesAdvisory(t *testing.T) {
	vision := newTestVisionService()
	nutrition := newTestNutritionService()
	svc := NewFoodService(vision, nutrition, NewCoachService(), failingProfileStore{})
	httpmock.ActivateNonDefault(nutrition.client)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, lookupURL,
		queryRouter(t, map[string]*models.NutritionRecord{
			"apple": {FoodName: "Apple", Calories: 95},
		}))

	result, err := svc.ResolveLabel(context.Background(), 1, "apple")
	require.NoError(t, err)

	// Goal-agnostic advisory, not an error.
	assert.Equal(t, models.AdvicePositive, result.Advisory.Type)
	assert.NotContains(t, result.Advisory.Message, "weight loss")
}

type failingProfileStore struct{}

func (failingProfileStore) GetUserGoalProfile(context.Context, uint) (*models.UserGoalProfile, error) {
	return nil, context.DeadlineExceeded
}

func (failingProfileStore) UpsertGoal(context.Context, uint, models.UserGoal) error { return nil }

func (failingProfileStore) UpsertHealthCondition(context.Context, uint, models.HealthCondition) error {
	return nil
}

func (failingProfileStore) ReplaceDietaryRestrictions(context.Context, uint, []string) error {
	return nil
}
