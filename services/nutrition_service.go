package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vashonai/Dietlytic/models"
)

// synonymTable rewrites labels the lookup provider rejects. Vision tends
// to produce vague labels ("snack", "package") that a human would
// trivially resolve; mapping them to concrete foods recovers most cases
// without user intervention.
var synonymTable = map[string][]string{
	"snack":     {"potato chips", "crackers", "nuts"},
	"snacks":    {"potato chips", "crackers", "nuts"},
	"food":      {"bread", "sandwich", "meal"},
	"package":   {"potato chips", "crackers", "snack"},
	"bag":       {"potato chips", "popcorn", "nuts"},
	"container": {"yogurt", "milk", "juice"},
	"bottle":    {"water", "soda", "juice"},
	"box":       {"cereal", "crackers", "pasta"},
	"chips":     {"potato chips", "tortilla chips", "corn chips"},
	"crackers":  {"saltine crackers", "wheat crackers", "cheese crackers"},
	"nuts":      {"almonds", "peanuts", "cashews"},
	"fruit":     {"apple", "banana", "orange"},
	"vegetable": {"carrot", "broccoli", "lettuce"},
	"meat":      {"chicken", "beef", "pork"},
	"bread":     {"white bread", "wheat bread", "whole grain bread"},
	"pizza":     {"cheese pizza", "pepperoni pizza", "margherita pizza"},
	"burger":    {"cheeseburger", "hamburger", "chicken burger"},
	"salad":     {"caesar salad", "garden salad", "chicken salad"},
	"pasta":     {"spaghetti", "macaroni", "penne pasta"},
	"rice":      {"white rice", "brown rice", "fried rice"},
	"soup":      {"chicken soup", "vegetable soup", "tomato soup"},
	"sandwich":  {"turkey sandwich", "ham sandwich", "club sandwich"},
	"breakfast": {"cereal", "toast", "eggs"},
	"lunch":     {"sandwich", "salad", "soup"},
	"dinner":    {"chicken", "pasta", "rice"},
}

const maxRewrites = 5

type NutritionService struct {
	endpoint string
	appID    string
	appKey   string
	client   *http.Client
}

func NewNutritionService(endpoint, appID, appKey string, timeout time.Duration) *NutritionService {
	return &NutritionService{
		endpoint: endpoint,
		appID:    appID,
		appKey:   appKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// resolutionStrategy is one step of the fallback cascade. A nil record
// with a nil error means "no match here, try the next strategy".
type resolutionStrategy interface {
	attempt(ctx context.Context, label string) (*models.NutritionRecord, error)
}

// Resolve runs the cascade for a label: direct query, synonym rewrites,
// quantity-prefixed retry, then the static table with its generic
// placeholder terminus. It returns ErrNoNutritionMatch only for labels
// that defeat every strategy (empty label), and ErrLookupTransport when
// the provider itself is down. Strategies run strictly sequentially;
// the provider is rate limited and an early hit must short-circuit the
// rest.
func (s *NutritionService) Resolve(ctx context.Context, label string) (*models.NutritionRecord, error) {
	strategies := []resolutionStrategy{
		directQuery{s},
		synonymRewrite{s},
		quantityPrefix{s},
		staticTable{},
	}
	for _, strat := range strategies {
		rec, err := strat.attempt(ctx, label)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoNutritionMatch, label)
}

type directQuery struct{ svc *NutritionService }

func (d directQuery) attempt(ctx context.Context, label string) (*models.NutritionRecord, error) {
	if strings.TrimSpace(label) == "" {
		return nil, nil
	}
	return d.svc.query(ctx, label)
}

type synonymRewrite struct{ svc *NutritionService }

func (r synonymRewrite) attempt(ctx context.Context, label string) (*models.NutritionRecord, error) {
	for _, alt := range alternativeQueries(label) {
		rec, err := r.svc.query(ctx, alt)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, nil
}

type quantityPrefix struct{ svc *NutritionService }

// Lookup providers often need a quantity token to parse a bare noun.
func (q quantityPrefix) attempt(ctx context.Context, label string) (*models.NutritionRecord, error) {
	if strings.TrimSpace(label) == "" {
		return nil, nil
	}
	return q.svc.query(ctx, "1 "+label)
}

type staticTable struct{}

func (staticTable) attempt(_ context.Context, label string) (*models.NutritionRecord, error) {
	if strings.TrimSpace(label) == "" {
		return nil, nil
	}
	return fallbackRecord(label), nil
}

// alternativeQueries builds the rewrite list for a label: synonym-table
// hits first, then generic fallbacks and suffix variants, capped at
// maxRewrites to bound provider calls.
func alternativeQueries(label string) []string {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return nil
	}

	var alts []string
	alts = append(alts, synonymTable[lower]...)
	alts = append(alts, "generic food", "mixed food")
	alts = append(alts, lower+" snack", lower+" food")

	if len(alts) > maxRewrites {
		alts = alts[:maxRewrites]
	}
	return alts
}

type lookupRequest struct {
	Query string `json:"query"`
}

type lookupResponse struct {
	Foods []models.NutritionRecord `json:"foods"`
}

// query performs one lookup call. A 404 or an empty foods array yields
// (nil, nil) so the cascade continues; transport failures and 5xx abort
// it with ErrLookupTransport.
func (s *NutritionService) query(ctx context.Context, q string) (*models.NutritionRecord, error) {
	body, err := json.Marshal(lookupRequest{Query: q})
	if err != nil {
		return nil, fmt.Errorf("marshal lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", s.appID)
	req.Header.Set("x-app-key", s.appKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrLookupTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d: %s", ErrLookupTransport, resp.StatusCode, truncate(raw, 200))
	case resp.StatusCode != http.StatusOK:
		// 4xx other than 404: the provider rejected this particular
		// query, which is a per-query miss, not an outage.
		return nil, nil
	}

	var lr lookupResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrLookupTransport, err)
	}
	if len(lr.Foods) == 0 {
		return nil, nil
	}
	rec := lr.Foods[0]
	return &rec, nil
}

// staticFallbacks covers common foods when the provider has nothing.
var staticFallbacks = map[string]models.NutritionRecord{
	"apple": {
		FoodName: "Apple", ServingUnit: "medium", ServingGrams: 182,
		Calories: 95, TotalFat: 0.3, SaturatedFat: 0.1, Cholesterol: 0,
		Sodium: 2, TotalCarbs: 25, DietaryFiber: 4.4, Sugars: 19,
		Protein: 0.5, Potassium: 195, VitaminC: 8.4, Calcium: 11, Iron: 0.2,
	},
	"banana": {
		FoodName: "Banana", ServingUnit: "medium", ServingGrams: 118,
		Calories: 105, TotalFat: 0.4, SaturatedFat: 0.1, Cholesterol: 0,
		Sodium: 1, TotalCarbs: 27, DietaryFiber: 3.1, Sugars: 14,
		Protein: 1.3, Potassium: 422, VitaminC: 10.3, Calcium: 6, Iron: 0.3,
	},
	"chicken": {
		FoodName: "Chicken Breast", ServingUnit: "100g", ServingGrams: 100,
		Calories: 165, TotalFat: 3.6, SaturatedFat: 1.0, Cholesterol: 85,
		Sodium: 74, TotalCarbs: 0, DietaryFiber: 0, Sugars: 0,
		Protein: 31, Potassium: 256, VitaminC: 0, Calcium: 15, Iron: 1.0,
	},
	"bread": {
		FoodName: "White Bread", ServingUnit: "slice", ServingGrams: 28,
		Calories: 77, TotalFat: 1.0, SaturatedFat: 0.2, Cholesterol: 0,
		Sodium: 170, TotalCarbs: 15, DietaryFiber: 0.9, Sugars: 1.4,
		Protein: 2.6, Potassium: 30, VitaminC: 0, Calcium: 60, Iron: 0.9,
	},
	"rice": {
		FoodName: "White Rice", ServingUnit: "cup", ServingGrams: 158,
		Calories: 205, TotalFat: 0.4, SaturatedFat: 0.1, Cholesterol: 0,
		Sodium: 2, TotalCarbs: 45, DietaryFiber: 0.6, Sugars: 0.1,
		Protein: 4.3, Potassium: 55, VitaminC: 0, Calcium: 16, Iron: 0.8,
	},
}

// fallbackRecord matches the label against the static table by substring
// and otherwise returns a generic mid-range placeholder with the label
// preserved, so a non-empty label always yields a displayable record.
func fallbackRecord(label string) *models.NutritionRecord {
	lower := strings.ToLower(label)
	for key, rec := range staticFallbacks {
		if strings.Contains(lower, key) {
			r := rec
			return &r
		}
	}
	return &models.NutritionRecord{
		FoodName: label, ServingUnit: "serving", ServingGrams: 100,
		Calories: 150, TotalFat: 5, SaturatedFat: 1, Cholesterol: 0,
		Sodium: 200, TotalCarbs: 25, DietaryFiber: 3, Sugars: 5,
		Protein: 8, Potassium: 200, VitaminC: 5, Calcium: 50, Iron: 1,
	}
}
