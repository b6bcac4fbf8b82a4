package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/vashonai/Dietlytic/models"
	"github.com/vashonai/Dietlytic/utils"
)

// foodVocabulary is the allow-list a label must substring-match to count
// as food. Deliberately precision-over-recall: missing an exotic dish is
// acceptable, surfacing "person" or "furniture" as food is not.
var foodVocabulary = []string{
	"food", "meal", "dish", "cuisine", "cooking", "recipe",
	"pizza", "burger", "sandwich", "salad", "pasta", "rice",
	"chicken", "beef", "pork", "fish", "seafood", "vegetable",
	"fruit", "bread", "cake", "dessert", "soup", "stew",
	"breakfast", "lunch", "dinner", "snack", "appetizer",
	"main course", "side dish", "beverage", "drink",
}

type VisionService struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewVisionService(endpoint, apiKey string, timeout time.Duration) *VisionService {
	return &VisionService{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionVertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type visionResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		LocalizedObjectAnnotations []struct {
			Name         string  `json:"name"`
			Score        float64 `json:"score"`
			BoundingPoly struct {
				NormalizedVertices []visionVertex `json:"normalizedVertices"`
			} `json:"boundingPoly"`
		} `json:"localizedObjectAnnotations"`
	} `json:"responses"`
}

// DetectFood sends the image to the vision provider and returns food
// candidates sorted by confidence descending, case-insensitive
// duplicates removed. An empty slice means "no food identified" and is a
// valid outcome, not an error.
func (s *VisionService) DetectFood(ctx context.Context, image []byte) ([]models.FoodCandidate, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrImageUnreadable)
	}

	req := visionRequest{Requests: []visionAnnotateRequest{{
		Image: visionImage{Content: base64.StdEncoding.EncodeToString(image)},
		Features: []visionFeature{
			{Type: "LABEL_DETECTION", MaxResults: 10},
			{Type: "OBJECT_LOCALIZATION", MaxResults: 10},
		},
	}}}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal vision request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"?key="+s.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrDetectionTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrDetectionTransport, resp.StatusCode, truncate(raw, 200))
	}

	var vr visionResponse
	if err := json.Unmarshal(raw, &vr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrDetectionTransport, err)
	}

	return parseCandidates(&vr), nil
}

// DetectFoodBase64 accepts the "data:image/...;base64," form the mobile
// client uploads and feeds the decoded bytes through DetectFood.
func (s *VisionService) DetectFoodBase64(ctx context.Context, dataURI string) ([]models.FoodCandidate, error) {
	raw, _, err := utils.DecodeImageDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	return s.DetectFood(ctx, raw)
}

func parseCandidates(vr *visionResponse) []models.FoodCandidate {
	if len(vr.Responses) == 0 {
		return []models.FoodCandidate{}
	}
	r := vr.Responses[0]

	candidates := make([]models.FoodCandidate, 0, len(r.LabelAnnotations)+len(r.LocalizedObjectAnnotations))
	for _, l := range r.LabelAnnotations {
		if isFoodRelated(l.Description) {
			candidates = append(candidates, models.FoodCandidate{
				Label:      l.Description,
				Confidence: l.Score,
			})
		}
	}
	for _, o := range r.LocalizedObjectAnnotations {
		if !isFoodRelated(o.Name) {
			continue
		}
		c := models.FoodCandidate{Label: o.Name, Confidence: o.Score}
		if v := o.BoundingPoly.NormalizedVertices; len(v) >= 3 {
			c.BoundingBox = &models.Rect{
				X:      v[0].X,
				Y:      v[0].Y,
				Width:  v[2].X - v[0].X,
				Height: v[2].Y - v[0].Y,
			}
		}
		candidates = append(candidates, c)
	}

	// Highest confidence first, then dedupe so the best occurrence of
	// each label wins.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := strings.ToLower(c.Label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func isFoodRelated(label string) bool {
	lower := strings.ToLower(label)
	for _, term := range foodVocabulary {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
