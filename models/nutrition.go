package models

// FoodCandidate is one label the vision provider attached to a photo,
// already filtered down to food-related vocabulary.
type FoodCandidate struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	BoundingBox *Rect   `json:"bounding_box,omitempty"`
}

// Rect is a normalized bounding box ([0,1] image coordinates).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NutritionRecord holds the per-serving facts for one food. Field names
// follow the Nutritionix natural-nutrients payload so the lookup response
// unmarshals straight into it. Every field is a definite numeric value;
// unknowns are zero, never null.
type NutritionRecord struct {
	FoodName      string  `json:"food_name"`
	ServingUnit   string  `json:"serving_unit"`
	ServingGrams  float64 `json:"serving_weight_grams"`
	Calories      float64 `json:"nf_calories"`
	TotalFat      float64 `json:"nf_total_fat"`
	SaturatedFat  float64 `json:"nf_saturated_fat"`
	Cholesterol   float64 `json:"nf_cholesterol"`
	Sodium        float64 `json:"nf_sodium"`
	TotalCarbs    float64 `json:"nf_total_carbohydrate"`
	DietaryFiber  float64 `json:"nf_dietary_fiber"`
	Sugars        float64 `json:"nf_sugars"`
	Protein       float64 `json:"nf_protein"`
	Potassium     float64 `json:"nf_potassium"`
	VitaminC      float64 `json:"nf_vitamin_c"`
	Calcium       float64 `json:"nf_calcium"`
	Iron          float64 `json:"nf_iron"`
}
