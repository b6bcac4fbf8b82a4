package utils

import "errors"

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0 // to meters
	bmi := weightKg / (h * h)
	return bmi, nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// EstimateDailyCalories gives a rough maintenance target from weight and
// activity level, shifted for the weight goal. Used to put scan totals
// in context on the profile screen, not for medical guidance.
func EstimateDailyCalories(weightKg float64, activityLevel, weightGoal string) float64 {
	if weightKg <= 0 {
		return 2000
	}

	factor := 30.0
	switch activityLevel {
	case "sedentary":
		factor = 26
	case "light":
		factor = 28
	case "moderate":
		factor = 31
	case "active":
		factor = 34
	case "very_active":
		factor = 37
	}

	target := weightKg * factor
	switch weightGoal {
	case "lose":
		target -= 400
	case "gain":
		target += 400
	}
	if target < 1200 {
		target = 1200
	}
	return target
}
