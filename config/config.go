package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/vashonai/Dietlytic/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("no .env file found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.NutritionEntry{},
		&models.UserGoal{},
		&models.HealthConditionRecord{},
		&models.DietaryRestrictionRecord{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// Settings collects the external-service endpoints and credentials the
// pipeline services are constructed with.
type Settings struct {
	VisionURL    string
	VisionAPIKey string

	NutritionURL    string
	NutritionAppID  string
	NutritionAppKey string

	CoachURL string

	HTTPTimeout time.Duration
}

// LoadSettings reads service settings from the environment. Endpoints
// default to the public providers; the timeout defaults to 10s.
func LoadSettings() Settings {
	timeout := 10 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	s := Settings{
		VisionURL:       os.Getenv("VISION_API_URL"),
		VisionAPIKey:    os.Getenv("VISION_API_KEY"),
		NutritionURL:    os.Getenv("NUTRITION_API_URL"),
		NutritionAppID:  os.Getenv("NUTRITION_APP_ID"),
		NutritionAppKey: os.Getenv("NUTRITION_APP_KEY"),
		CoachURL:        os.Getenv("COACH_API_URL"),
		HTTPTimeout:     timeout,
	}
	if s.VisionURL == "" {
		s.VisionURL = "https://vision.googleapis.com/v1/images:annotate"
	}
	if s.NutritionURL == "" {
		s.NutritionURL = "https://trackapi.nutritionix.com/v2/natural/nutrients"
	}
	return s
}
