package main

import (
	"github.com/vashonai/Dietlytic/config"
	"github.com/vashonai/Dietlytic/controllers"
	"github.com/vashonai/Dietlytic/routes"
	"github.com/vashonai/Dietlytic/services"
	"github.com/vashonai/Dietlytic/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	settings := config.LoadSettings()

	// One process-wide instance of each service, wired here and nowhere
	// else.
	coach := services.NewCoachService()
	profiles := services.NewGormProfileStore(config.DB)
	store := services.NewGormNutritionStore(config.DB, coach)
	vision := services.NewVisionService(settings.VisionURL, settings.VisionAPIKey, settings.HTTPTimeout)
	nutrition := services.NewNutritionService(settings.NutritionURL, settings.NutritionAppID, settings.NutritionAppKey, settings.HTTPTimeout)
	food := services.NewFoodService(vision, nutrition, coach, profiles)
	agent := services.NewAgentService(settings.CoachURL, settings.HTTPTimeout, store, profiles)
	analytics := services.NewAnalyticsService(config.DB)
	hub := services.NewAdvisoryHub()

	r := routes.SetupRouter(routes.Controllers{
		Food:      controllers.NewFoodController(food, store, hub),
		Coach:     controllers.NewCoachController(agent),
		Meals:     controllers.NewMealController(store),
		Profile:   controllers.NewProfileController(profiles),
		Goals:     controllers.NewGoalController(profiles),
		Analytics: controllers.NewAnalyticsController(analytics),
		Realtime:  controllers.NewRealtimeController(hub),
	})
	r.Run(":8080")
}
