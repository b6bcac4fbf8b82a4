package routes

import (
	"github.com/vashonai/Dietlytic/controllers"
	"github.com/vashonai/Dietlytic/middlewares"

	"github.com/gin-gonic/gin"
)

// Controllers groups the constructed controllers the router mounts.
type Controllers struct {
	Food      *controllers.FoodController
	Coach     *controllers.CoachController
	Meals     *controllers.MealController
	Profile   *controllers.ProfileController
	Goals     *controllers.GoalController
	Analytics *controllers.AnalyticsController
	Realtime  *controllers.RealtimeController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", ctl.Profile.Get)
		user.PUT("/profile", ctl.Profile.Update)
		user.PUT("/profile/conditions", ctl.Profile.UpdateConditions)
		user.PUT("/profile/restrictions", ctl.Profile.UpdateRestrictions)
		user.GET("/goals", ctl.Goals.List)
		user.PUT("/goals", ctl.Goals.Upsert)
	}

	food := r.Group("/food")
	food.Use(middlewares.AuthMiddleware())
	{
		food.POST("/scan", ctl.Food.Scan)
		food.POST("/resolve", ctl.Food.Resolve)
	}

	meals := r.Group("/meals")
	meals.Use(middlewares.AuthMiddleware())
	{
		meals.POST("", ctl.Meals.Log)
		meals.GET("", ctl.Meals.List)
		meals.GET("/today", ctl.Meals.TodaysTotals)
		meals.GET("/summary", ctl.Analytics.GetIntakeSummary)
	}

	coach := r.Group("/coach")
	coach.Use(middlewares.AuthMiddleware())
	{
		coach.POST("/message", ctl.Coach.Message)
		coach.POST("/scanned-food", ctl.Coach.ScannedFood)
		coach.GET("/history", ctl.Coach.History)
		coach.DELETE("/history", ctl.Coach.ClearHistory)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/advisories", ctl.Realtime.AdvisoriesWS)
	}

	return r
}
