package routes

import (
	"replenish-app/config"
	"replenish-app/controllers"
	"replenish-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB) {
	dashboardController := controllers.NewDashboardController(db)
	api := app.Group(config.MAIN_ROUTES+"/dashboard", middleware.AuthMiddleware)

	api.Get("/summary", dashboardController.GetSummary)
}
