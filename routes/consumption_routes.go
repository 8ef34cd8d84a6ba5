package routes

import (
	"replenish-app/config"
	"replenish-app/controllers"
	"replenish-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupConsumptionRoutes(app *fiber.App, db *gorm.DB) {
	consumptionController := controllers.NewConsumptionController(db)
	api := app.Group(config.MAIN_ROUTES+"/consumption", middleware.AuthMiddleware)

	api.Post("/logs", consumptionController.IngestLogs)
	api.Get("/profile/:product/:location", consumptionController.GetProfile)
	api.Post("/recalculate", consumptionController.Recalculate)
}
