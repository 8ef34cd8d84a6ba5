package routes

import (
	"replenish-app/config"
	"replenish-app/controllers"
	"replenish-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupQueueRoutes(app *fiber.App, db *gorm.DB) {
	queueController := controllers.NewQueueController(db)
	api := app.Group(config.MAIN_ROUTES+"/queue", middleware.AuthMiddleware)

	api.Get("/", queueController.GetQueue)
	api.Get("/excel", queueController.ExportExcel)
	api.Post("/generate", queueController.Generate)
	api.Post("/:id/cancel", queueController.Cancel)
}
