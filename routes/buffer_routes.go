package routes

import (
	"replenish-app/config"
	"replenish-app/controllers"
	"replenish-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBufferRoutes(app *fiber.App, db *gorm.DB) {
	bufferController := controllers.NewBufferController(db)
	api := app.Group(config.MAIN_ROUTES+"/buffers", middleware.AuthMiddleware)

	api.Post("/", bufferController.CreateBuffer)
	api.Get("/", bufferController.GetBuffers)
	api.Get("/:id", bufferController.GetBufferByID)
	api.Put("/:id/active", bufferController.SetActive)
	api.Post("/calculate", bufferController.Calculate)
	api.Post("/calculate/batch", bufferController.CalculateBatch)
}
