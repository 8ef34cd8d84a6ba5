package routes

import (
	"replenish-app/config"
	"replenish-app/controllers"
	"replenish-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdjustmentRoutes(app *fiber.App, db *gorm.DB) {
	adjustmentController := controllers.NewAdjustmentController(db)
	api := app.Group(config.MAIN_ROUTES+"/adjustments", middleware.AuthMiddleware)

	api.Get("/", adjustmentController.GetAdjustments)
	api.Get("/due", adjustmentController.GetDueBuffers)
	api.Get("/excel", adjustmentController.ExportExcel)
	api.Post("/review", adjustmentController.RunReview)
	api.Post("/:id/approve", adjustmentController.Approve)
	api.Post("/:id/reject", adjustmentController.Reject)
}
