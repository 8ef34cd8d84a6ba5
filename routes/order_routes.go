package routes

import (
	"replenish-app/config"
	"replenish-app/controllers"
	"replenish-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupOrderRoutes(app *fiber.App, db *gorm.DB) {
	orderController := controllers.NewOrderController(db)
	api := app.Group(config.MAIN_ROUTES+"/orders", middleware.AuthMiddleware)

	api.Get("/", orderController.GetOrders)
	api.Post("/", orderController.CreateOrders)
	api.Post("/approve", orderController.ApproveOrders)
	api.Post("/:id/receive", orderController.ReceiveOrder)
}
