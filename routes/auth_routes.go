package routes

import (
	"replenish-app/config"
	"replenish-app/controllers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {

	authController := controllers.NewAuthController(db)
	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", authController.Login)
}
