package main

import (
	"fmt"
	"log"
	"replenish-app/config"
	"replenish-app/controllers/idgen"
	"replenish-app/database"
	"replenish-app/routes"
	"replenish-app/scheduler"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := database.OpenDatabaseConnection(config.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupBufferRoutes(app, db)
	routes.SetupConsumptionRoutes(app, db)
	routes.SetupAdjustmentRoutes(app, db)
	routes.SetupQueueRoutes(app, db)
	routes.SetupOrderRoutes(app, db)
	routes.SetupDashboardRoutes(app, db)

	scheduler.Start(db)

	port := config.APP_PORT
	fmt.Println("🚀 Server berjalan di port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
