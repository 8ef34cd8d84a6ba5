// database/migrate.go
package database

import (
	"replenish-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Location{},
		&models.Supplier{},
		&models.ProductLeadTime{},
		&models.DailyConsumptionLog{},
		&models.ConsumptionProfile{},
		&models.ReviewCycle{},
		&models.InventoryBuffer{},
		&models.BufferAdjustmentLog{},
		&models.ReplenishmentQueueItem{},
		&models.InventoryOrderPipeline{},
		&models.ReplenishmentOverrideLog{},
		&models.SeasonalityAdjustment{},
		&models.SpecialEvent{},
	)
}
