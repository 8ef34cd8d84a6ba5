package engine

import (
	"path/filepath"
	"testing"

	"replenish-app/controllers/idgen"
	"replenish-app/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the planning schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	idgen.Init()

	dsn := filepath.Join(t.TempDir(), "planning.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
