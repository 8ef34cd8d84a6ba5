package repositories

import (
	"path/filepath"
	"testing"

	"replenish-app/engine"
	"replenish-app/models"
	"replenish-app/types"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newQueueTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "queue.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ReplenishmentQueueItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func queueItem(id int64, zone string, bufferUnits, gap int, dos float64) models.ReplenishmentQueueItem {
	return models.ReplenishmentQueueItem{
		ID:            types.SnowflakeID(id),
		ProductCode:   "SKU-0001",
		LocationCode:  "DC-01",
		CurrentZone:   zone,
		BufferUnits:   bufferUnits,
		BufferGap:     gap,
		DaysOfSupply:  dos,
		PriorityScore: engine.PriorityScore(zone, gap, bufferUnits, dos),
		Status:        models.QueuePending,
	}
}

func TestListQueueItemsOrdersByZoneThenGap(t *testing.T) {
	db := newQueueTestDB(t)
	repo := NewQueueRepository(db)

	// the big buffer's normalized score is lower than the small buffer's
	// even though its absolute gap is larger; the listing must still put
	// the larger gap first within the zone
	items := []models.ReplenishmentQueueItem{
		queueItem(1, models.ZoneRed, 1000, 60, 5),
		queueItem(2, models.ZoneRed, 100, 50, 5),
		queueItem(3, models.ZoneYellow, 1000, 900, 5),
		queueItem(4, models.ZoneRed, 1000, 60, 2),
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("seed queue item %d: %v", i, err)
		}
	}

	got, err := repo.ListQueueItems(QueueFilter{MaxGap: -1, MaxPriority: -1})
	if err != nil {
		t.Fatalf("ListQueueItems: %v", err)
	}

	want := []types.SnowflakeID{4, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, row := range got {
		if row.ID != want[i] {
			t.Errorf("position %d: got item %d, want %d", i, row.ID, want[i])
		}
	}
}
