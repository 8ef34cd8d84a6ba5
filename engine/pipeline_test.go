package engine

import (
	"sync"
	"testing"

	"replenish-app/config"
	"replenish-app/controllers/idgen"
	"replenish-app/models"
	"replenish-app/types"
)

func TestCreateOrdersConcurrentSameQueueItem(t *testing.T) {
	db := newTestDB(t)
	p := &OrderPipelineCreator{DB: db, Config: config.PlanningConfig{}, Log: config.GetLogger()}

	for _, seed := range []interface{}{
		&models.Location{LocationCode: "DC-01", LocationName: "Central DC", LocationType: "DC", IsActive: true},
		&models.Supplier{SupplierCode: "SUP-01", SupplierName: "Acme Supply", IsActive: true},
		&models.ProductLeadTime{ProductCode: "SKU-0001", LocationCode: "DC-01", SupplierCode: "SUP-01", LeadTimeDays: 5},
	} {
		if err := db.Create(seed).Error; err != nil {
			t.Fatalf("seed master data: %v", err)
		}
	}

	buf := models.InventoryBuffer{
		ProductCode:      "SKU-0001",
		LocationCode:     "DC-01",
		BufferUnits:      100,
		CurrentInventory: 20,
		CurrentZone:      models.ZoneRed,
		IsActive:         true,
	}
	if err := db.Create(&buf).Error; err != nil {
		t.Fatalf("seed buffer: %v", err)
	}

	item := models.ReplenishmentQueueItem{
		ID:                types.SnowflakeID(idgen.GenerateID()),
		BufferID:          buf.ID,
		ProductCode:       "SKU-0001",
		LocationCode:      "DC-01",
		CurrentZone:       models.ZoneRed,
		BufferGap:         80,
		RecommendedAction: models.ActionExpedite,
		RecommendedQty:    40,
		Status:            models.QueuePending,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed queue item: %v", err)
	}

	// two clients submit the same finalized queue item at once: exactly
	// one order may be placed, the loser gets the winner's order back
	var wg sync.WaitGroup
	orders := make([][]models.InventoryOrderPipeline, 2)
	results := make([]*BatchResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orders[i], results[i] = p.CreateOrders([]OrderRequest{{QueueID: item.ID}}, 1)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		if results[i].Failed != 0 {
			t.Fatalf("request %d failed: %v", i, results[i].ErrorMessages())
		}
		if len(orders[i]) != 1 {
			t.Fatalf("request %d: got %d orders, want 1", i, len(orders[i]))
		}
	}
	if orders[0][0].ID != orders[1][0].ID {
		t.Errorf("requests produced distinct orders %d and %d, want the same one",
			orders[0][0].ID, orders[1][0].ID)
	}

	var orderCount int64
	db.Model(&models.InventoryOrderPipeline{}).Count(&orderCount)
	if orderCount != 1 {
		t.Errorf("order rows = %d, want exactly 1", orderCount)
	}

	var after models.InventoryBuffer
	if err := db.First(&after, buf.ID).Error; err != nil {
		t.Fatalf("reload buffer: %v", err)
	}
	if after.InPipelineQty != 40 {
		t.Errorf("in-pipeline qty = %d, want 40 counted once", after.InPipelineQty)
	}

	var afterItem models.ReplenishmentQueueItem
	if err := db.First(&afterItem, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload queue item: %v", err)
	}
	if afterItem.Status != models.QueueProcessed || afterItem.OrderID != orders[0][0].ID {
		t.Errorf("queue item = (%s, %d), want (PROCESSED, %d)",
			afterItem.Status, afterItem.OrderID, orders[0][0].ID)
	}
}
