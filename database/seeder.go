// database/seeder.go
package database

import (
	"log"
	"replenish-app/models"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedUserMaster(db)
	SeedReviewCycles(db)
	SeedDemoMasterData(db)
}

func SeedUserMaster(db *gorm.DB) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	user := models.User{
		Username: "admin",
		Password: string(hashed),
		Name:     "Administrator",
		Email:    "admin@replenish.local",
		Role:     "admin",
	}

	var existing models.User
	if err := db.Where("username = ?", user.Username).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&user).Error; err != nil {
				log.Fatalf("Failed to seed admin user: %v", err)
			}
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}
}

func SeedReviewCycles(db *gorm.DB) {
	now := time.Now()
	cycles := []models.ReviewCycle{
		{
			Code:          "WEEKLY",
			Name:          "Weekly Review",
			FrequencyDays: 7,
			StartDay:      1,
			EndDay:        7,
			NextStartDate: now,
			NextEndDate:   now.AddDate(0, 0, 7),
			IsActive:      true,
		},
		{
			Code:          "MONTHLY",
			Name:          "Monthly Review",
			FrequencyDays: 30,
			StartDay:      1,
			EndDay:        30,
			NextStartDate: now,
			NextEndDate:   now.AddDate(0, 0, 30),
			IsActive:      true,
		},
	}

	for _, c := range cycles {
		var existing models.ReviewCycle
		if err := db.Where("code = ?", c.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&c)
			}
		}
	}
}

// SeedDemoMasterData plants a minimal master set so a fresh install can
// exercise the planning cycle end to end.
func SeedDemoMasterData(db *gorm.DB) {
	products := []models.Product{
		{ItemCode: "SKU-0001", ItemName: "Demo Item A", Category: "DEMO", Uom: "PCS", IsActive: true},
		{ItemCode: "SKU-0002", ItemName: "Demo Item B", Category: "DEMO", Uom: "PCS", IsActive: true},
	}
	for _, p := range products {
		var existing models.Product
		if err := db.Where("item_code = ?", p.ItemCode).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&p)
		}
	}

	locations := []models.Location{
		{LocationCode: "DC-01", LocationName: "Central DC", LocationType: "DC", IsActive: true},
		{LocationCode: "ST-01", LocationName: "Store 01", LocationType: "STORE", IsActive: true},
	}
	for _, l := range locations {
		var existing models.Location
		if err := db.Where("location_code = ?", l.LocationCode).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&l)
		}
	}

	supplier := models.Supplier{SupplierCode: "SUP-01", SupplierName: "Demo Supplier", IsActive: true}
	var existingSupplier models.Supplier
	if err := db.Where("supplier_code = ?", supplier.SupplierCode).First(&existingSupplier).Error; err == gorm.ErrRecordNotFound {
		db.Create(&supplier)
	}

	leadTimes := []models.ProductLeadTime{
		{ProductCode: "SKU-0001", LocationCode: "DC-01", SupplierCode: "SUP-01", LeadTimeDays: 5},
		{ProductCode: "SKU-0002", LocationCode: "DC-01", SupplierCode: "SUP-01", LeadTimeDays: 7},
		{ProductCode: "SKU-0001", LocationCode: "ST-01", SupplierCode: "SUP-01", LeadTimeDays: 3},
	}
	for _, lt := range leadTimes {
		var existing models.ProductLeadTime
		if err := db.Where("product_code = ? AND location_code = ?", lt.ProductCode, lt.LocationCode).
			First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&lt)
		}
	}
}
