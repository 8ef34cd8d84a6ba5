package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	ItemCode  string `json:"item_code" gorm:"unique" validate:"required,min=3"`
	ItemName  string `json:"item_name" validate:"required,min=3"`
	Category  string `json:"category"`
	Uom       string `json:"uom"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

type Location struct {
	gorm.Model
	LocationCode string `json:"location_code" gorm:"unique" validate:"required,min=2"`
	LocationName string `json:"location_name"`
	// DC, STORE or PLANT
	LocationType string `json:"location_type"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}

type Supplier struct {
	gorm.Model
	SupplierCode string `json:"supplier_code" gorm:"unique" validate:"required,min=2"`
	SupplierName string `json:"supplier_name"`
	Email        string `json:"email"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}

// ProductLeadTime supplies the replenishment lead time (RLT) per
// product and location. Missing rows are a hard failure for sizing.
type ProductLeadTime struct {
	gorm.Model
	ProductCode  string `json:"product_code" gorm:"index:idx_lead_time_key,unique"`
	LocationCode string `json:"location_code" gorm:"index:idx_lead_time_key,unique"`
	SupplierCode string `json:"supplier_code"`
	LeadTimeDays int    `json:"lead_time_days" gorm:"default:0"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
