package models

import (
	"time"

	"gorm.io/gorm"
)

// SeasonalityAdjustment scales the ADC used for sizing and queue
// recommendations during a given month. Empty product/location codes
// match everything.
type SeasonalityAdjustment struct {
	gorm.Model
	ProductCode  string  `json:"product_code"`
	LocationCode string  `json:"location_code"`
	Month        int     `json:"month" validate:"min=1,max=12"`
	Factor       float64 `json:"factor" gorm:"default:1"`
	IsActive     bool    `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
}

// SpecialEvent scales the ADC for a date range (promotions, holidays).
type SpecialEvent struct {
	gorm.Model
	EventName    string    `json:"event_name"`
	ProductCode  string    `json:"product_code"`
	LocationCode string    `json:"location_code"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Factor       float64   `json:"factor" gorm:"default:1"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
}
