package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TrendIncreasing = "INCREASING"
	TrendDecreasing = "DECREASING"
	TrendStable     = "STABLE"
)

// DailyConsumptionLog is an immutable fact record fed by the external
// stock system. One row per product, location and date.
type DailyConsumptionLog struct {
	gorm.Model
	ProductCode     string    `json:"product_code" gorm:"index:idx_consumption_key,unique"`
	LocationCode    string    `json:"location_code" gorm:"index:idx_consumption_key,unique"`
	ConsumptionDate time.Time `json:"consumption_date" gorm:"index:idx_consumption_key,unique"`
	QtyConsumed     int       `json:"qty_consumed" gorm:"default:0"`
	TransactionType string    `json:"transaction_type"`
	Source          string    `json:"source"`
	CreatedBy       int
}

type ConsumptionProfile struct {
	gorm.Model
	ProductCode     string    `json:"product_code" gorm:"index:idx_profile_key,unique"`
	LocationCode    string    `json:"location_code" gorm:"index:idx_profile_key,unique"`
	Adc7            float64   `json:"adc_7" gorm:"default:0"`
	Adc14           float64   `json:"adc_14" gorm:"default:0"`
	Adc30           float64   `json:"adc_30" gorm:"default:0"`
	Adc60           float64   `json:"adc_60" gorm:"default:0"`
	AdcNormalized   float64   `json:"adc_normalized" gorm:"default:0"`
	Trend           string    `json:"trend"`
	TrendConfidence float64   `json:"trend_confidence" gorm:"default:0"`
	StdDev          float64   `json:"std_dev" gorm:"default:0"`
	CoefVariation   float64   `json:"coef_variation" gorm:"default:0"`
	DataPoints      int       `json:"data_points" gorm:"default:0"`
	IsPartial       bool      `json:"is_partial" gorm:"default:false"`
	CalculationDate time.Time `json:"calculation_date"`
	LastConsumption time.Time `json:"last_consumption"`
}
