package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ZoneRed    = "RED"
	ZoneYellow = "YELLOW"
	ZoneGreen  = "GREEN"
)

const (
	ReviewAuto   = "Auto"
	ReviewManual = "Manual"
)

const (
	AdcWindow7  = "7adc"
	AdcWindow14 = "14adc"
	AdcWindow30 = "30adc"
)

// InventoryBuffer is the central aggregate: target stock per product
// and location, partitioned into zones. Derived fields are rewritten by
// the daily zone classification, size and review dates by the DBM review.
type InventoryBuffer struct {
	gorm.Model
	ProductCode  string `json:"product_code" gorm:"index:idx_buffer_key,unique" validate:"required"`
	LocationCode string `json:"location_code" gorm:"index:idx_buffer_key,unique" validate:"required"`
	// PURCHASED (from supplier) or DISTRIBUTED (transfer from another location)
	BufferType      string  `json:"buffer_type" gorm:"default:PURCHASED"`
	AdcWindow       string  `json:"adc_window" gorm:"default:14adc"`
	LeadTimeDays    int     `json:"lead_time_days" gorm:"default:0"`
	BufferUnits     int     `json:"buffer_units" gorm:"default:0"`
	SafetyFactorPct float64 `json:"safety_factor_pct" gorm:"default:0"`

	RedThresholdPct    float64 `json:"red_threshold_pct" gorm:"default:33"`
	YellowThresholdPct float64 `json:"yellow_threshold_pct" gorm:"default:33"`
	GreenThresholdPct  float64 `json:"green_threshold_pct" gorm:"default:34"`

	CurrentInventory int `json:"current_inventory" gorm:"default:0"`
	InPipelineQty    int `json:"in_pipeline_qty" gorm:"default:0"`
	AllocatedQty     int `json:"allocated_qty" gorm:"default:0"`

	// Derived by the zone classifier each cycle
	NetAvailableQty   int     `json:"net_available_qty" gorm:"default:0"`
	BufferConsumedPct float64 `json:"buffer_consumed_pct" gorm:"default:0"`
	CurrentZone       string  `json:"current_zone"`

	ConsecutiveZoneDays int        `json:"consecutive_zone_days" gorm:"default:0"`
	ZoneChangedAt       *time.Time `json:"zone_changed_at"`

	ReviewCycleID           uint       `json:"review_cycle_id"`
	AdjustmentThresholdDays int        `json:"adjustment_threshold_days" gorm:"default:5"`
	ReviewAutomation        string     `json:"review_automation" gorm:"default:Auto"`
	LastReviewDate          *time.Time `json:"last_review_date"`
	NextReviewDue           *time.Time `json:"next_review_due"`

	IsActive  bool `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

// ReviewCycle is a named periodic window governing when a buffer's next
// DBM review falls due. Dates roll forward when a review completes.
type ReviewCycle struct {
	gorm.Model
	Code          string    `json:"code" gorm:"unique"`
	Name          string    `json:"name"`
	FrequencyDays int       `json:"frequency_days" gorm:"default:7"`
	StartDay      int       `json:"start_day" gorm:"default:1"`
	EndDay        int       `json:"end_day" gorm:"default:7"`
	NextStartDate time.Time `json:"next_start_date"`
	NextEndDate   time.Time `json:"next_end_date"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}

// RollForward advances the cycle window by one frequency period.
func (rc *ReviewCycle) RollForward() {
	rc.NextStartDate = rc.NextStartDate.AddDate(0, 0, rc.FrequencyDays)
	rc.NextEndDate = rc.NextEndDate.AddDate(0, 0, rc.FrequencyDays)
}
