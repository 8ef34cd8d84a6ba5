package models

import (
	"replenish-app/types"

	"gorm.io/gorm"
)

const (
	QueuePending   = "PENDING"
	QueueProcessed = "PROCESSED"
	QueueCancelled = "CANCELLED"
)

const (
	ActionExpedite  = "EXPEDITE"
	ActionReplenish = "REPLENISH"
	ActionHold      = "HOLD"
)

const (
	ReasonZoneRed        = "ZONE_RED"
	ReasonZoneYellow     = "ZONE_YELLOW"
	ReasonBelowLeadTime  = "DOS_BELOW_LEAD_TIME"
	ReasonStaleData      = "STALE_CONSUMPTION_DATA"
	ReasonSeasonality    = "SEASONALITY_ADJUSTED"
	ReasonSpecialEvent   = "SPECIAL_EVENT_ADJUSTED"
	ReasonSuperseded     = "SUPERSEDED"
	ReasonManualCancel   = "MANUAL_CANCEL"
	ReasonOrderCancelled = "ORDER_CANCELLED"
)

// ReplenishmentQueueItem is one generation cycle's recommendation for a
// product/location, a snapshot of the buffer state it was computed from.
type ReplenishmentQueueItem struct {
	gorm.Model
	ID           types.SnowflakeID `json:"id" gorm:"primaryKey"`
	RunID        string            `json:"run_id" gorm:"index"`
	BufferID     uint              `json:"buffer_id" gorm:"index"`
	ProductCode  string            `json:"product_code"`
	LocationCode string            `json:"location_code"`

	CurrentZone      string  `json:"current_zone"`
	BufferUnits      int     `json:"buffer_units"`
	CurrentInventory int     `json:"current_inventory"`
	InPipelineQty    int     `json:"in_pipeline_qty"`
	NetAvailableQty  int     `json:"net_available_qty"`
	BufferGap        int     `json:"buffer_gap"`
	AdcUsed          float64 `json:"adc_used"`
	DaysOfSupply     float64 `json:"days_of_supply"`

	RecommendedAction string  `json:"recommended_action"`
	RecommendedQty    int     `json:"recommended_qty"`
	PriorityScore     float64 `json:"priority_score"`
	ReasonCodes       string  `json:"reason_codes"`

	Status  string            `json:"status" gorm:"default:PENDING;index"`
	OrderID types.SnowflakeID `json:"order_id" gorm:"default:null"`
}
