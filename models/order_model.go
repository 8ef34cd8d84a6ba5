package models

import (
	"replenish-app/types"
	"time"

	"gorm.io/gorm"
)

const (
	OrderDraft     = "DRAFT"
	OrderProcessed = "PROCESSED"
	OrderReceived  = "RECEIVED"
	OrderFailed    = "FAILED"
)

// InventoryOrderPipeline is a drafted or placed replenishment order,
// linked back to the queue item it was created from.
type InventoryOrderPipeline struct {
	gorm.Model
	ID           types.SnowflakeID `json:"id" gorm:"primaryKey"`
	OrderNo      string            `json:"order_no" gorm:"unique"`
	QueueItemID  types.SnowflakeID `json:"queue_item_id" gorm:"index"`
	BufferID     uint              `json:"buffer_id" gorm:"index"`
	ProductCode  string            `json:"product_code"`
	LocationCode string            `json:"location_code"`
	SupplierCode string            `json:"supplier_code"`

	OrderedQty  int `json:"ordered_qty" gorm:"default:0"`
	ReceivedQty int `json:"received_qty" gorm:"default:0"`
	PendingQty  int `json:"pending_qty" gorm:"default:0"`

	Status     string     `json:"status" gorm:"default:DRAFT;index"`
	ApprovedBy int        `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`
	ReceivedAt *time.Time `json:"received_at"`
	CreatedBy  int
	UpdatedBy  int
}

// ReplenishmentOverrideLog records a human override of the system
// recommendation at order-creation time.
type ReplenishmentOverrideLog struct {
	gorm.Model
	QueueItemID   types.SnowflakeID `json:"queue_item_id" gorm:"index"`
	OrderID       types.SnowflakeID `json:"order_id"`
	ProductCode   string            `json:"product_code"`
	LocationCode  string            `json:"location_code"`
	OriginalQty   int               `json:"original_qty"`
	OverriddenQty int               `json:"overridden_qty"`
	Reason        string            `json:"reason"`
	ApprovedBy    int               `json:"approved_by"`
}
