package models

import (
	"replenish-app/types"
	"time"

	"gorm.io/gorm"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

const (
	TriggerSustainedRed   = "SUSTAINED_RED"
	TriggerSustainedGreen = "SUSTAINED_GREEN"
	TriggerPeriodicReview = "PERIODIC_REVIEW"
	TriggerManualReview   = "MANUAL_REVIEW"
)

// BufferAdjustmentLog is the append-only audit trail of DBM buffer-size
// changes. APPROVED and REJECTED are terminal.
type BufferAdjustmentLog struct {
	gorm.Model
	ID                  types.SnowflakeID `json:"id" gorm:"primaryKey"`
	BufferID            uint              `json:"buffer_id" gorm:"index"`
	ProductCode         string            `json:"product_code"`
	LocationCode        string            `json:"location_code"`
	CurrentBufferUnits  int               `json:"current_buffer_units"`
	ProposedBufferUnits int               `json:"proposed_buffer_units"`
	FinalBufferUnits    int               `json:"final_buffer_units" gorm:"default:0"`
	ChangePct           float64           `json:"change_pct"`
	TriggerReason       string            `json:"trigger_reason"`
	ZoneAtTrigger       string            `json:"zone_at_trigger"`
	ConsecutiveZoneDays int               `json:"consecutive_zone_days"`
	SystemRecommended   bool              `json:"system_recommended" gorm:"default:true"`
	RequiresApproval    bool              `json:"requires_approval" gorm:"default:false"`
	ApprovalStatus      string            `json:"approval_status" gorm:"default:PENDING;index"`
	ApprovedBy          string            `json:"approved_by"`
	ApprovedAt          *time.Time        `json:"approved_at"`
	RejectReason        string            `json:"reject_reason"`
}
