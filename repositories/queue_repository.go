package repositories

import (
	"replenish-app/types"

	"gorm.io/gorm"
)

type QueueRepository struct {
	db *gorm.DB
}

func NewQueueRepository(db *gorm.DB) *QueueRepository {
	return &QueueRepository{db}
}

// QueueFilter narrows the queue listing. Zero values mean "no filter";
// MaxGap and MaxPriority use -1 for unbounded.
type QueueFilter struct {
	Zone        string
	Status      string
	MinGap      int
	MaxGap      int
	MinPriority float64
	MaxPriority float64
}

type QueueRow struct {
	ID                types.SnowflakeID `json:"id"`
	ProductCode       string            `json:"product_code"`
	ItemName          string            `json:"item_name"`
	LocationCode      string            `json:"location_code"`
	CurrentZone       string            `json:"current_zone"`
	BufferUnits       int               `json:"buffer_units"`
	NetAvailableQty   int               `json:"net_available_qty"`
	BufferGap         int               `json:"buffer_gap"`
	DaysOfSupply      float64           `json:"days_of_supply"`
	RecommendedAction string            `json:"recommended_action"`
	RecommendedQty    int               `json:"recommended_qty"`
	PriorityScore     float64           `json:"priority_score"`
	ReasonCodes       string            `json:"reason_codes"`
	Status            string            `json:"status"`
	OrderID           types.SnowflakeID `json:"order_id"`
}

// ListQueueItems returns queue rows joined with the product master,
// ordered by priority for fulfillment decisions.
func (r *QueueRepository) ListQueueItems(f QueueFilter) ([]QueueRow, error) {
	sqlQueue := `select a.id, a.product_code, coalesce(b.item_name, '') as item_name,
	a.location_code, a.current_zone, a.buffer_units, a.net_available_qty,
	a.buffer_gap, a.days_of_supply, a.recommended_action, a.recommended_qty,
	a.priority_score, a.reason_codes, a.status, a.order_id
	from replenishment_queue_items a
	left join products b on a.product_code = b.item_code
	where a.deleted_at is null`

	args := []interface{}{}

	if f.Zone != "" {
		sqlQueue += " and a.current_zone = ?"
		args = append(args, f.Zone)
	}
	if f.Status != "" {
		sqlQueue += " and a.status = ?"
		args = append(args, f.Status)
	}
	if f.MinGap > 0 {
		sqlQueue += " and a.buffer_gap >= ?"
		args = append(args, f.MinGap)
	}
	if f.MaxGap >= 0 {
		sqlQueue += " and a.buffer_gap <= ?"
		args = append(args, f.MaxGap)
	}
	if f.MinPriority > 0 {
		sqlQueue += " and a.priority_score >= ?"
		args = append(args, f.MinPriority)
	}
	if f.MaxPriority >= 0 {
		sqlQueue += " and a.priority_score <= ?"
		args = append(args, f.MaxPriority)
	}

	// Zone dominates, then the absolute gap, then urgency. The stored
	// priority_score normalizes the gap by buffer size, so it cannot be
	// the sort key here.
	sqlQueue += ` order by case a.current_zone when 'RED' then 0 when 'YELLOW' then 1 else 2 end,
	a.buffer_gap desc, a.days_of_supply asc, a.id`

	var items []QueueRow
	if err := r.db.Raw(sqlQueue, args...).Scan(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}
