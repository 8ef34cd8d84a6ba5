package repositories

import (
	"time"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db}
}

type zoneCount struct {
	CurrentZone string `json:"current_zone"`
	Total       int    `json:"total"`
}

type DashboardSummary struct {
	ZoneCounts       []zoneCount `json:"zone_counts"`
	ActiveBuffers    int         `json:"active_buffers"`
	PendingQueue     int         `json:"pending_queue"`
	PendingApprovals int         `json:"pending_approvals"`
	DraftOrders      int         `json:"draft_orders"`
	StaleProfiles    int         `json:"stale_profiles"`
}

// GetSummary aggregates the planner's daily overview.
func (r *DashboardRepository) GetSummary(staleCutoff time.Time) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	sqlZones := `select current_zone, count(*) as total
	from inventory_buffers
	where is_active = ? and deleted_at is null
	group by current_zone`

	if err := r.db.Raw(sqlZones, true).Scan(&summary.ZoneCounts).Error; err != nil {
		return nil, err
	}
	for _, z := range summary.ZoneCounts {
		summary.ActiveBuffers += z.Total
	}

	counts := []struct {
		sql  string
		args []interface{}
		dest *int
	}{
		{`select count(*) from replenishment_queue_items where status = ? and deleted_at is null`,
			[]interface{}{"PENDING"}, &summary.PendingQueue},
		{`select count(*) from buffer_adjustment_logs where approval_status = ? and deleted_at is null`,
			[]interface{}{"PENDING"}, &summary.PendingApprovals},
		{`select count(*) from inventory_order_pipelines where status = ? and deleted_at is null`,
			[]interface{}{"DRAFT"}, &summary.DraftOrders},
		{`select count(*) from consumption_profiles where calculation_date < ? and deleted_at is null`,
			[]interface{}{staleCutoff}, &summary.StaleProfiles},
	}

	for _, c := range counts {
		if err := r.db.Raw(c.sql, c.args...).Scan(c.dest).Error; err != nil {
			return nil, err
		}
	}

	return summary, nil
}
