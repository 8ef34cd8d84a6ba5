package engine

import (
	"replenish-app/models"
	"time"
)

// ZoneInput is the buffer state the classifier reads. Thresholds are
// availability boundaries counted from the bottom: at or below
// red_threshold is RED, at or below red+yellow is YELLOW, everything
// above is GREEN.
type ZoneInput struct {
	CurrentInventory   int
	InPipelineQty      int
	AllocatedQty       int
	BufferUnits        int
	RedThresholdPct    float64
	YellowThresholdPct float64
}

type ZoneResult struct {
	NetAvailableQty   int     `json:"net_available_qty"`
	AvailabilityPct   float64 `json:"availability_pct"`
	BufferConsumedPct float64 `json:"buffer_consumed_pct"`
	Zone              string  `json:"zone"`
}

// ClassifyZone is pure and idempotent: unchanged inputs always yield
// the same zone.
func ClassifyZone(in ZoneInput) ZoneResult {
	net := in.CurrentInventory + in.InPipelineQty - in.AllocatedQty
	if net < 0 {
		net = 0
	}

	var availabilityPct float64
	if in.BufferUnits > 0 {
		availabilityPct = float64(net) / float64(in.BufferUnits) * 100
	}

	zone := models.ZoneGreen
	switch {
	case availabilityPct <= in.RedThresholdPct:
		zone = models.ZoneRed
	case availabilityPct <= in.RedThresholdPct+in.YellowThresholdPct:
		zone = models.ZoneYellow
	}

	consumed := 100 - availabilityPct
	if consumed < 0 {
		consumed = 0
	}
	if consumed > 100 {
		consumed = 100
	}

	return ZoneResult{
		NetAvailableQty:   net,
		AvailabilityPct:   availabilityPct,
		BufferConsumedPct: consumed,
		Zone:              zone,
	}
}

// NextZoneDays advances the consecutive-zone-day counter: +1 while the
// zone holds, reset to 1 on a transition. The bool reports a transition.
func NextZoneDays(prevZone string, prevDays int, newZone string) (int, bool) {
	if newZone == prevZone && prevDays > 0 {
		return prevDays + 1, false
	}
	return 1, true
}

// ApplyZoneResult writes the derived fields and the day counter onto the
// buffer aggregate. Callers hold the buffer lock.
func ApplyZoneResult(buf *models.InventoryBuffer, res ZoneResult, now time.Time) {
	days, changed := NextZoneDays(buf.CurrentZone, buf.ConsecutiveZoneDays, res.Zone)

	buf.NetAvailableQty = res.NetAvailableQty
	buf.BufferConsumedPct = res.BufferConsumedPct
	buf.CurrentZone = res.Zone
	buf.ConsecutiveZoneDays = days
	if changed {
		buf.ZoneChangedAt = &now
	}
}
