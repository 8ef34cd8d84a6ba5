package engine

import (
	"replenish-app/models"
	"replenish-app/types"
	"testing"
)

func TestPriorityScoreZoneDominates(t *testing.T) {
	// the worst red outranks the best yellow, the worst yellow the best green
	worstRed := PriorityScore(models.ZoneRed, 0, 100, MaxDaysOfSupply)
	bestYellow := PriorityScore(models.ZoneYellow, 100, 100, 0)
	if worstRed <= bestYellow {
		t.Errorf("red %f must outrank yellow %f", worstRed, bestYellow)
	}

	worstYellow := PriorityScore(models.ZoneYellow, 0, 100, MaxDaysOfSupply)
	bestGreen := PriorityScore(models.ZoneGreen, 100, 100, 0)
	if worstYellow <= bestGreen {
		t.Errorf("yellow %f must outrank green %f", worstYellow, bestGreen)
	}
}

func TestPriorityScoreGapAndSupply(t *testing.T) {
	smallGap := PriorityScore(models.ZoneRed, 20, 100, 5)
	bigGap := PriorityScore(models.ZoneRed, 80, 100, 5)
	if bigGap <= smallGap {
		t.Errorf("bigger gap must score higher: %f vs %f", bigGap, smallGap)
	}

	lowSupply := PriorityScore(models.ZoneRed, 50, 100, 1)
	highSupply := PriorityScore(models.ZoneRed, 50, 100, 30)
	if lowSupply <= highSupply {
		t.Errorf("fewer days of supply must score higher: %f vs %f", lowSupply, highSupply)
	}
}

func TestPriorityScoreGapTermCapped(t *testing.T) {
	// gap beyond the buffer size cannot push a score into the next zone band
	capped := PriorityScore(models.ZoneYellow, 500, 100, 0)
	floor := PriorityScore(models.ZoneRed, 0, 100, MaxDaysOfSupply)
	if capped >= floor {
		t.Errorf("capped yellow %f must stay below red floor %f", capped, floor)
	}
}

func TestPriorityScoreDeterministic(t *testing.T) {
	first := PriorityScore(models.ZoneRed, 42, 90, 3.5)
	for i := 0; i < 10; i++ {
		if got := PriorityScore(models.ZoneRed, 42, 90, 3.5); got != first {
			t.Fatalf("run %d: got %f, want %f", i, got, first)
		}
	}
}

func TestRecommendAction(t *testing.T) {
	tests := []struct {
		name string
		zone string
		dos  float64
		lead int
		gap  int
		want string
	}{
		{"red below lead time", models.ZoneRed, 2, 5, 80, models.ActionExpedite},
		{"red with cover", models.ZoneRed, 7, 5, 80, models.ActionReplenish},
		{"yellow with gap", models.ZoneYellow, 2, 5, 40, models.ActionReplenish},
		{"green without gap", models.ZoneGreen, 30, 5, 0, models.ActionHold},
		{"overfilled", models.ZoneGreen, 30, 5, -10, models.ActionHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecommendAction(tt.zone, tt.dos, tt.lead, tt.gap); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSortQueueItems(t *testing.T) {
	items := []models.ReplenishmentQueueItem{
		{ID: types.SnowflakeID(1), CurrentZone: models.ZoneGreen, BufferGap: 90, DaysOfSupply: 1},
		{ID: types.SnowflakeID(2), CurrentZone: models.ZoneRed, BufferGap: 10, DaysOfSupply: 9},
		{ID: types.SnowflakeID(3), CurrentZone: models.ZoneYellow, BufferGap: 50, DaysOfSupply: 3},
		{ID: types.SnowflakeID(4), CurrentZone: models.ZoneRed, BufferGap: 60, DaysOfSupply: 2},
		{ID: types.SnowflakeID(5), CurrentZone: models.ZoneRed, BufferGap: 60, DaysOfSupply: 1},
	}

	SortQueueItems(items)

	wantOrder := []types.SnowflakeID{5, 4, 2, 3, 1}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, items[i].ID, want)
		}
	}
}

func TestSortQueueItemsIDTiebreak(t *testing.T) {
	items := []models.ReplenishmentQueueItem{
		{ID: types.SnowflakeID(9), CurrentZone: models.ZoneRed, BufferGap: 60, DaysOfSupply: 2},
		{ID: types.SnowflakeID(3), CurrentZone: models.ZoneRed, BufferGap: 60, DaysOfSupply: 2},
	}

	SortQueueItems(items)

	if items[0].ID != 3 || items[1].ID != 9 {
		t.Errorf("tie must break by id: got %d, %d", items[0].ID, items[1].ID)
	}
}
