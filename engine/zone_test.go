package engine

import (
	"replenish-app/models"
	"testing"
	"time"
)

func TestClassifyZone(t *testing.T) {
	tests := []struct {
		name     string
		in       ZoneInput
		wantZone string
		wantNet  int
	}{
		{
			name: "deep red",
			in: ZoneInput{CurrentInventory: 10, BufferUnits: 100,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneRed,
			wantNet:  10,
		},
		{
			name: "red boundary stays red",
			in: ZoneInput{CurrentInventory: 33, BufferUnits: 100,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneRed,
			wantNet:  33,
		},
		{
			name: "just above red boundary is yellow",
			in: ZoneInput{CurrentInventory: 34, BufferUnits: 100,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneYellow,
			wantNet:  34,
		},
		{
			name: "yellow boundary stays yellow",
			in: ZoneInput{CurrentInventory: 66, BufferUnits: 100,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneYellow,
			wantNet:  66,
		},
		{
			name: "just above yellow boundary is green",
			in: ZoneInput{CurrentInventory: 67, BufferUnits: 100,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneGreen,
			wantNet:  67,
		},
		{
			name: "availability exactly at red threshold",
			in: ZoneInput{CurrentInventory: 20, BufferUnits: 100,
				RedThresholdPct: 20, YellowThresholdPct: 30},
			wantZone: models.ZoneRed,
			wantNet:  20,
		},
		{
			name: "pipeline counts toward availability",
			in: ZoneInput{CurrentInventory: 10, InPipelineQty: 60, BufferUnits: 100,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneGreen,
			wantNet:  70,
		},
		{
			name: "allocation floors net at zero",
			in: ZoneInput{CurrentInventory: 10, AllocatedQty: 50, BufferUnits: 100,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneRed,
			wantNet:  0,
		},
		{
			name: "zero buffer units is red",
			in: ZoneInput{CurrentInventory: 10, BufferUnits: 0,
				RedThresholdPct: 33, YellowThresholdPct: 33},
			wantZone: models.ZoneRed,
			wantNet:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyZone(tt.in)
			if got.Zone != tt.wantZone {
				t.Errorf("zone = %s, want %s", got.Zone, tt.wantZone)
			}
			if got.NetAvailableQty != tt.wantNet {
				t.Errorf("net = %d, want %d", got.NetAvailableQty, tt.wantNet)
			}
		})
	}
}

func TestClassifyZoneIdempotent(t *testing.T) {
	in := ZoneInput{CurrentInventory: 20, InPipelineQty: 5, AllocatedQty: 3,
		BufferUnits: 60, RedThresholdPct: 33, YellowThresholdPct: 33}

	first := ClassifyZone(in)
	for i := 0; i < 10; i++ {
		if got := ClassifyZone(in); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestClassifyZoneConsumedClamped(t *testing.T) {
	// overfilled buffer: availability above 100 must not go negative
	got := ClassifyZone(ZoneInput{CurrentInventory: 150, BufferUnits: 100,
		RedThresholdPct: 33, YellowThresholdPct: 33})
	if got.BufferConsumedPct != 0 {
		t.Errorf("consumed = %f, want 0", got.BufferConsumedPct)
	}

	got = ClassifyZone(ZoneInput{CurrentInventory: 0, BufferUnits: 100,
		RedThresholdPct: 33, YellowThresholdPct: 33})
	if got.BufferConsumedPct != 100 {
		t.Errorf("consumed = %f, want 100", got.BufferConsumedPct)
	}
}

func TestNextZoneDays(t *testing.T) {
	days, changed := NextZoneDays(models.ZoneRed, 3, models.ZoneRed)
	if days != 4 || changed {
		t.Errorf("hold: got (%d, %v), want (4, false)", days, changed)
	}

	days, changed = NextZoneDays(models.ZoneRed, 3, models.ZoneYellow)
	if days != 1 || !changed {
		t.Errorf("transition: got (%d, %v), want (1, true)", days, changed)
	}

	days, changed = NextZoneDays("", 0, models.ZoneGreen)
	if days != 1 || !changed {
		t.Errorf("first observation: got (%d, %v), want (1, true)", days, changed)
	}
}

func TestApplyZoneResult(t *testing.T) {
	now := time.Now()
	buf := models.InventoryBuffer{CurrentZone: models.ZoneYellow, ConsecutiveZoneDays: 2}

	ApplyZoneResult(&buf, ZoneResult{NetAvailableQty: 10, BufferConsumedPct: 90, Zone: models.ZoneRed}, now)
	if buf.CurrentZone != models.ZoneRed {
		t.Errorf("zone = %s, want RED", buf.CurrentZone)
	}
	if buf.ConsecutiveZoneDays != 1 {
		t.Errorf("days = %d, want 1", buf.ConsecutiveZoneDays)
	}
	if buf.ZoneChangedAt == nil || !buf.ZoneChangedAt.Equal(now) {
		t.Errorf("ZoneChangedAt not stamped on transition")
	}

	later := now.Add(24 * time.Hour)
	ApplyZoneResult(&buf, ZoneResult{NetAvailableQty: 12, BufferConsumedPct: 88, Zone: models.ZoneRed}, later)
	if buf.ConsecutiveZoneDays != 2 {
		t.Errorf("days = %d, want 2", buf.ConsecutiveZoneDays)
	}
	if !buf.ZoneChangedAt.Equal(now) {
		t.Errorf("ZoneChangedAt moved without a transition")
	}
}
