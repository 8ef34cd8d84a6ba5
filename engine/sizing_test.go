package engine

import (
	"replenish-app/config"
	"replenish-app/models"
	"testing"
)

func sizingTestConfig() config.PlanningConfig {
	return config.PlanningConfig{
		MinDataPoints:      7,
		SafetyFactorMinPct: 0,
		SafetyFactorMaxPct: 100,
	}
}

func TestCalculateBufferSize(t *testing.T) {
	cfg := sizingTestConfig()

	got := CalculateBufferSize(SizingInput{
		AdcSelected: 10, HasAdc: true,
		LeadTimeDays: 5, HasLeadTime: true,
		SafetyFactorPct: 20, DataPoints: 30,
	}, cfg)

	if got.Status != CalcSuccess {
		t.Fatalf("status = %s, want SUCCESS", got.Status)
	}
	if got.BaseBufferUnits != 50 {
		t.Errorf("base = %d, want 50", got.BaseBufferUnits)
	}
	if got.SafetyBufferUnits != 10 {
		t.Errorf("safety = %d, want 10", got.SafetyBufferUnits)
	}
	if got.FinalQuantity != 60 {
		t.Errorf("final = %d, want 60", got.FinalQuantity)
	}
}

func TestCalculateBufferSizeRoundsUp(t *testing.T) {
	got := CalculateBufferSize(SizingInput{
		AdcSelected: 3.2, HasAdc: true,
		LeadTimeDays: 3, HasLeadTime: true,
		SafetyFactorPct: 10, DataPoints: 30,
	}, sizingTestConfig())

	// ceil(9.6) = 10, ceil(10 * 0.1) = 1
	if got.BaseBufferUnits != 10 || got.SafetyBufferUnits != 1 || got.FinalQuantity != 11 {
		t.Errorf("got %d/%d/%d, want 10/1/11",
			got.BaseBufferUnits, got.SafetyBufferUnits, got.FinalQuantity)
	}
}

func TestCalculateBufferSizeMissingInputs(t *testing.T) {
	cfg := sizingTestConfig()

	got := CalculateBufferSize(SizingInput{AdcSelected: 10, HasAdc: true}, cfg)
	if got.Status != CalcError {
		t.Errorf("missing lead time: status = %s, want ERROR", got.Status)
	}
	if got.FinalQuantity != 0 {
		t.Errorf("missing lead time: final = %d, want 0", got.FinalQuantity)
	}

	got = CalculateBufferSize(SizingInput{LeadTimeDays: 5, HasLeadTime: true}, cfg)
	if got.Status != CalcError {
		t.Errorf("missing adc: status = %s, want ERROR", got.Status)
	}
}

func TestCalculateBufferSizePartialData(t *testing.T) {
	got := CalculateBufferSize(SizingInput{
		AdcSelected: 10, HasAdc: true,
		LeadTimeDays: 5, HasLeadTime: true,
		SafetyFactorPct: 20, DataPoints: 3,
	}, sizingTestConfig())

	if got.Status != CalcPartialData {
		t.Fatalf("status = %s, want PARTIAL_DATA", got.Status)
	}
	// the numbers are still produced, only flagged
	if got.FinalQuantity != 60 {
		t.Errorf("final = %d, want 60", got.FinalQuantity)
	}
}

func TestCalculateBufferSizeClampsFactor(t *testing.T) {
	cfg := sizingTestConfig()
	cfg.SafetyFactorMaxPct = 50

	got := CalculateBufferSize(SizingInput{
		AdcSelected: 10, HasAdc: true,
		LeadTimeDays: 5, HasLeadTime: true,
		SafetyFactorPct: 80, DataPoints: 30,
	}, cfg)

	if got.SafetyFactorPct != 50 {
		t.Errorf("factor = %f, want clamped 50", got.SafetyFactorPct)
	}
	if got.SafetyBufferUnits != 25 {
		t.Errorf("safety = %d, want 25", got.SafetyBufferUnits)
	}
}

func TestSelectAdc(t *testing.T) {
	profile := &models.ConsumptionProfile{Adc7: 7, Adc14: 14, Adc30: 30}

	tests := []struct {
		window string
		want   float64
	}{
		{models.AdcWindow7, 7},
		{models.AdcWindow14, 14},
		{models.AdcWindow30, 30},
	}
	for _, tt := range tests {
		got, err := SelectAdc(profile, tt.window)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.window, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %f, want %f", tt.window, got, tt.want)
		}
	}

	if _, err := SelectAdc(profile, "60adc"); err == nil {
		t.Error("invalid window: expected error")
	}
	if _, err := SelectAdc(nil, models.AdcWindow7); err == nil {
		t.Error("nil profile: expected error")
	}
}
