package engine

import (
	"math"
	"replenish-app/config"
	"replenish-app/models"
	"testing"
	"time"
)

func profileTestConfig() config.PlanningConfig {
	return config.PlanningConfig{
		TrendThresholdPct: 10,
		MinDataPoints:     7,
	}
}

var profileAsOf = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// logsAt builds one log per age (days before asOf) with the given qty.
func logsAt(qty int, ages ...int) []DailyQty {
	logs := make([]DailyQty, 0, len(ages))
	day := truncateDay(profileAsOf)
	for _, age := range ages {
		logs = append(logs, DailyQty{Date: day.AddDate(0, 0, -age), Qty: qty})
	}
	return logs
}

func agesRange(from, to int) []int {
	ages := make([]int, 0, to-from+1)
	for a := from; a <= to; a++ {
		ages = append(ages, a)
	}
	return ages
}

func TestComputeProfileStatsUniform(t *testing.T) {
	logs := logsAt(5, agesRange(0, 29)...)

	got := ComputeProfileStats(logs, profileAsOf, profileTestConfig())

	if got.Adc7 != 5 || got.Adc14 != 5 || got.Adc30 != 5 {
		t.Errorf("adc = %f/%f/%f, want 5/5/5", got.Adc7, got.Adc14, got.Adc30)
	}
	if got.Adc60 != 2.5 {
		t.Errorf("adc60 = %f, want 2.5", got.Adc60)
	}
	if got.AdcNormalized != 5 {
		t.Errorf("normalized = %f, want 5", got.AdcNormalized)
	}
	if got.StdDev != 0 || got.CoefVariation != 0 {
		t.Errorf("stddev/cv = %f/%f, want 0/0", got.StdDev, got.CoefVariation)
	}
	if got.Trend != models.TrendStable {
		t.Errorf("trend = %s, want STABLE", got.Trend)
	}
	if got.TrendConfidence != 1 {
		t.Errorf("confidence = %f, want 1", got.TrendConfidence)
	}
	if got.DataPoints != 30 || got.Partial {
		t.Errorf("points = %d partial = %v, want 30 false", got.DataPoints, got.Partial)
	}
}

func TestComputeProfileStatsTrendIncreasing(t *testing.T) {
	logs := append(logsAt(10, agesRange(0, 6)...), logsAt(1, agesRange(7, 29)...)...)

	got := ComputeProfileStats(logs, profileAsOf, profileTestConfig())

	if got.Adc7 != 10 {
		t.Errorf("adc7 = %f, want 10", got.Adc7)
	}
	if got.Trend != models.TrendIncreasing {
		t.Errorf("trend = %s, want INCREASING", got.Trend)
	}
}

func TestComputeProfileStatsTrendDecreasing(t *testing.T) {
	// consumption stopped a week ago
	logs := logsAt(10, agesRange(7, 29)...)

	got := ComputeProfileStats(logs, profileAsOf, profileTestConfig())

	if got.Adc7 != 0 {
		t.Errorf("adc7 = %f, want 0", got.Adc7)
	}
	if got.Trend != models.TrendDecreasing {
		t.Errorf("trend = %s, want DECREASING", got.Trend)
	}
}

func TestComputeProfileStatsPartial(t *testing.T) {
	logs := logsAt(4, 0, 1, 2)

	got := ComputeProfileStats(logs, profileAsOf, profileTestConfig())

	if !got.Partial {
		t.Error("expected partial profile with 3 data points")
	}
	if got.DataPoints != 3 {
		t.Errorf("points = %d, want 3", got.DataPoints)
	}
	if want := 12.0 / 7; math.Abs(got.Adc7-want) > 1e-9 {
		t.Errorf("adc7 = %f, want %f", got.Adc7, want)
	}
}

func TestComputeProfileStatsWindowBounds(t *testing.T) {
	day := truncateDay(profileAsOf)
	logs := []DailyQty{
		{Date: day.AddDate(0, 0, -60), Qty: 100}, // past the 60-day window
		{Date: day.AddDate(0, 0, 1), Qty: 100},   // future-dated
		{Date: day, Qty: 7},
	}

	got := ComputeProfileStats(logs, profileAsOf, profileTestConfig())

	if got.DataPoints != 1 {
		t.Errorf("points = %d, want 1", got.DataPoints)
	}
	if got.Adc7 != 1 {
		t.Errorf("adc7 = %f, want 1", got.Adc7)
	}
	if !got.LastConsumption.Equal(day) {
		t.Errorf("last consumption = %v, want %v", got.LastConsumption, day)
	}
}

func TestComputeProfileStatsVariability(t *testing.T) {
	// alternating 0/10 over 30 days: mean 5, stddev 5, cv 1
	ages := agesRange(0, 29)
	logs := make([]DailyQty, 0, 15)
	day := truncateDay(profileAsOf)
	for _, age := range ages {
		if age%2 == 0 {
			logs = append(logs, DailyQty{Date: day.AddDate(0, 0, -age), Qty: 10})
		}
	}

	got := ComputeProfileStats(logs, profileAsOf, profileTestConfig())

	if got.Adc30 != 5 {
		t.Fatalf("adc30 = %f, want 5", got.Adc30)
	}
	if math.Abs(got.StdDev-5) > 1e-9 {
		t.Errorf("stddev = %f, want 5", got.StdDev)
	}
	if math.Abs(got.CoefVariation-1) > 1e-9 {
		t.Errorf("cv = %f, want 1", got.CoefVariation)
	}
}
