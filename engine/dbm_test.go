package engine

import (
	"replenish-app/config"
	"replenish-app/models"
	"testing"
	"time"
)

func dbmTestConfig() config.PlanningConfig {
	return config.PlanningConfig{
		AdjustmentStepPct:      33,
		AutoApprovalCeilingPct: 20,
		DefaultThresholdDays:   5,
	}
}

func TestReviewDue(t *testing.T) {
	now := time.Date(2026, 3, 15, 4, 0, 0, 0, time.UTC)

	buf := models.InventoryBuffer{
		CurrentZone:             models.ZoneRed,
		ConsecutiveZoneDays:     5,
		AdjustmentThresholdDays: 5,
	}
	due, trigger := ReviewDue(&buf, now)
	if !due || trigger != models.TriggerSustainedRed {
		t.Errorf("sustained red: got (%v, %s), want (true, SUSTAINED_RED)", due, trigger)
	}

	buf.CurrentZone = models.ZoneYellow
	due, trigger = ReviewDue(&buf, now)
	if !due || trigger != models.TriggerPeriodicReview {
		t.Errorf("sustained yellow: got (%v, %s), want (true, PERIODIC_REVIEW)", due, trigger)
	}

	buf.CurrentZone = models.ZoneRed
	buf.ConsecutiveZoneDays = 4
	due, _ = ReviewDue(&buf, now)
	if due {
		t.Error("red below threshold days must not be due")
	}

	past := now.Add(-time.Hour)
	buf.NextReviewDue = &past
	due, trigger = ReviewDue(&buf, now)
	if !due || trigger != models.TriggerPeriodicReview {
		t.Errorf("review date passed: got (%v, %s), want (true, PERIODIC_REVIEW)", due, trigger)
	}

	future := now.Add(24 * time.Hour)
	buf.NextReviewDue = &future
	due, _ = ReviewDue(&buf, now)
	if due {
		t.Error("future review date must not be due")
	}
}

func TestRecommendAdjustmentSustainedRed(t *testing.T) {
	cfg := dbmTestConfig()
	buf := models.InventoryBuffer{
		BufferUnits:             100,
		CurrentZone:             models.ZoneRed,
		ConsecutiveZoneDays:     5,
		AdjustmentThresholdDays: 5,
		ReviewAutomation:        models.ReviewAuto,
	}

	rec := RecommendAdjustment(&buf, models.TriggerSustainedRed, cfg)

	if !rec.HasChange {
		t.Fatal("expected a change on sustained red")
	}
	if rec.ChangePct != 33 {
		t.Errorf("change = %f, want 33", rec.ChangePct)
	}
	if rec.ProposedUnits != 133 {
		t.Errorf("proposed = %d, want 133", rec.ProposedUnits)
	}
	if !rec.RequiresApproval {
		t.Error("33% exceeds the 20% ceiling, approval required")
	}
}

func TestRecommendAdjustmentSustainedGreen(t *testing.T) {
	cfg := dbmTestConfig()
	buf := models.InventoryBuffer{
		BufferUnits:             100,
		CurrentZone:             models.ZoneGreen,
		ConsecutiveZoneDays:     7,
		AdjustmentThresholdDays: 5,
		ReviewAutomation:        models.ReviewAuto,
	}

	rec := RecommendAdjustment(&buf, models.TriggerSustainedGreen, cfg)

	if !rec.HasChange || rec.ChangePct != -33 {
		t.Fatalf("got (%v, %f), want (true, -33)", rec.HasChange, rec.ChangePct)
	}
	if rec.ProposedUnits != 67 {
		t.Errorf("proposed = %d, want 67", rec.ProposedUnits)
	}
}

func TestRecommendAdjustmentRoundsUp(t *testing.T) {
	cfg := dbmTestConfig()
	buf := models.InventoryBuffer{
		BufferUnits:             10,
		CurrentZone:             models.ZoneRed,
		ConsecutiveZoneDays:     5,
		AdjustmentThresholdDays: 5,
	}

	rec := RecommendAdjustment(&buf, models.TriggerSustainedRed, cfg)
	// ceil(10 * 1.33) = 14
	if rec.ProposedUnits != 14 {
		t.Errorf("proposed = %d, want 14", rec.ProposedUnits)
	}
}

func TestRecommendAdjustmentYellowNoChange(t *testing.T) {
	cfg := dbmTestConfig()
	buf := models.InventoryBuffer{
		BufferUnits:             100,
		CurrentZone:             models.ZoneYellow,
		ConsecutiveZoneDays:     10,
		AdjustmentThresholdDays: 5,
	}

	rec := RecommendAdjustment(&buf, models.TriggerPeriodicReview, cfg)

	if rec.HasChange {
		t.Error("yellow must never propose a size change")
	}
	if rec.ProposedUnits != 100 {
		t.Errorf("proposed = %d, want unchanged 100", rec.ProposedUnits)
	}
}

func TestRecommendAdjustmentApprovalRules(t *testing.T) {
	cfg := dbmTestConfig()
	cfg.AdjustmentStepPct = 10 // within the 20% ceiling

	buf := models.InventoryBuffer{
		BufferUnits:             100,
		CurrentZone:             models.ZoneRed,
		ConsecutiveZoneDays:     5,
		AdjustmentThresholdDays: 5,
		ReviewAutomation:        models.ReviewAuto,
	}
	rec := RecommendAdjustment(&buf, models.TriggerSustainedRed, cfg)
	if rec.RequiresApproval {
		t.Error("10% step under AUTO review must auto-approve")
	}

	buf.ReviewAutomation = models.ReviewManual
	rec = RecommendAdjustment(&buf, models.TriggerSustainedRed, cfg)
	if !rec.RequiresApproval {
		t.Error("MANUAL review always requires approval")
	}
}

func TestRecommendAdjustmentNotSustained(t *testing.T) {
	cfg := dbmTestConfig()
	buf := models.InventoryBuffer{
		BufferUnits:             100,
		CurrentZone:             models.ZoneRed,
		ConsecutiveZoneDays:     2,
		AdjustmentThresholdDays: 5,
	}

	rec := RecommendAdjustment(&buf, models.TriggerPeriodicReview, cfg)
	if rec.HasChange {
		t.Error("2 days in red is not sustained, no change expected")
	}
}

func TestCalculateRecommendationsSkipsOpenPending(t *testing.T) {
	db := newTestDB(t)
	e := &DBMReviewEngine{DB: db, Config: dbmTestConfig(), Log: config.GetLogger()}
	now := time.Date(2026, 3, 15, 4, 0, 0, 0, time.UTC)

	buf := models.InventoryBuffer{
		ProductCode:             "SKU-0001",
		LocationCode:            "DC-01",
		BufferUnits:             100,
		CurrentZone:             models.ZoneRed,
		ConsecutiveZoneDays:     5,
		AdjustmentThresholdDays: 5,
		ReviewAutomation:        models.ReviewAuto,
		IsActive:                true,
	}
	if err := db.Create(&buf).Error; err != nil {
		t.Fatalf("seed buffer: %v", err)
	}

	first, pending, err := e.CalculateRecommendations(now)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Processed != 1 || pending != 1 {
		t.Fatalf("first run: processed = %d, pending = %d, want 1 and 1",
			first.Processed, pending)
	}

	// next night the buffer is still sustained red but its proposal is
	// still awaiting a decision: no second entry, no second mail
	second, pending, err := e.CalculateRecommendations(now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Processed != 0 || second.Skipped != 1 || pending != 0 {
		t.Errorf("second run: processed = %d, skipped = %d, pending = %d, want 0, 1, 0",
			second.Processed, second.Skipped, pending)
	}

	var count int64
	db.Model(&models.BufferAdjustmentLog{}).
		Where("buffer_id = ? AND approval_status = ?", buf.ID, models.ApprovalPending).
		Count(&count)
	if count != 1 {
		t.Errorf("open adjustments = %d, want exactly 1", count)
	}
}
