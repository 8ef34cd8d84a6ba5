package engine

import (
	"errors"
	"fmt"
	"math"
	"replenish-app/config"
	"replenish-app/controllers/idgen"
	"replenish-app/models"
	"replenish-app/types"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Recommendation is the pure outcome of one buffer review.
type Recommendation struct {
	HasChange        bool    `json:"has_change"`
	ProposedUnits    int     `json:"proposed_units"`
	ChangePct        float64 `json:"change_pct"`
	TriggerReason    string  `json:"trigger_reason"`
	RequiresApproval bool    `json:"requires_approval"`
}

// ReviewDue reports whether a buffer must be reviewed now: either the
// periodic date arrived or the buffer sat in RED or YELLOW for the
// configured number of consecutive days.
func ReviewDue(buf *models.InventoryBuffer, now time.Time) (bool, string) {
	thresholdDays := buf.AdjustmentThresholdDays
	if thresholdDays <= 0 {
		thresholdDays = config.Planning.DefaultThresholdDays
	}

	if buf.ConsecutiveZoneDays >= thresholdDays &&
		(buf.CurrentZone == models.ZoneRed || buf.CurrentZone == models.ZoneYellow) {
		if buf.CurrentZone == models.ZoneRed {
			return true, models.TriggerSustainedRed
		}
		return true, models.TriggerPeriodicReview
	}

	if buf.NextReviewDue != nil && !now.Before(*buf.NextReviewDue) {
		return true, models.TriggerPeriodicReview
	}

	return false, ""
}

// RecommendAdjustment applies the DBM step rule: sustained RED grows
// the buffer by the step percentage, sustained GREEN shrinks it, YELLOW
// is monitoring only.
func RecommendAdjustment(buf *models.InventoryBuffer, trigger string, cfg config.PlanningConfig) Recommendation {
	rec := Recommendation{TriggerReason: trigger}

	thresholdDays := buf.AdjustmentThresholdDays
	if thresholdDays <= 0 {
		thresholdDays = cfg.DefaultThresholdDays
	}

	step := cfg.AdjustmentStepPct
	switch {
	case buf.CurrentZone == models.ZoneRed && buf.ConsecutiveZoneDays >= thresholdDays:
		rec.HasChange = true
		rec.ChangePct = step
		rec.TriggerReason = models.TriggerSustainedRed
	case buf.CurrentZone == models.ZoneGreen && buf.ConsecutiveZoneDays >= thresholdDays:
		rec.HasChange = true
		rec.ChangePct = -step
		rec.TriggerReason = models.TriggerSustainedGreen
	default:
		// YELLOW, or a zone not yet sustained: no automatic change
		rec.ProposedUnits = buf.BufferUnits
		return rec
	}

	rec.ProposedUnits = int(math.Ceil(float64(buf.BufferUnits) * (100 + rec.ChangePct) / 100))
	if rec.ProposedUnits < 0 {
		rec.ProposedUnits = 0
	}
	rec.RequiresApproval = math.Abs(rec.ChangePct) > cfg.AutoApprovalCeilingPct ||
		buf.ReviewAutomation == models.ReviewManual

	return rec
}

// DBMReviewEngine maintains buffer sizes: it turns sustained zone
// states into adjustment proposals and runs the approval workflow.
type DBMReviewEngine struct {
	DB     *gorm.DB
	Config config.PlanningConfig
	Log    *logrus.Logger
}

func NewDBMReviewEngine(db *gorm.DB) *DBMReviewEngine {
	return &DBMReviewEngine{DB: db, Config: config.Planning, Log: config.GetLogger()}
}

// ListDueBuffers returns the active buffers whose review is due now.
func (e *DBMReviewEngine) ListDueBuffers(now time.Time) ([]models.InventoryBuffer, error) {
	var buffers []models.InventoryBuffer
	if err := e.DB.Where("is_active = ?", true).Find(&buffers).Error; err != nil {
		return nil, err
	}

	due := buffers[:0]
	for _, buf := range buffers {
		if ok, _ := ReviewDue(&buf, now); ok {
			due = append(due, buf)
		}
	}
	return due, nil
}

// CalculateRecommendations reviews every due buffer. A failing buffer
// is recorded and skipped; the batch always completes. Returns the
// number of adjustments left PENDING for approval.
func (e *DBMReviewEngine) CalculateRecommendations(now time.Time) (*BatchResult, int, error) {
	due, err := e.ListDueBuffers(now)
	if err != nil {
		return nil, 0, err
	}

	result := &BatchResult{}
	pending := 0
	for i := range due {
		buf := due[i]
		key := buf.ProductCode + "/" + buf.LocationCode
		_, trigger := ReviewDue(&buf, now)

		logEntry, err := e.ReviewBuffer(buf.ID, trigger, now)
		if err != nil {
			config.LogError(e.Log, "dbm", "CalculateRecommendations", key, nil, err)
			result.AddError(key, err)
			continue
		}
		if logEntry == nil {
			result.AddSkip()
			continue
		}
		if logEntry.ApprovalStatus == models.ApprovalPending {
			pending++
		}
		result.AddSuccess()
	}

	e.Log.WithFields(logrus.Fields{
		"module":   "dbm",
		"reviewed": result.Processed,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
		"pending":  pending,
	}).Info("DBM review run finished")

	return result, pending, nil
}

// ReviewBuffer reviews a single buffer and persists the recommendation.
// Within the auto-approval ceiling the change is applied immediately;
// otherwise the log entry stays PENDING. A review with no recommended
// change advances the review dates and returns nil unless it was
// explicitly requested, in which case a zero-change monitoring entry is
// written. A buffer that already has an open PENDING adjustment is
// skipped until an approver decides it.
func (e *DBMReviewEngine) ReviewBuffer(bufferID uint, trigger string, now time.Time) (*models.BufferAdjustmentLog, error) {
	unlock := LockBuffer(bufferID)
	defer unlock()

	var buf models.InventoryBuffer
	if err := e.DB.First(&buf, bufferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "buffer", Key: fmt.Sprint(bufferID)}
		}
		return nil, err
	}

	var openPending int64
	if err := e.DB.Model(&models.BufferAdjustmentLog{}).
		Where("buffer_id = ? AND approval_status = ?", buf.ID, models.ApprovalPending).
		Count(&openPending).Error; err != nil {
		return nil, err
	}
	if openPending > 0 {
		return nil, nil
	}

	rec := RecommendAdjustment(&buf, trigger, e.Config)

	if !rec.HasChange {
		if trigger != models.TriggerManualReview {
			if err := e.advanceReviewDates(&buf, now); err != nil {
				return nil, err
			}
			return nil, nil
		}
		// explicit review of a buffer with nothing to change: keep the
		// monitoring trail
		rec.ProposedUnits = buf.BufferUnits
	}

	logEntry := models.BufferAdjustmentLog{
		ID:                  types.SnowflakeID(idgen.GenerateID()),
		BufferID:            buf.ID,
		ProductCode:         buf.ProductCode,
		LocationCode:        buf.LocationCode,
		CurrentBufferUnits:  buf.BufferUnits,
		ProposedBufferUnits: rec.ProposedUnits,
		ChangePct:           rec.ChangePct,
		TriggerReason:       rec.TriggerReason,
		ZoneAtTrigger:       buf.CurrentZone,
		ConsecutiveZoneDays: buf.ConsecutiveZoneDays,
		SystemRecommended:   true,
		RequiresApproval:    rec.RequiresApproval,
		ApprovalStatus:      models.ApprovalPending,
	}

	if rec.HasChange && !rec.RequiresApproval {
		// auto-apply
		logEntry.ApprovalStatus = models.ApprovalApproved
		logEntry.FinalBufferUnits = rec.ProposedUnits
		logEntry.ApprovedBy = "system"
		logEntry.ApprovedAt = &now

		if err := e.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&logEntry).Error; err != nil {
				return err
			}
			return e.applyToBuffer(tx, &buf, rec.ProposedUnits, now)
		}); err != nil {
			return nil, err
		}
		return &logEntry, nil
	}

	if err := e.DB.Create(&logEntry).Error; err != nil {
		return nil, err
	}
	return &logEntry, nil
}

// Approve closes a PENDING adjustment and applies the final size to the
// buffer. finalUnits == 0 accepts the proposed quantity.
func (e *DBMReviewEngine) Approve(logID types.SnowflakeID, finalUnits int, approver string, now time.Time) (*models.BufferAdjustmentLog, error) {
	if finalUnits < 0 {
		return nil, &ValidationError{Field: "final_buffer_units", Reason: "must not be negative"}
	}

	var logEntry models.BufferAdjustmentLog
	if err := e.DB.First(&logEntry, "id = ?", logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "adjustment", Key: fmt.Sprint(logID)}
		}
		return nil, err
	}
	if logEntry.ApprovalStatus != models.ApprovalPending {
		return nil, &ConflictError{Entity: "adjustment", Key: fmt.Sprint(logID),
			Reason: "already " + logEntry.ApprovalStatus}
	}

	if finalUnits == 0 {
		finalUnits = logEntry.ProposedBufferUnits
	}

	unlock := LockBuffer(logEntry.BufferID)
	defer unlock()

	var buf models.InventoryBuffer
	if err := e.DB.First(&buf, logEntry.BufferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "buffer", Key: fmt.Sprint(logEntry.BufferID)}
		}
		return nil, err
	}

	logEntry.ApprovalStatus = models.ApprovalApproved
	logEntry.FinalBufferUnits = finalUnits
	logEntry.ApprovedBy = approver
	logEntry.ApprovedAt = &now

	if err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&logEntry).Error; err != nil {
			return err
		}
		return e.applyToBuffer(tx, &buf, finalUnits, now)
	}); err != nil {
		return nil, err
	}

	return &logEntry, nil
}

// Reject closes a PENDING adjustment without touching the buffer.
func (e *DBMReviewEngine) Reject(logID types.SnowflakeID, reason, approver string, now time.Time) (*models.BufferAdjustmentLog, error) {
	var logEntry models.BufferAdjustmentLog
	if err := e.DB.First(&logEntry, "id = ?", logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "adjustment", Key: fmt.Sprint(logID)}
		}
		return nil, err
	}
	if logEntry.ApprovalStatus != models.ApprovalPending {
		return nil, &ConflictError{Entity: "adjustment", Key: fmt.Sprint(logID),
			Reason: "already " + logEntry.ApprovalStatus}
	}

	logEntry.ApprovalStatus = models.ApprovalRejected
	logEntry.RejectReason = reason
	logEntry.ApprovedBy = approver
	logEntry.ApprovedAt = &now

	if err := e.DB.Save(&logEntry).Error; err != nil {
		return nil, err
	}
	return &logEntry, nil
}

// applyToBuffer writes the approved size, clears the zone-day counter
// and rolls the review window forward. Callers hold the buffer lock.
func (e *DBMReviewEngine) applyToBuffer(tx *gorm.DB, buf *models.InventoryBuffer, finalUnits int, now time.Time) error {
	buf.BufferUnits = finalUnits
	buf.ConsecutiveZoneDays = 0
	return e.advanceReviewDatesTx(tx, buf, now)
}

func (e *DBMReviewEngine) advanceReviewDates(buf *models.InventoryBuffer, now time.Time) error {
	return e.advanceReviewDatesTx(e.DB, buf, now)
}

func (e *DBMReviewEngine) advanceReviewDatesTx(tx *gorm.DB, buf *models.InventoryBuffer, now time.Time) error {
	buf.LastReviewDate = &now

	frequencyDays := 7
	if buf.ReviewCycleID != 0 {
		var cycle models.ReviewCycle
		if err := tx.First(&cycle, buf.ReviewCycleID).Error; err == nil {
			frequencyDays = cycle.FrequencyDays
			if !now.Before(cycle.NextEndDate) {
				cycle.RollForward()
				if err := tx.Save(&cycle).Error; err != nil {
					return err
				}
			}
		}
	}

	next := now.AddDate(0, 0, frequencyDays)
	buf.NextReviewDue = &next

	return tx.Save(buf).Error
}
