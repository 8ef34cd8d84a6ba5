package engine

import (
	"errors"
	"fmt"
	"replenish-app/config"
	"replenish-app/controllers/idgen"
	"replenish-app/models"
	"replenish-app/types"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Days-of-supply cap used instead of +Inf when ADC is zero, so the
// value survives JSON and SQL round trips.
const MaxDaysOfSupply = 9999

// Zone weights dominate the priority score: any RED outranks any
// YELLOW, any YELLOW outranks any GREEN. The gap term spans 0..100 and
// the days-of-supply penalty stays below 1.
const (
	zoneWeightRed    = 400
	zoneWeightYellow = 200
	zoneWeightGreen  = 0
)

func zoneWeight(zone string) float64 {
	switch zone {
	case models.ZoneRed:
		return zoneWeightRed
	case models.ZoneYellow:
		return zoneWeightYellow
	default:
		return zoneWeightGreen
	}
}

// PriorityScore ranks queue items for fulfillment: zone severity first,
// then relative gap, then (inversely) days of supply.
func PriorityScore(zone string, bufferGap, bufferUnits int, daysOfSupply float64) float64 {
	var gapTerm float64
	if bufferUnits > 0 {
		gapTerm = float64(bufferGap) / float64(bufferUnits) * 100
		if gapTerm > 100 {
			gapTerm = 100
		}
	}

	dos := daysOfSupply
	if dos > MaxDaysOfSupply {
		dos = MaxDaysOfSupply
	}
	dosPenalty := dos / (MaxDaysOfSupply + 1)

	return zoneWeight(zone) + gapTerm - dosPenalty
}

// RecommendAction decides EXPEDITE / REPLENISH / HOLD for a buffer
// snapshot.
func RecommendAction(zone string, daysOfSupply float64, leadTimeDays, bufferGap int) string {
	if zone == models.ZoneRed && daysOfSupply < float64(leadTimeDays) {
		return models.ActionExpedite
	}
	if bufferGap > 0 {
		return models.ActionReplenish
	}
	return models.ActionHold
}

// SortQueueItems orders items deterministically: severe zone first,
// then larger gap, then fewer days of supply, id as the final tiebreak.
func SortQueueItems(items []models.ReplenishmentQueueItem) {
	slices.SortFunc(items, func(a, b models.ReplenishmentQueueItem) int {
		if wa, wb := zoneWeight(a.CurrentZone), zoneWeight(b.CurrentZone); wa != wb {
			if wa > wb {
				return -1
			}
			return 1
		}
		if a.BufferGap != b.BufferGap {
			if a.BufferGap > b.BufferGap {
				return -1
			}
			return 1
		}
		if a.DaysOfSupply != b.DaysOfSupply {
			if a.DaysOfSupply < b.DaysOfSupply {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

// QueueGenerator runs the daily replenishment cycle over all active
// buffers: refresh profile, classify zone, compute gap and priority and
// emit one queue item per buffer, superseding the previous PENDING one.
type QueueGenerator struct {
	DB     *gorm.DB
	Config config.PlanningConfig
	Log    *logrus.Logger
}

func NewQueueGenerator(db *gorm.DB) *QueueGenerator {
	return &QueueGenerator{DB: db, Config: config.Planning, Log: config.GetLogger()}
}

// GenerateDailyQueue processes the buffers in parallel; each buffer is
// serialized by its own lock and a buffer's failure never aborts the
// run.
func (g *QueueGenerator) GenerateDailyQueue(runID string, now time.Time) (*BatchResult, error) {
	var buffers []models.InventoryBuffer
	if err := g.DB.Where("is_active = ?", true).Find(&buffers).Error; err != nil {
		return nil, err
	}

	workers := g.Config.QueueWorkers
	if workers < 1 {
		workers = 1
	}

	result := &BatchResult{}
	var resultMu sync.Mutex

	jobs := make(chan models.InventoryBuffer)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for buf := range jobs {
				key := buf.ProductCode + "/" + buf.LocationCode
				err := g.processBuffer(buf.ID, runID, now)
				resultMu.Lock()
				if err != nil {
					config.LogError(g.Log, "queue", "GenerateDailyQueue", key, nil, err)
					result.AddError(key, err)
				} else {
					result.AddSuccess()
				}
				resultMu.Unlock()
			}
		}()
	}

	for _, buf := range buffers {
		jobs <- buf
	}
	close(jobs)
	wg.Wait()

	g.Log.WithFields(logrus.Fields{
		"module":    "queue",
		"runId":     runID,
		"processed": result.Processed,
		"failed":    result.Failed,
	}).Info("replenishment queue generation finished")

	return result, nil
}

// processBuffer runs the whole per-buffer cycle under the buffer lock.
func (g *QueueGenerator) processBuffer(bufferID uint, runID string, now time.Time) error {
	unlock := LockBuffer(bufferID)
	defer unlock()

	var buf models.InventoryBuffer
	if err := g.DB.First(&buf, bufferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "buffer", Key: fmt.Sprint(bufferID)}
		}
		return err
	}

	calc := &ProfileCalculator{DB: g.DB, Config: g.Config, Log: g.Log}
	profile, err := calc.EnsureFresh(buf.ProductCode, buf.LocationCode, now)
	var insufficient *InsufficientDataError
	if err != nil && !errors.As(err, &insufficient) {
		return err
	}

	reasons := []string{}

	adcUsed, selErr := SelectAdc(profile, buf.AdcWindow)
	if selErr != nil {
		adcUsed = 0
	}
	factor, seasonalReasons, err := SeasonalFactor(g.DB, buf.ProductCode, buf.LocationCode, now)
	if err != nil {
		return err
	}
	adcUsed *= factor
	reasons = append(reasons, seasonalReasons...)

	// daily zone classification, counter update included
	zres := ClassifyZone(ZoneInput{
		CurrentInventory:   buf.CurrentInventory,
		InPipelineQty:      buf.InPipelineQty,
		AllocatedQty:       buf.AllocatedQty,
		BufferUnits:        buf.BufferUnits,
		RedThresholdPct:    buf.RedThresholdPct,
		YellowThresholdPct: buf.YellowThresholdPct,
	})
	ApplyZoneResult(&buf, zres, now)
	if err := g.DB.Save(&buf).Error; err != nil {
		return err
	}

	bufferGap := buf.BufferUnits - zres.NetAvailableQty
	if bufferGap < 0 {
		bufferGap = 0
	}

	daysOfSupply := float64(MaxDaysOfSupply)
	if adcUsed > 0 {
		daysOfSupply = float64(zres.NetAvailableQty) / adcUsed
		if daysOfSupply > MaxDaysOfSupply {
			daysOfSupply = MaxDaysOfSupply
		}
	}

	switch zres.Zone {
	case models.ZoneRed:
		reasons = append(reasons, models.ReasonZoneRed)
	case models.ZoneYellow:
		reasons = append(reasons, models.ReasonZoneYellow)
	}

	action := RecommendAction(zres.Zone, daysOfSupply, buf.LeadTimeDays, bufferGap)
	if action == models.ActionExpedite {
		reasons = append(reasons, models.ReasonBelowLeadTime)
	}

	staleCutoff := now.AddDate(0, 0, -g.Config.StaleConsumptionDays)
	if profile == nil || profile.LastConsumption.Before(staleCutoff) {
		reasons = append(reasons, models.ReasonStaleData)
	}

	item := models.ReplenishmentQueueItem{
		ID:                types.SnowflakeID(idgen.GenerateID()),
		RunID:             runID,
		BufferID:          buf.ID,
		ProductCode:       buf.ProductCode,
		LocationCode:      buf.LocationCode,
		CurrentZone:       zres.Zone,
		BufferUnits:       buf.BufferUnits,
		CurrentInventory:  buf.CurrentInventory,
		InPipelineQty:     buf.InPipelineQty,
		NetAvailableQty:   zres.NetAvailableQty,
		BufferGap:         bufferGap,
		AdcUsed:           adcUsed,
		DaysOfSupply:      daysOfSupply,
		RecommendedAction: action,
		RecommendedQty:    bufferGap,
		PriorityScore:     PriorityScore(zres.Zone, bufferGap, buf.BufferUnits, daysOfSupply),
		ReasonCodes:       strings.Join(reasons, ","),
		Status:            models.QueuePending,
	}

	return g.DB.Transaction(func(tx *gorm.DB) error {
		// supersede any unresolved item for this buffer instead of
		// stacking duplicates
		if err := tx.Model(&models.ReplenishmentQueueItem{}).
			Where("buffer_id = ? AND status = ?", buf.ID, models.QueuePending).
			Updates(map[string]interface{}{
				"status":       models.QueueCancelled,
				"reason_codes": gorm.Expr("CONCAT(reason_codes, ?)", ","+models.ReasonSuperseded),
			}).Error; err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
}
