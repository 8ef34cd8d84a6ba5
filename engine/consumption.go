package engine

import (
	"errors"
	"fmt"
	"math"
	"replenish-app/config"
	"replenish-app/models"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// adcWindows are the trailing lookback windows in days.
var adcWindows = [4]int{7, 14, 30, 60}

// Weights of the normalized ADC blend. Recent consumption dominates.
const (
	normWeight7  = 0.5
	normWeight14 = 0.3
	normWeight30 = 0.2
)

// DailyQty is one day's consumption for a product/location.
type DailyQty struct {
	Date time.Time
	Qty  int
}

// ProfileStats is the pure outcome of a profile computation.
type ProfileStats struct {
	Adc7            float64
	Adc14           float64
	Adc30           float64
	Adc60           float64
	AdcNormalized   float64
	Trend           string
	TrendConfidence float64
	StdDev          float64
	CoefVariation   float64
	DataPoints      int
	LastConsumption time.Time
	Partial         bool
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ComputeProfileStats derives the rolling ADC figures, variability and
// trend from daily logs. Days without a log count as zero consumption,
// no interpolation.
func ComputeProfileStats(logs []DailyQty, asOf time.Time, cfg config.PlanningConfig) ProfileStats {
	asOfDay := truncateDay(asOf)

	// qty per day, keyed by whole days before asOf (0 = asOf itself)
	byAge := make(map[int]int, len(logs))
	var stats ProfileStats
	for _, l := range logs {
		day := truncateDay(l.Date)
		age := int(asOfDay.Sub(day).Hours() / 24)
		if age < 0 || age >= adcWindows[3] {
			continue
		}
		byAge[age] += l.Qty
		stats.DataPoints++
		if day.After(stats.LastConsumption) {
			stats.LastConsumption = day
		}
	}

	sums := [4]int{}
	for age, qty := range byAge {
		for i, w := range adcWindows {
			if age < w {
				sums[i] += qty
			}
		}
	}

	stats.Adc7 = float64(sums[0]) / 7
	stats.Adc14 = float64(sums[1]) / 14
	stats.Adc30 = float64(sums[2]) / 30
	stats.Adc60 = float64(sums[3]) / 60
	stats.AdcNormalized = normWeight7*stats.Adc7 + normWeight14*stats.Adc14 + normWeight30*stats.Adc30

	// variability over the 30-day daily series, zeros included
	mean := stats.Adc30
	var sumSq float64
	points30 := 0
	for age := 0; age < 30; age++ {
		qty := float64(byAge[age])
		sumSq += (qty - mean) * (qty - mean)
		if _, ok := byAge[age]; ok {
			points30++
		}
	}
	stats.StdDev = math.Sqrt(sumSq / 30)
	if mean > 0 {
		stats.CoefVariation = stats.StdDev / mean
	}

	// trend: 7-day ADC against the 30-day baseline
	stats.Trend = models.TrendStable
	if mean > 0 {
		relDiffPct := (stats.Adc7 - mean) / mean * 100
		if relDiffPct > cfg.TrendThresholdPct {
			stats.Trend = models.TrendIncreasing
		} else if relDiffPct < -cfg.TrendThresholdPct {
			stats.Trend = models.TrendDecreasing
		}
	}
	stats.TrendConfidence = math.Min(1, float64(points30)/30)

	stats.Partial = stats.DataPoints < cfg.MinDataPoints

	return stats
}

// ProfileCalculator recomputes and persists consumption profiles.
type ProfileCalculator struct {
	DB     *gorm.DB
	Config config.PlanningConfig
	Log    *logrus.Logger
}

func NewProfileCalculator(db *gorm.DB) *ProfileCalculator {
	return &ProfileCalculator{DB: db, Config: config.Planning, Log: config.GetLogger()}
}

// Recalculate rebuilds the profile for one product/location from its
// daily logs. A thin history still produces a profile; the returned
// error is an InsufficientDataError the caller may treat as non-fatal.
func (c *ProfileCalculator) Recalculate(productCode, locationCode string, asOf time.Time) (*models.ConsumptionProfile, error) {
	since := truncateDay(asOf).AddDate(0, 0, -adcWindows[3])

	var rows []models.DailyConsumptionLog
	if err := c.DB.Where("product_code = ? AND location_code = ? AND consumption_date > ?",
		productCode, locationCode, since).
		Order("consumption_date").Find(&rows).Error; err != nil {
		return nil, err
	}

	logs := make([]DailyQty, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, DailyQty{Date: r.ConsumptionDate, Qty: r.QtyConsumed})
	}

	stats := ComputeProfileStats(logs, asOf, c.Config)

	var profile models.ConsumptionProfile
	err := c.DB.Where("product_code = ? AND location_code = ?", productCode, locationCode).
		First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile.ProductCode = productCode
	profile.LocationCode = locationCode
	profile.Adc7 = stats.Adc7
	profile.Adc14 = stats.Adc14
	profile.Adc30 = stats.Adc30
	profile.Adc60 = stats.Adc60
	profile.AdcNormalized = stats.AdcNormalized
	profile.Trend = stats.Trend
	profile.TrendConfidence = stats.TrendConfidence
	profile.StdDev = stats.StdDev
	profile.CoefVariation = stats.CoefVariation
	profile.DataPoints = stats.DataPoints
	profile.IsPartial = stats.Partial
	profile.CalculationDate = asOf
	profile.LastConsumption = stats.LastConsumption

	if err := c.DB.Save(&profile).Error; err != nil {
		return nil, err
	}

	if stats.Partial {
		return &profile, &InsufficientDataError{
			ProductCode:  productCode,
			LocationCode: locationCode,
			DataPoints:   stats.DataPoints,
			Required:     c.Config.MinDataPoints,
		}
	}
	return &profile, nil
}

// EnsureFresh returns the stored profile, recomputing it first when it
// is missing or older than the recalculation cutoff.
func (c *ProfileCalculator) EnsureFresh(productCode, locationCode string, asOf time.Time) (*models.ConsumptionProfile, error) {
	var profile models.ConsumptionProfile
	err := c.DB.Where("product_code = ? AND location_code = ?", productCode, locationCode).
		First(&profile).Error
	if err == nil {
		cutoff := asOf.Add(-time.Duration(c.Config.RecalcCutoffHours) * time.Hour)
		if profile.CalculationDate.After(cutoff) {
			return &profile, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return c.Recalculate(productCode, locationCode, asOf)
}

// RecalculateAll sweeps every active buffer's product/location pair.
// Insufficient data downgrades the pair, it does not fail the batch.
func (c *ProfileCalculator) RecalculateAll(asOf time.Time) *BatchResult {
	result := &BatchResult{}

	var buffers []models.InventoryBuffer
	if err := c.DB.Where("is_active = ?", true).Find(&buffers).Error; err != nil {
		result.AddError("buffers", err)
		return result
	}

	for _, buf := range buffers {
		key := buf.ProductCode + "/" + buf.LocationCode
		_, err := c.Recalculate(buf.ProductCode, buf.LocationCode, asOf)
		var insufficient *InsufficientDataError
		if err != nil && !errors.As(err, &insufficient) {
			config.LogError(c.Log, "consumption", "RecalculateAll", key, nil, err)
			result.AddError(key, err)
			continue
		}
		result.AddSuccess()
	}

	c.Log.WithFields(logrus.Fields{
		"module":    "consumption",
		"processed": result.Processed,
		"failed":    result.Failed,
	}).Info("profile recalculation sweep finished")

	return result
}

// IngestLogs stores a batch of consumption facts. A duplicate
// (product, location, date) row is a per-item conflict; the batch
// continues and touched profiles are recomputed afterwards.
func (c *ProfileCalculator) IngestLogs(entries []models.DailyConsumptionLog, userID int) *BatchResult {
	result := &BatchResult{}
	touched := make(map[[2]string]bool)

	for i := range entries {
		entry := entries[i]
		key := fmt.Sprintf("%s/%s/%s", entry.ProductCode, entry.LocationCode,
			entry.ConsumptionDate.Format("2006-01-02"))

		if entry.ProductCode == "" || entry.LocationCode == "" {
			result.AddError(key, &ValidationError{Field: "product_code/location_code", Reason: "required"})
			continue
		}
		if entry.QtyConsumed < 0 {
			result.AddError(key, &ValidationError{Field: "qty_consumed", Reason: "must not be negative"})
			continue
		}

		entry.ConsumptionDate = truncateDay(entry.ConsumptionDate)

		var existing models.DailyConsumptionLog
		err := c.DB.Where("product_code = ? AND location_code = ? AND consumption_date = ?",
			entry.ProductCode, entry.LocationCode, entry.ConsumptionDate).
			First(&existing).Error
		if err == nil {
			result.AddError(key, &ConflictError{Entity: "consumption log", Key: key, Reason: "already recorded"})
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			result.AddError(key, err)
			continue
		}

		entry.CreatedBy = userID
		if err := c.DB.Create(&entry).Error; err != nil {
			result.AddError(key, err)
			continue
		}
		touched[[2]string{entry.ProductCode, entry.LocationCode}] = true
		result.AddSuccess()
	}

	now := time.Now()
	for pair := range touched {
		if _, err := c.Recalculate(pair[0], pair[1], now); err != nil {
			var insufficient *InsufficientDataError
			if !errors.As(err, &insufficient) {
				config.LogError(c.Log, "consumption", "IngestLogs", pair[0]+"/"+pair[1], nil, err)
			}
		}
	}

	return result
}
