package engine

import (
	"replenish-app/models"
	"time"

	"gorm.io/gorm"
)

// SeasonalFactor multiplies the active seasonality adjustment for the
// month with any special event covering the date. Rows with an empty
// product or location code match everything. Returns the combined
// factor and the reason codes that fired.
func SeasonalFactor(db *gorm.DB, productCode, locationCode string, at time.Time) (float64, []string, error) {
	factor := 1.0
	var reasons []string

	var seasonal []models.SeasonalityAdjustment
	err := db.Where("is_active = ? AND month = ?", true, int(at.Month())).
		Where("(product_code = ? OR product_code = '')", productCode).
		Where("(location_code = ? OR location_code = '')", locationCode).
		Find(&seasonal).Error
	if err != nil {
		return 1, nil, err
	}
	for _, s := range seasonal {
		if s.Factor > 0 {
			factor *= s.Factor
		}
	}
	if len(seasonal) > 0 {
		reasons = append(reasons, models.ReasonSeasonality)
	}

	var events []models.SpecialEvent
	err = db.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, at, at).
		Where("(product_code = ? OR product_code = '')", productCode).
		Where("(location_code = ? OR location_code = '')", locationCode).
		Find(&events).Error
	if err != nil {
		return 1, nil, err
	}
	for _, e := range events {
		if e.Factor > 0 {
			factor *= e.Factor
		}
	}
	if len(events) > 0 {
		reasons = append(reasons, models.ReasonSpecialEvent)
	}

	return factor, reasons, nil
}
