package engine

import (
	"errors"
	"fmt"
	"math"
	"replenish-app/config"
	"replenish-app/models"
	"time"

	"gorm.io/gorm"
)

const (
	CalcSuccess     = "SUCCESS"
	CalcPartialData = "PARTIAL_DATA"
	CalcError       = "ERROR"
)

// SizingInput feeds the pure buffer-size formula. HasAdc and
// HasLeadTime distinguish a zero value from a missing record.
type SizingInput struct {
	AdcSelected     float64
	HasAdc          bool
	LeadTimeDays    int
	HasLeadTime     bool
	SafetyFactorPct float64
	DataPoints      int
}

type SizingResult struct {
	BaseBufferUnits   int     `json:"base_buffer_units"`
	SafetyBufferUnits int     `json:"safety_buffer_units"`
	FinalQuantity     int     `json:"final_quantity"`
	SafetyFactorPct   float64 `json:"safety_factor_pct"`
	Status            string  `json:"status"`
	Message           string  `json:"message,omitempty"`
}

// CalculateBufferSize computes base = ceil(adc*rlt), safety =
// ceil(base*factor/100). Pure: identical inputs yield identical output.
func CalculateBufferSize(in SizingInput, cfg config.PlanningConfig) SizingResult {
	if !in.HasLeadTime || !in.HasAdc {
		msg := "replenishment lead time not available"
		if !in.HasAdc {
			msg = "consumption profile not available"
		}
		return SizingResult{Status: CalcError, Message: msg}
	}

	factor := in.SafetyFactorPct
	if factor < cfg.SafetyFactorMinPct {
		factor = cfg.SafetyFactorMinPct
	}
	if factor > cfg.SafetyFactorMaxPct {
		factor = cfg.SafetyFactorMaxPct
	}

	base := int(math.Ceil(in.AdcSelected * float64(in.LeadTimeDays)))
	safety := int(math.Ceil(float64(base) * factor / 100))

	res := SizingResult{
		BaseBufferUnits:   base,
		SafetyBufferUnits: safety,
		FinalQuantity:     base + safety,
		SafetyFactorPct:   factor,
		Status:            CalcSuccess,
	}

	if in.DataPoints < cfg.MinDataPoints {
		res.Status = CalcPartialData
		res.Message = fmt.Sprintf("only %d consumption data points available", in.DataPoints)
	}

	return res
}

// SelectAdc picks the profile window named by the selector
// (7adc, 14adc or 30adc).
func SelectAdc(profile *models.ConsumptionProfile, window string) (float64, error) {
	if profile == nil {
		return 0, &NotFoundError{Entity: "consumption profile", Key: window}
	}
	switch window {
	case models.AdcWindow7:
		return profile.Adc7, nil
	case models.AdcWindow14:
		return profile.Adc14, nil
	case models.AdcWindow30:
		return profile.Adc30, nil
	default:
		return 0, &ValidationError{Field: "adc_window", Reason: "must be one of 7adc, 14adc, 30adc"}
	}
}

// SizingEngine exposes the pure calculation against persisted profiles
// and lead times. It never writes.
type SizingEngine struct {
	DB     *gorm.DB
	Config config.PlanningConfig
}

func NewSizingEngine(db *gorm.DB) *SizingEngine {
	return &SizingEngine{DB: db, Config: config.Planning}
}

// PairCalculation is the calculation result for one product/location.
type PairCalculation struct {
	ProductCode    string       `json:"product_code"`
	LocationCode   string       `json:"location_code"`
	AdcWindow      string       `json:"adc_window"`
	AdcSelected    float64      `json:"adc_selected"`
	SeasonalFactor float64      `json:"seasonal_factor"`
	LeadTimeDays   int          `json:"lead_time_days"`
	Result         SizingResult `json:"result"`
}

// CalculatePair sizes one product/location buffer. Missing master data
// is a hard NotFound; a missing profile or lead time degrades to an
// ERROR calculation status instead.
func (e *SizingEngine) CalculatePair(productCode, locationCode, window string, safetyPct float64) (*PairCalculation, error) {
	if safetyPct < 0 || safetyPct > 100 {
		return nil, &ValidationError{Field: "safety_factor_pct", Reason: "must be within [0,100]"}
	}
	if window != models.AdcWindow7 && window != models.AdcWindow14 && window != models.AdcWindow30 {
		return nil, &ValidationError{Field: "adc_window", Reason: "must be one of 7adc, 14adc, 30adc"}
	}

	var product models.Product
	if err := e.DB.Where("item_code = ?", productCode).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", Key: productCode}
		}
		return nil, err
	}

	var location models.Location
	if err := e.DB.Where("location_code = ?", locationCode).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "location", Key: locationCode}
		}
		return nil, err
	}

	in := SizingInput{SafetyFactorPct: safetyPct}

	var profile models.ConsumptionProfile
	err := e.DB.Where("product_code = ? AND location_code = ?", productCode, locationCode).
		First(&profile).Error
	calc := &PairCalculation{
		ProductCode:    productCode,
		LocationCode:   locationCode,
		AdcWindow:      window,
		SeasonalFactor: 1,
	}
	if err == nil {
		adc, selErr := SelectAdc(&profile, window)
		if selErr != nil {
			return nil, selErr
		}
		factor, _, facErr := SeasonalFactor(e.DB, productCode, locationCode, time.Now())
		if facErr != nil {
			return nil, facErr
		}
		in.AdcSelected = adc * factor
		in.HasAdc = true
		in.DataPoints = profile.DataPoints
		calc.AdcSelected = in.AdcSelected
		calc.SeasonalFactor = factor
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var leadTime models.ProductLeadTime
	err = e.DB.Where("product_code = ? AND location_code = ?", productCode, locationCode).
		First(&leadTime).Error
	if err == nil {
		in.LeadTimeDays = leadTime.LeadTimeDays
		in.HasLeadTime = true
		calc.LeadTimeDays = leadTime.LeadTimeDays
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	calc.Result = CalculateBufferSize(in, e.Config)
	return calc, nil
}

// CalculateBatch runs the pair calculation across a location's products
// or a product's locations, paged. Per-pair failures are collected, not
// fatal.
func (e *SizingEngine) CalculateBatch(productCode, locationCode, window string, safetyPct float64, page, pageSize int) ([]PairCalculation, *BatchResult, error) {
	if productCode == "" && locationCode == "" {
		return nil, nil, &ValidationError{Field: "scope", Reason: "product_code or location_code is required"}
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	query := e.DB.Model(&models.InventoryBuffer{}).Where("is_active = ?", true)
	if productCode != "" {
		query = query.Where("product_code = ?", productCode)
	}
	if locationCode != "" {
		query = query.Where("location_code = ?", locationCode)
	}

	var buffers []models.InventoryBuffer
	if err := query.Order("product_code, location_code").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&buffers).Error; err != nil {
		return nil, nil, err
	}

	result := &BatchResult{}
	calcs := make([]PairCalculation, 0, len(buffers))
	for _, buf := range buffers {
		calc, err := e.CalculatePair(buf.ProductCode, buf.LocationCode, window, safetyPct)
		if err != nil {
			result.AddError(buf.ProductCode+"/"+buf.LocationCode, err)
			continue
		}
		calcs = append(calcs, *calc)
		result.AddSuccess()
	}

	return calcs, result, nil
}
