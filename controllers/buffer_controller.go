package controllers

import (
	"errors"
	"replenish-app/config"
	"replenish-app/engine"
	"replenish-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BufferController struct {
	DB *gorm.DB
}

func NewBufferController(DB *gorm.DB) *BufferController {
	return &BufferController{DB: DB}
}

var bufferInput struct {
	ProductCode             string  `json:"product_code" validate:"required,min=3"`
	LocationCode            string  `json:"location_code" validate:"required,min=2"`
	BufferType              string  `json:"buffer_type"`
	AdcWindow               string  `json:"adc_window"`
	SafetyFactorPct         float64 `json:"safety_factor_pct" validate:"min=0,max=100"`
	RedThresholdPct         float64 `json:"red_threshold_pct" validate:"min=0,max=100"`
	YellowThresholdPct      float64 `json:"yellow_threshold_pct" validate:"min=0,max=100"`
	ReviewCycleCode         string  `json:"review_cycle_code"`
	AdjustmentThresholdDays int     `json:"adjustment_threshold_days"`
	ReviewAutomation        string  `json:"review_automation"`
}

func (c *BufferController) CreateBuffer(ctx *fiber.Ctx) error {

	if err := ctx.BodyParser(&bufferInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(bufferInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	red := bufferInput.RedThresholdPct
	yellow := bufferInput.YellowThresholdPct
	if red == 0 {
		red = config.Planning.DefaultRedPct
	}
	if yellow == 0 {
		yellow = config.Planning.DefaultYellowPct
	}
	if red+yellow > 100 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "red and yellow thresholds must not exceed 100 combined",
		})
	}

	window := bufferInput.AdcWindow
	if window == "" {
		window = models.AdcWindow14
	}

	var existing models.InventoryBuffer
	err := c.DB.Where("product_code = ? AND location_code = ?",
		bufferInput.ProductCode, bufferInput.LocationCode).First(&existing).Error
	if err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "buffer already exists for this product and location",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// sizes the buffer immediately when profile and lead time exist
	sizing := engine.NewSizingEngine(c.DB)
	calc, err := sizing.CalculatePair(bufferInput.ProductCode, bufferInput.LocationCode,
		window, bufferInput.SafetyFactorPct)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var cycle models.ReviewCycle
	cycleCode := bufferInput.ReviewCycleCode
	if cycleCode == "" {
		cycleCode = "WEEKLY"
	}
	if err := c.DB.Where("code = ?", cycleCode).First(&cycle).Error; err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "review cycle not found"})
	}

	thresholdDays := bufferInput.AdjustmentThresholdDays
	if thresholdDays <= 0 {
		thresholdDays = config.Planning.DefaultThresholdDays
	}
	automation := bufferInput.ReviewAutomation
	if automation == "" {
		automation = models.ReviewAuto
	}
	bufferType := bufferInput.BufferType
	if bufferType == "" {
		bufferType = "PURCHASED"
	}

	nextDue := cycle.NextEndDate
	buffer := models.InventoryBuffer{
		ProductCode:             bufferInput.ProductCode,
		LocationCode:            bufferInput.LocationCode,
		BufferType:              bufferType,
		AdcWindow:               window,
		LeadTimeDays:            calc.LeadTimeDays,
		BufferUnits:             calc.Result.FinalQuantity,
		SafetyFactorPct:         calc.Result.SafetyFactorPct,
		RedThresholdPct:         red,
		YellowThresholdPct:      yellow,
		GreenThresholdPct:       100 - red - yellow,
		ReviewCycleID:           cycle.ID,
		AdjustmentThresholdDays: thresholdDays,
		ReviewAutomation:        automation,
		NextReviewDue:           &nextDue,
		IsActive:                true,
		CreatedBy:               currentUserID(ctx),
	}

	if err := c.DB.Create(&buffer).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Buffer created successfully",
		"data":    fiber.Map{"buffer": buffer, "calculation": calc},
	})
}

func (c *BufferController) GetBuffers(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.InventoryBuffer{})

	if zone := ctx.Query("zone"); zone != "" {
		query = query.Where("current_zone = ?", zone)
	}
	if location := ctx.Query("location_code"); location != "" {
		query = query.Where("location_code = ?", location)
	}
	if ctx.Query("active", "true") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var buffers []models.InventoryBuffer
	if err := query.Order("product_code, location_code").Find(&buffers).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"buffers": buffers},
	})
}

func (c *BufferController) GetBufferByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid buffer id"})
	}

	var buffer models.InventoryBuffer
	if err := c.DB.First(&buffer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "buffer not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"buffer": buffer},
	})
}

func (c *BufferController) SetActive(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid buffer id"})
	}

	var input struct {
		IsActive bool `json:"is_active"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var buffer models.InventoryBuffer
	if err := c.DB.First(&buffer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "buffer not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	buffer.IsActive = input.IsActive
	buffer.UpdatedBy = currentUserID(ctx)
	if err := c.DB.Save(&buffer).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Buffer updated",
		"data":    fiber.Map{"buffer": buffer},
	})
}

var calculateInput struct {
	ProductCode     string  `json:"product_code" validate:"required"`
	LocationCode    string  `json:"location_code" validate:"required"`
	AdcWindow       string  `json:"adc_window" validate:"required"`
	SafetyFactorPct float64 `json:"safety_factor_pct" validate:"min=0,max=100"`
}

// Calculate runs the sizing engine for one product/location pair. The
// calculation status (SUCCESS / PARTIAL_DATA / ERROR) rides inside the
// payload.
func (c *BufferController) Calculate(ctx *fiber.Ctx) error {

	if err := ctx.BodyParser(&calculateInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(calculateInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sizing := engine.NewSizingEngine(c.DB)
	calc, err := sizing.CalculatePair(calculateInput.ProductCode, calculateInput.LocationCode,
		calculateInput.AdcWindow, calculateInput.SafetyFactorPct)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"calculation": calc},
	})
}

var calculateBatchInput struct {
	ProductCode     string  `json:"product_code"`
	LocationCode    string  `json:"location_code"`
	AdcWindow       string  `json:"adc_window" validate:"required"`
	SafetyFactorPct float64 `json:"safety_factor_pct" validate:"min=0,max=100"`
	Page            int     `json:"page"`
	PageSize        int     `json:"page_size"`
}

func (c *BufferController) CalculateBatch(ctx *fiber.Ctx) error {

	if err := ctx.BodyParser(&calculateBatchInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(calculateBatchInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sizing := engine.NewSizingEngine(c.DB)
	calcs, result, err := sizing.CalculateBatch(
		calculateBatchInput.ProductCode, calculateBatchInput.LocationCode,
		calculateBatchInput.AdcWindow, calculateBatchInput.SafetyFactorPct,
		calculateBatchInput.Page, calculateBatchInput.PageSize)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"calculations": calcs,
			"processed":    result.Processed,
			"failed":       result.Failed,
			"errors":       result.ErrorMessages(),
		},
	})
}
