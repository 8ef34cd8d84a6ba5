package controllers

import (
	"errors"
	"replenish-app/engine"
	"replenish-app/models"
	"time"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ConsumptionController struct {
	DB *gorm.DB
}

func NewConsumptionController(DB *gorm.DB) *ConsumptionController {
	return &ConsumptionController{DB: DB}
}

type consumptionRow struct {
	ProductCode     string `json:"product_code" validate:"required"`
	LocationCode    string `json:"location_code" validate:"required"`
	ConsumptionDate string `json:"consumption_date" validate:"required"`
	QtyConsumed     int    `json:"qty_consumed"`
	TransactionType string `json:"transaction_type"`
	Source          string `json:"source"`
}

var ingestInput struct {
	Logs []consumptionRow `json:"logs" validate:"required,min=1,dive"`
}

// IngestLogs lands the external consumption feed. Duplicate rows are
// rejected per item; the batch continues.
func (c *ConsumptionController) IngestLogs(ctx *fiber.Ctx) error {

	if err := ctx.BodyParser(&ingestInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(ingestInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entries := make([]models.DailyConsumptionLog, 0, len(ingestInput.Logs))
	for _, row := range ingestInput.Logs {
		date, err := time.Parse("2006-01-02", row.ConsumptionDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "consumption_date must be YYYY-MM-DD: " + row.ConsumptionDate,
			})
		}
		entries = append(entries, models.DailyConsumptionLog{
			ProductCode:     row.ProductCode,
			LocationCode:    row.LocationCode,
			ConsumptionDate: date,
			QtyConsumed:     row.QtyConsumed,
			TransactionType: row.TransactionType,
			Source:          row.Source,
		})
	}

	calc := engine.NewProfileCalculator(c.DB)
	result := calc.IngestLogs(entries, currentUserID(ctx))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": result.Failed == 0,
		"data": fiber.Map{
			"inserted": result.Processed,
			"failed":   result.Failed,
			"errors":   result.ErrorMessages(),
		},
	})
}

func (c *ConsumptionController) GetProfile(ctx *fiber.Ctx) error {
	productCode := ctx.Params("product")
	locationCode := ctx.Params("location")

	var profile models.ConsumptionProfile
	err := c.DB.Where("product_code = ? AND location_code = ?", productCode, locationCode).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "consumption profile not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"profile": profile},
	})
}

var recalcInput struct {
	ProductCode  string `json:"product_code"`
	LocationCode string `json:"location_code"`
}

// Recalculate rebuilds one profile, or sweeps every active buffer's
// pair when no key is given. Thin history marks the profile partial
// instead of failing.
func (c *ConsumptionController) Recalculate(ctx *fiber.Ctx) error {

	if err := ctx.BodyParser(&recalcInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	calc := engine.NewProfileCalculator(c.DB)
	now := time.Now()

	if recalcInput.ProductCode != "" && recalcInput.LocationCode != "" {
		profile, err := calc.Recalculate(recalcInput.ProductCode, recalcInput.LocationCode, now)
		var insufficient *engine.InsufficientDataError
		if err != nil && !errors.As(err, &insufficient) {
			return errorResponse(ctx, err)
		}
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"profile": profile, "partial": profile.IsPartial},
		})
	}

	result := calc.RecalculateAll(now)
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": result.Failed == 0,
		"data": fiber.Map{
			"processed": result.Processed,
			"failed":    result.Failed,
			"errors":    result.ErrorMessages(),
		},
	})
}
