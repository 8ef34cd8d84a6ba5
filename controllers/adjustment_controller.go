package controllers

import (
	"replenish-app/engine"
	"replenish-app/models"
	"replenish-app/types"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdjustmentController struct {
	DB *gorm.DB
}

func NewAdjustmentController(DB *gorm.DB) *AdjustmentController {
	return &AdjustmentController{DB: DB}
}

// GetDueBuffers lists the buffers whose DBM review is due now.
func (c *AdjustmentController) GetDueBuffers(ctx *fiber.Ctx) error {
	review := engine.NewDBMReviewEngine(c.DB)
	buffers, err := review.ListDueBuffers(time.Now())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"buffers": buffers},
	})
}

func (c *AdjustmentController) GetAdjustments(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.BufferAdjustmentLog{})

	if status := ctx.Query("status"); status != "" {
		query = query.Where("approval_status = ?", status)
	}
	if bufferID := ctx.Query("buffer_id"); bufferID != "" {
		query = query.Where("buffer_id = ?", bufferID)
	}

	var logs []models.BufferAdjustmentLog
	if err := query.Order("created_at desc").Find(&logs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"adjustments": logs},
	})
}

// RunReview executes the bulk DBM recommendation pass over all due
// buffers. Per-buffer failures are reported, never fatal.
func (c *AdjustmentController) RunReview(ctx *fiber.Ctx) error {
	review := engine.NewDBMReviewEngine(c.DB)
	result, pending, err := review.CalculateRecommendations(time.Now())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": result.Failed == 0,
		"data": fiber.Map{
			"reviewed":          result.Processed,
			"skipped":           result.Skipped,
			"failed":            result.Failed,
			"pending_approvals": pending,
			"errors":            result.ErrorMessages(),
		},
	})
}

func parseAdjustmentID(ctx *fiber.Ctx) (types.SnowflakeID, error) {
	raw := ctx.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return types.SnowflakeID(id), nil
}

var approveAdjustmentInput struct {
	FinalBufferUnits int `json:"final_buffer_units"`
}

func (c *AdjustmentController) Approve(ctx *fiber.Ctx) error {
	id, err := parseAdjustmentID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid adjustment id"})
	}

	approveAdjustmentInput.FinalBufferUnits = 0
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&approveAdjustmentInput); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	review := engine.NewDBMReviewEngine(c.DB)
	logEntry, err := review.Approve(id, approveAdjustmentInput.FinalBufferUnits,
		currentUsername(ctx), time.Now())
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Adjustment approved",
		"data":    fiber.Map{"adjustment": logEntry},
	})
}

var rejectAdjustmentInput struct {
	Reason string `json:"reason"`
}

func (c *AdjustmentController) Reject(ctx *fiber.Ctx) error {
	id, err := parseAdjustmentID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid adjustment id"})
	}

	if err := ctx.BodyParser(&rejectAdjustmentInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	review := engine.NewDBMReviewEngine(c.DB)
	logEntry, err := review.Reject(id, rejectAdjustmentInput.Reason,
		currentUsername(ctx), time.Now())
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Adjustment rejected",
		"data":    fiber.Map{"adjustment": logEntry},
	})
}

// ExportExcel downloads the adjustment history as a spreadsheet.
func (c *AdjustmentController) ExportExcel(ctx *fiber.Ctx) error {
	var logs []models.BufferAdjustmentLog
	if err := c.DB.Order("created_at desc").Find(&logs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return writeAdjustmentExcel(ctx, logs)
}
