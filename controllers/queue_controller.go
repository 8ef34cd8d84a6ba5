package controllers

import (
	"errors"
	"replenish-app/engine"
	"replenish-app/models"
	"replenish-app/repositories"
	"replenish-app/types"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueueController struct {
	DB *gorm.DB
}

func NewQueueController(DB *gorm.DB) *QueueController {
	return &QueueController{DB: DB}
}

func queueFilterFromQuery(ctx *fiber.Ctx) repositories.QueueFilter {
	filter := repositories.QueueFilter{
		Zone:        ctx.Query("zone"),
		Status:      ctx.Query("status"),
		MaxGap:      -1,
		MaxPriority: -1,
	}
	if v, err := strconv.Atoi(ctx.Query("min_gap")); err == nil {
		filter.MinGap = v
	}
	if v, err := strconv.Atoi(ctx.Query("max_gap")); err == nil {
		filter.MaxGap = v
	}
	if v, err := strconv.ParseFloat(ctx.Query("min_priority"), 64); err == nil {
		filter.MinPriority = v
	}
	if v, err := strconv.ParseFloat(ctx.Query("max_priority"), 64); err == nil {
		filter.MaxPriority = v
	}
	return filter
}

func (c *QueueController) GetQueue(ctx *fiber.Ctx) error {

	queue_repo := repositories.NewQueueRepository(c.DB)
	items, err := queue_repo.ListQueueItems(queueFilterFromQuery(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"queue_items": items},
	})
}

// Generate runs the daily replenishment queue cycle on demand.
func (c *QueueController) Generate(ctx *fiber.Ctx) error {
	generator := engine.NewQueueGenerator(c.DB)
	runID := uuid.New().String()

	result, err := generator.GenerateDailyQueue(runID, time.Now())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": result.Failed == 0,
		"data": fiber.Map{
			"run_id":    runID,
			"processed": result.Processed,
			"failed":    result.Failed,
			"errors":    result.ErrorMessages(),
		},
	})
}

// Cancel closes a queue item. A PENDING item is cancelled directly; a
// PROCESSED one cancels its linked order too.
func (c *QueueController) Cancel(ctx *fiber.Ctx) error {
	raw := ctx.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid queue item id"})
	}

	var item models.ReplenishmentQueueItem
	if err := c.DB.First(&item, "id = ?", types.SnowflakeID(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "queue item not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	switch item.Status {
	case models.QueueCancelled:
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "queue item already cancelled"})
	case models.QueueProcessed:
		creator := engine.NewOrderPipelineCreator(c.DB)
		if err := creator.CancelOrder(item.OrderID, currentUserID(ctx)); err != nil {
			return errorResponse(ctx, err)
		}
	default:
		item.Status = models.QueueCancelled
		if item.ReasonCodes != "" {
			item.ReasonCodes += ","
		}
		item.ReasonCodes += models.ReasonManualCancel
		if err := c.DB.Save(&item).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Queue item cancelled",
	})
}

// ExportExcel streams the current queue as a spreadsheet.
func (c *QueueController) ExportExcel(ctx *fiber.Ctx) error {

	queue_repo := repositories.NewQueueRepository(c.DB)
	items, err := queue_repo.ListQueueItems(queueFilterFromQuery(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return writeQueueExcel(ctx, items)
}
