package controllers

import (
	"replenish-app/engine"
	"replenish-app/models"
	"replenish-app/types"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(DB *gorm.DB) *OrderController {
	return &OrderController{DB: DB}
}

var createOrdersInput struct {
	Items []engine.OrderRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrders converts a batch of finalized queue items into DRAFT
// orders. Overridden quantities are logged; per-item failures never
// abort the batch.
func (c *OrderController) CreateOrders(ctx *fiber.Ctx) error {

	if err := ctx.BodyParser(&createOrdersInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(createOrdersInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	creator := engine.NewOrderPipelineCreator(c.DB)
	orders, result := creator.CreateOrders(createOrdersInput.Items, currentUserID(ctx))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": result.Failed == 0,
		"data": fiber.Map{
			"orders":    orders,
			"processed": result.Processed,
			"failed":    result.Failed,
			"errors":    result.ErrorMessages(),
		},
	})
}

var approveOrdersInput struct {
	OrderIDs []types.SnowflakeID `json:"order_ids"`
	All      bool                `json:"all"`
}

// ApproveOrders moves selected (or all) DRAFT orders to PROCESSED.
func (c *OrderController) ApproveOrders(ctx *fiber.Ctx) error {

	if err := ctx.BodyParser(&approveOrdersInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	creator := engine.NewOrderPipelineCreator(c.DB)
	result := creator.ApproveOrders(approveOrdersInput.OrderIDs, approveOrdersInput.All,
		currentUserID(ctx), time.Now())

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": result.Failed == 0,
		"data": fiber.Map{
			"approved": result.Processed,
			"failed":   result.Failed,
			"errors":   result.ErrorMessages(),
		},
	})
}

var receiveOrderInput struct {
	ReceivedQty int `json:"received_qty" validate:"min=0"`
}

// ReceiveOrder records actual receipt of a PROCESSED order.
func (c *OrderController) ReceiveOrder(ctx *fiber.Ctx) error {
	raw := ctx.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	if err := ctx.BodyParser(&receiveOrderInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(receiveOrderInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	creator := engine.NewOrderPipelineCreator(c.DB)
	order, err := creator.RecordReceipt(types.SnowflakeID(id), receiveOrderInput.ReceivedQty,
		currentUserID(ctx), time.Now())
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Receipt recorded",
		"data":    fiber.Map{"order": order},
	})
}

func (c *OrderController) GetOrders(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.InventoryOrderPipeline{})

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if location := ctx.Query("location_code"); location != "" {
		query = query.Where("location_code = ?", location)
	}

	var orders []models.InventoryOrderPipeline
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"orders": orders},
	})
}
