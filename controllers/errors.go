package controllers

import (
	"errors"
	"replenish-app/engine"

	"github.com/gofiber/fiber/v2"
)

// errorResponse maps the engine error taxonomy onto HTTP statuses.
func errorResponse(ctx *fiber.Ctx, err error) error {
	var notFound *engine.NotFoundError
	var validation *engine.ValidationError
	var conflict *engine.ConflictError

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
	case errors.As(err, &validation):
		status = fiber.StatusBadRequest
	case errors.As(err, &conflict):
		status = fiber.StatusConflict
	}

	return ctx.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func currentUserID(ctx *fiber.Ctx) int {
	if v, ok := ctx.Locals("userID").(float64); ok {
		return int(v)
	}
	return 0
}

func currentUsername(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals("username").(string); ok {
		return v
	}
	return ""
}
