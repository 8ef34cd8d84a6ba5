package controllers

import (
	"replenish-app/config"
	"replenish-app/repositories"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(DB *gorm.DB) *DashboardController {
	return &DashboardController{DB: DB}
}

func (c *DashboardController) GetSummary(ctx *fiber.Ctx) error {

	dashboard_repo := repositories.NewDashboardRepository(c.DB)
	staleCutoff := time.Now().Add(-time.Duration(config.Planning.RecalcCutoffHours) * time.Hour)

	summary, err := dashboard_repo.GetSummary(staleCutoff)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"summary": summary},
	})
}
