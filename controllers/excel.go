package controllers

import (
	"fmt"
	"net/http"
	"replenish-app/models"
	"replenish-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// writeQueueExcel generates the replenishment-queue download.
func writeQueueExcel(ctx *fiber.Ctx, items []repositories.QueueRow) error {
	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Item Code")
	f.SetCellValue(sheet, "B1", "Item Name")
	f.SetCellValue(sheet, "C1", "Location")
	f.SetCellValue(sheet, "D1", "Zone")
	f.SetCellValue(sheet, "E1", "Buffer Units")
	f.SetCellValue(sheet, "F1", "Net Available")
	f.SetCellValue(sheet, "G1", "Buffer Gap")
	f.SetCellValue(sheet, "H1", "Days Of Supply")
	f.SetCellValue(sheet, "I1", "Action")
	f.SetCellValue(sheet, "J1", "Recommended Qty")
	f.SetCellValue(sheet, "K1", "Priority")
	f.SetCellValue(sheet, "L1", "Status")

	for i, item := range items {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), item.ProductCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), item.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), item.LocationCode)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), item.CurrentZone)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), item.BufferUnits)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), item.NetAvailableQty)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), item.BufferGap)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), item.DaysOfSupply)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", i+2), item.RecommendedAction)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", i+2), item.RecommendedQty)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", i+2), item.PriorityScore)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", i+2), item.Status)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="replenishment_queue.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}

// writeAdjustmentExcel generates the DBM adjustment-history download.
func writeAdjustmentExcel(ctx *fiber.Ctx, logs []models.BufferAdjustmentLog) error {
	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Item Code")
	f.SetCellValue(sheet, "B1", "Location")
	f.SetCellValue(sheet, "C1", "Current Units")
	f.SetCellValue(sheet, "D1", "Proposed Units")
	f.SetCellValue(sheet, "E1", "Final Units")
	f.SetCellValue(sheet, "F1", "Change %")
	f.SetCellValue(sheet, "G1", "Trigger")
	f.SetCellValue(sheet, "H1", "Zone")
	f.SetCellValue(sheet, "I1", "Days In Zone")
	f.SetCellValue(sheet, "J1", "Approval Status")
	f.SetCellValue(sheet, "K1", "Approved By")

	for i, logEntry := range logs {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), logEntry.ProductCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), logEntry.LocationCode)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), logEntry.CurrentBufferUnits)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), logEntry.ProposedBufferUnits)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), logEntry.FinalBufferUnits)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), logEntry.ChangePct)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), logEntry.TriggerReason)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), logEntry.ZoneAtTrigger)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", i+2), logEntry.ConsecutiveZoneDays)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", i+2), logEntry.ApprovalStatus)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", i+2), logEntry.ApprovedBy)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="buffer_adjustments.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}
