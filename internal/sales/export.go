package sales

import (
	"fmt"

	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/sales/export
// Streams the sales book as an xlsx download.
func ExportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sales []models.Sale
		if err := database.DB.Preload("Material").Preload("SaleLocation").Preload("RefinerySource").
			Order("sale_date DESC").
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Sales"
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create sheet")
		}
		f.SetActiveSheet(idx)
		f.DeleteSheet("Sheet1")

		headers := []string{"Date", "Material", "Quantity (SCU)", "Unit Price", "Revenue", "Refining Cost", "Profit", "Profit %", "Location", "Refinery"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, s := range sales {
			row := i + 2
			location := ""
			if s.SaleLocation != nil {
				location = s.SaleLocation.Name
			}
			refinery := ""
			if s.RefinerySource != nil {
				refinery = s.RefinerySource.Name
			}

			values := []interface{}{
				s.SaleDate.Format("2006-01-02 15:04"),
				s.Material.Name,
				s.QuantitySold.StringFixed(2),
				s.UnitPrice.StringFixed(2),
				s.TotalRevenue.StringFixed(2),
				s.RefiningCost.StringFixed(2),
				s.Profit().StringFixed(2),
				s.ProfitPercentage().StringFixed(2),
				location,
				refinery,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export file")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=sales-%d.xlsx", len(sales)))
		return c.Send(buf.Bytes())
	}
}
