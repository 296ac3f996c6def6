package handler

import (
	"time"

	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// parsePeriod reads optional from/to query params. Dates are accepted as
// YYYY-MM-DD or full RFC3339; "to" given as a bare date covers the whole day.
func parsePeriod(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if v := c.Query("from"); v != "" {
		t, err := parseDate(v, false)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v, true)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}

func parseDate(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// GET /api/v1/reports/sales?from=&to=&sales_person=
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	report, err := h.reports.SalesReport(from, to, c.Query("sales_person"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports/purchases?from=&to=
func (h *ReportHandler) Purchases(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	report, err := h.reports.PurchaseReport(from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// GET /api/v1/reports/stock
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	report, err := h.reports.StockReport()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// GET /api/v1/reports/profit?from=&to=
func (h *ReportHandler) Profit(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	report, err := h.reports.ProfitReport(from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// GET /api/v1/reports/top-products?from=&to=&limit=&sort=
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	rows, err := h.reports.TopProducts(from, to, c.QueryInt("limit", 10), c.Query("sort", "total_sold"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rows)
}

// GET /api/v1/reports/top-sellers?from=&to=&limit=&sort=
func (h *ReportHandler) TopSellers(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	rows, err := h.reports.TopSellers(from, to, c.QueryInt("limit", 10), c.Query("sort", "revenue"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rows)
}

// GET /api/v1/reports/stock-movement?days=
func (h *ReportHandler) StockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 || days > 365 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 365"})
	}

	data, err := h.reports.StockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(data)
}
