package handler

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	orders service.OrderService
}

func NewSaleHandler(orders service.OrderService) *SaleHandler {
	return &SaleHandler{orders: orders}
}

// POST /api/v1/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var sale model.Sale
	if err := c.BodyParser(&sale); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.orders.CreateSale(actorFromCtx(c), &sale); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale created", "data": sale})
}

// List returns the caller's own sales, or every sale for managers.
// GET /api/v1/sales?search=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.orders.GetSales(actorFromCtx(c), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.orders.GetSaleByID(actorFromCtx(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sale)
}

// Complete flips a pending sale to Completed and stocks the product out.
// POST /api/v1/sales/:id/complete
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.orders.CompleteSale(actorFromCtx(c), id)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Sale completed", "data": sale})
}
