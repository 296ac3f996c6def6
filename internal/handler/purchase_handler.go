package handler

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	orders service.OrderService
}

func NewPurchaseHandler(orders service.OrderService) *PurchaseHandler {
	return &PurchaseHandler{orders: orders}
}

// POST /api/v1/purchases
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var purchase model.PurchaseOrder
	if err := c.BodyParser(&purchase); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.orders.CreatePurchase(actorFromCtx(c), &purchase); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Purchase order created", "data": purchase})
}

// GET /api/v1/purchases?search=
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	purchases, err := h.orders.GetPurchases(c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(purchases)
}

// GET /api/v1/purchases/:id
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase ID"})
	}

	purchase, err := h.orders.GetPurchaseByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(purchase)
}

// Complete flips a pending purchase order to Completed and stocks the
// product in.
// POST /api/v1/purchases/:id/complete
func (h *PurchaseHandler) Complete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase ID"})
	}

	purchase, err := h.orders.CompletePurchase(actorFromCtx(c), id)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Purchase order completed", "data": purchase})
}
