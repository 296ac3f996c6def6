package handler

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	catalog service.CatalogService
}

func NewSupplierHandler(catalog service.CatalogService) *SupplierHandler {
	return &SupplierHandler{catalog: catalog}
}

// POST /api/v1/suppliers
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateSupplier(actorFromCtx(c), &supplier); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

// GET /api/v1/suppliers?search=
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.catalog.GetSuppliers(c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(suppliers)
}

// GET /api/v1/suppliers/:slug
func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	supplier, err := h.catalog.GetSupplierBySlug(c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(supplier)
}

// PUT /api/v1/suppliers/:slug
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var req model.Supplier
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	supplier, err := h.catalog.UpdateSupplier(actorFromCtx(c), c.Params("slug"), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

// DELETE /api/v1/suppliers/:slug
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteSupplier(actorFromCtx(c), c.Params("slug")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
