package handler

import (
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	catalog service.CatalogService
}

func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.CreateProduct(actorFromCtx(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// GET /api/v1/products?search=&supplier=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.catalog.GetProducts(c.Query("search"), c.Query("supplier"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// GET /api/v1/products/:slug
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.GetProductBySlug(c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// PUT /api/v1/products/:slug
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.UpdateProduct(actorFromCtx(c), c.Params("slug"), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/v1/products/:slug
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(actorFromCtx(c), c.Params("slug")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
