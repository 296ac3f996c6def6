package handler

import (
	"errors"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// actorFromCtx builds the acting user from the JWT context set by RequireAuth.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{Name: "Unknown"}
	if v, ok := c.Locals("user_id").(string); ok {
		if id, err := uuid.Parse(v); err == nil {
			actor.ID = id
		}
	}
	if v, ok := c.Locals("user_name").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	if v, ok := c.Locals("user_role").(string); ok {
		actor.Manager = v == model.RoleManager
	}
	return actor
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return 403
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return 404
	case errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrEmailExists):
		return 409
	default:
		return 400
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}
