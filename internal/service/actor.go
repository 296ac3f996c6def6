package service

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
)

// Actor identifies the authenticated user performing an operation. It is the
// only identity information the services need: a stable ID for attribution
// and the manager flag for ownership scoping.
type Actor struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Manager bool
}

// Mailer interfaces, implemented by internal/mailer. Split per consumer so
// tests can fake just what they need.
type AlertMailer interface {
	LowStockAlert(product *model.Product) error
}

type AccountMailer interface {
	OtpCode(to, name, code string) error
	Welcome(to, name string) error
	PasswordChanged(to, name string) error
}
