package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// StockTransaction is one immutable ledger entry. Rows are only ever created,
// never updated or deleted; the paired stock adjustment on the product commits
// in the same database transaction.
type StockTransaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Type      TransactionType `gorm:"type:varchar(3);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`

	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price" validate:"decimal_gte_zero"`
	// TotalPrice is always recomputed as Quantity * UnitPrice, never trusted
	// from caller input.
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_price"`

	Note string `gorm:"type:text" json:"note"`

	// User tracking
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
}
