package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is a one-way state: Pending -> Completed, no reverse transition.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
)

// PurchaseOrder restocks a product from its supplier. UnitPrice is a snapshot
// of the product's buying price at creation time and is not editable afterwards.
// Completing the order is the sole trigger for an IN ledger entry.
type PurchaseOrder struct {
	BaseModel
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Status    OrderStatus     `gorm:"type:varchar(10);not null;default:'Pending'" json:"status"`

	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty" validate:"-"`
}

// Sale sells product stock to a customer. SellingPrice is a snapshot of the
// product's selling price at creation time. Completing the sale is the sole
// trigger for an OUT ledger entry.
type Sale struct {
	BaseModel
	Quantity     int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"selling_price"`
	Status       OrderStatus     `gorm:"type:varchar(10);not null;default:'Pending'" json:"status"`

	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	SoldByUserID *uuid.UUID `gorm:"type:uuid;index" json:"sold_by_user_id,omitempty"`
	SoldBy       *User      `gorm:"foreignKey:SoldByUserID" json:"sold_by,omitempty" validate:"-"`
}
