package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name     string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Category string `gorm:"type:varchar(50)" json:"category"`

	BuyingPrice  decimal.Decimal `gorm:"type:decimal(10,2)" json:"buying_price" validate:"decimal_gte_zero"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"selling_price" validate:"decimal_gte_zero"`

	// CurrentStock is never written directly by callers; every mutation goes
	// through the stock ledger so the counter stays consistent with the log.
	CurrentStock int `gorm:"not null;default:0" json:"current_stock"`
	// No column default: an explicit zero threshold must survive the insert,
	// so the catalog service owns the fallback instead of the schema.
	ReorderLevel int `gorm:"not null" json:"reorder_level"`

	Slug string `gorm:"type:varchar(100);uniqueIndex" json:"slug"`

	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	// Relasi
	Transactions []StockTransaction `gorm:"constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// LowOnStock reports whether the product sits at or below its reorder threshold.
func (p *Product) LowOnStock() bool {
	return p.CurrentStock <= p.ReorderLevel
}
