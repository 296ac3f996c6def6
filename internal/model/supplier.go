package model

// Supplier owns zero or more products and is referenced by purchase orders.
type Supplier struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Email   string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`
	// URL-safe identifier derived from Name, disambiguated with a numeric suffix
	Slug string `gorm:"type:varchar(100);uniqueIndex" json:"slug"`

	// Relasi
	Products []Product `gorm:"constraint:OnDelete:CASCADE" json:"products,omitempty"`
}
