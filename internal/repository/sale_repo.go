package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleFilter narrows sale listings. SoldBy scopes the listing to one
// salesperson's records (ownership check for non-managers).
type SaleFilter struct {
	Search string
	SoldBy *uuid.UUID
}

type SaleRepository interface {
	Create(sale *model.Sale) error
	FindAll(filter SaleFilter) ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	MarkCompleted(tx *gorm.DB, id uuid.UUID, updatedBy string) (bool, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(sale *model.Sale) error {
	return r.db.Create(sale).Error
}

func (r *saleRepo) FindAll(filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	query := r.db.Preload("Product").Preload("SoldBy")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Joins("JOIN products ON products.id = sales.product_id").
			Where("LOWER(products.name) LIKE LOWER(?) OR LOWER(products.category) LIKE LOWER(?)", like, like)
	}
	if filter.SoldBy != nil {
		query = query.Where("sold_by_user_id = ?", *filter.SoldBy)
	}
	err := query.Order("sales.created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Product").Preload("SoldBy").First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// MarkCompleted flips Pending -> Completed inside the caller's transaction,
// guarded the same way as purchase completion.
func (r *saleRepo) MarkCompleted(tx *gorm.DB, id uuid.UUID, updatedBy string) (bool, error) {
	res := tx.Model(&model.Sale{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":     model.StatusCompleted,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
