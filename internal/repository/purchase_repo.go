package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(purchase *model.PurchaseOrder) error
	FindAll(search string) ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	MarkCompleted(tx *gorm.DB, id uuid.UUID, updatedBy string) (bool, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(purchase *model.PurchaseOrder) error {
	return r.db.Create(purchase).Error
}

func (r *purchaseRepo) FindAll(search string) ([]model.PurchaseOrder, error) {
	var purchases []model.PurchaseOrder
	query := r.db.Preload("Product").Preload("Supplier")
	if search != "" {
		like := "%" + search + "%"
		query = query.Joins("JOIN products ON products.id = purchase_orders.product_id").
			Where("LOWER(products.name) LIKE LOWER(?) OR LOWER(products.category) LIKE LOWER(?)", like, like)
	}
	err := query.Order("purchase_orders.created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var purchase model.PurchaseOrder
	err := r.db.Preload("Product").Preload("Supplier").First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// MarkCompleted flips Pending -> Completed inside the caller's transaction.
// The status guard in the WHERE clause makes re-completion a no-row update,
// which the service surfaces as an invalid transition.
func (r *purchaseRepo) MarkCompleted(tx *gorm.DB, id uuid.UUID, updatedBy string) (bool, error) {
	res := tx.Model(&model.PurchaseOrder{}).
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
