package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(search, supplierName string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	if product.Slug == "" {
		s, err := uniqueSlug(r.db, &model.Product{}, product.Name)
		if err != nil {
			return err
		}
		product.Slug = s
	}
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(search, supplierName string) ([]model.Product, error) {
	var products []model.Product
	query := r.db.Preload("Supplier")
	if search != "" {
		// LOWER on both sides: postgres LIKE is case-sensitive
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)", like, like, like)
	}
	if supplierName != "" {
		query = query.Joins("JOIN suppliers ON suppliers.id = products.supplier_id").
			Where("LOWER(suppliers.name) LIKE LOWER(?)", "%"+supplierName+"%")
	}
	err := query.Order("products.created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Supplier").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Supplier").First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// AdjustStock applies a signed stock delta inside the caller's transaction.
// For decrements the WHERE clause refuses to take the counter below zero, so
// the non-negativity invariant holds even under concurrent writers. The
// returned bool reports whether the update was applied.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error) {
	query := tx.Model(&model.Product{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("current_stock >= ?", -delta)
	}
	res := query.Updates(map[string]interface{}{
		"current_stock": gorm.Expr("current_stock + ?", delta),
		"updated_by":    updatedBy,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
