package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindAll(search string) ([]model.Supplier, error)
	FindByID(id uuid.UUID) (*model.Supplier, error)
	FindBySlug(slug string) (*model.Supplier, error)
	Update(supplier *model.Supplier) error
	Delete(id uuid.UUID) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	if supplier.Slug == "" {
		s, err := uniqueSlug(r.db, &model.Supplier{}, supplier.Name)
		if err != nil {
			return err
		}
		supplier.Slug = s
	}
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) FindAll(search string) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	query := r.db.Preload("Products")
	if search != "" {
		// LOWER on both sides: postgres LIKE is case-sensitive
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	err := query.Order("created_at DESC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.Preload("Products").First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindBySlug(slug string) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.Preload("Products").First(&supplier, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(supplier *model.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *supplierRepo) Delete(id uuid.UUID) error {
	return r.db.Select("Products").Delete(&model.Supplier{BaseModel: model.BaseModel{ID: id}}).Error
}
