package service

import (
	"errors"
	"fmt"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRequest carries product create/update input. ReorderLevel is a
// pointer so an explicit 0 (never alert) is distinguishable from an omitted
// field (default 5 on create, keep current on update).
type ProductRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category"`
	BuyingPrice  decimal.Decimal `json:"buying_price" validate:"decimal_gte_zero"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"decimal_gte_zero"`
	ReorderLevel *int            `json:"reorder_level" validate:"omitempty,gte=0"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
}

// CatalogService owns suppliers and products: descriptive fields and pricing.
// Stock levels are deliberately out of its reach; those change only through
// the stock ledger.
type CatalogService interface {
	CreateSupplier(actor Actor, supplier *model.Supplier) error
	GetSuppliers(search string) ([]model.Supplier, error)
	GetSupplierBySlug(slug string) (*model.Supplier, error)
	UpdateSupplier(actor Actor, slug string, req *model.Supplier) (*model.Supplier, error)
	DeleteSupplier(actor Actor, slug string) error

	CreateProduct(actor Actor, req *ProductRequest) (*model.Product, error)
	GetProducts(search, supplierName string) ([]model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	UpdateProduct(actor Actor, slug string, req *ProductRequest) (*model.Product, error)
	DeleteProduct(actor Actor, slug string) error
}

type catalogService struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
}

func NewCatalogService(supplierRepo repository.SupplierRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) CreateSupplier(actor Actor, supplier *model.Supplier) error {
	if errs := validator.ValidateStruct(supplier); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	supplier.CreatedBy = actor.ID.String()
	supplier.UpdatedBy = actor.ID.String()
	return s.supplierRepo.Create(supplier)
}

func (s *catalogService) GetSuppliers(search string) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(search)
}

func (s *catalogService) GetSupplierBySlug(slug string) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) UpdateSupplier(actor Actor, slug string, req *model.Supplier) (*model.Supplier, error) {
	supplier, err := s.GetSupplierBySlug(slug)
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	supplier.Name = req.Name
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.UpdatedBy = actor.ID.String()

	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) DeleteSupplier(actor Actor, slug string) error {
	supplier, err := s.GetSupplierBySlug(slug)
	if err != nil {
		return err
	}
	return s.supplierRepo.Delete(supplier.ID)
}

func (s *catalogService) CreateProduct(actor Actor, req *ProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// SKU collisions are a hard error, unlike slugs which self-resolve
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil {
		return nil, ErrDuplicateSKU
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(*req.SupplierID); err != nil {
			return nil, ErrSupplierNotFound
		}
	}

	product := &model.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		ReorderLevel: 5,
		SupplierID:   req.SupplierID,
	}
	// An explicit 0 is a valid threshold (product never alerts)
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}

	product.CreatedBy = actor.ID.String()
	product.UpdatedBy = actor.ID.String()
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetProducts(search, supplierName string) ([]model.Product, error) {
	return s.productRepo.FindAll(search, supplierName)
}

func (s *catalogService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct changes descriptive fields and pricing. CurrentStock is
// intentionally not copied from the request; stock moves only via the ledger.
func (s *catalogService) UpdateProduct(actor Actor, slug string, req *ProductRequest) (*model.Product, error) {
	product, err := s.GetProductBySlug(slug)
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if req.SKU != product.SKU {
		existing, _ := s.productRepo.FindBySKU(req.SKU)
		if existing != nil {
			return nil, ErrDuplicateSKU
		}
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(*req.SupplierID); err != nil {
			return nil, ErrSupplierNotFound
		}
	}

	product.Name = req.Name
	product.SKU = req.SKU
	product.Category = req.Category
	product.BuyingPrice = req.BuyingPrice
	product.SellingPrice = req.SellingPrice
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	product.SupplierID = req.SupplierID
	product.UpdatedBy = actor.ID.String()

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(actor Actor, slug string) error {
	product, err := s.GetProductBySlug(slug)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}
