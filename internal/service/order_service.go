package service

import (
	"errors"
	"fmt"
	"log"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService drives the Pending -> Completed state machine for purchase
// orders and sales. Completion is the sole trigger for ledger entries.
type OrderService interface {
	CreatePurchase(actor Actor, purchase *model.PurchaseOrder) error
	GetPurchases(search string) ([]model.PurchaseOrder, error)
	GetPurchaseByID(id uuid.UUID) (*model.PurchaseOrder, error)
	CompletePurchase(actor Actor, id uuid.UUID) (*model.PurchaseOrder, error)

	CreateSale(actor Actor, sale *model.Sale) error
	GetSales(actor Actor, search string) ([]model.Sale, error)
	GetSaleByID(actor Actor, id uuid.UUID) (*model.Sale, error)
	CompleteSale(actor Actor, id uuid.UUID) (*model.Sale, error)
}

type orderService struct {
	purchaseRepo repository.PurchaseRepository
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	ledger       LedgerService
	db           *gorm.DB
	mailer       AlertMailer
	wsHub        *ws.Hub
}

func NewOrderService(
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	ledger LedgerService,
	db *gorm.DB,
	mailer AlertMailer,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		ledger:       ledger,
		db:           db,
		mailer:       mailer,
		wsHub:        hub,
	}
}

func (s *orderService) CreatePurchase(actor Actor, purchase *model.PurchaseOrder) error {
	if errs := validator.ValidateStruct(purchase); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	product, err := s.productRepo.FindByID(purchase.ProductID)
	if err != nil {
		return ErrProductNotFound
	}
	if _, err := s.supplierRepo.FindByID(purchase.SupplierID); err != nil {
		return ErrSupplierNotFound
	}

	// Referential cross-check: the supplier must actually supply the product.
	if product.SupplierID == nil || *product.SupplierID != purchase.SupplierID {
		return ErrSupplierMismatch
	}

	// Price snapshot at creation time, not editable afterwards.
	purchase.UnitPrice = product.BuyingPrice
	purchase.Status = model.StatusPending
	purchase.CreatedBy = actor.ID.String()
	purchase.UpdatedBy = actor.ID.String()

	return s.purchaseRepo.Create(purchase)
}

func (s *orderService) GetPurchases(search string) ([]model.PurchaseOrder, error) {
	return s.purchaseRepo.FindAll(search)
}

func (s *orderService) GetPurchaseByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	purchase, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return purchase, nil
}

// CompletePurchase flips the order to Completed and records the matching IN
// ledger entry in one transaction. Either both commit or neither does.
func (s *orderService) CompletePurchase(actor Actor, id uuid.UUID) (*model.PurchaseOrder, error) {
	purchase, err := s.GetPurchaseByID(id)
	if err != nil {
		return nil, err
	}

	entry := &model.StockTransaction{
		ProductID: purchase.ProductID,
		Type:      model.TxIn,
		Quantity:  purchase.Quantity,
		UnitPrice: purchase.UnitPrice,
		Note:      fmt.Sprintf("Purchase completed with id:%s", purchase.ID),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.purchaseRepo.MarkCompleted(tx, purchase.ID, actor.ID.String())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		return s.ledger.RecordIn(tx, actor, entry)
	})
	if err != nil {
		return nil, err
	}

	purchase.Status = model.StatusCompleted
	if s.wsHub != nil && entry.Product != nil {
		s.wsHub.PublishStockUpdate(map[string]interface{}{
			"purchase_id": purchase.ID,
			"product_id":  purchase.ProductID,
			"quantity":    purchase.Quantity,
			"new_stock":   entry.Product.CurrentStock,
		}, fmt.Sprintf("%s completed purchase of %d units of '%s'", actor.Name, purchase.Quantity, entry.Product.Name))
	}
	return purchase, nil
}

func (s *orderService) CreateSale(actor Actor, sale *model.Sale) error {
	if errs := validator.ValidateStruct(sale); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	product, err := s.productRepo.FindByID(sale.ProductID)
	if err != nil {
		return ErrProductNotFound
	}

	// Point-in-time availability check. Stock is not reserved while the sale
	// is Pending; the completion-time ledger check is authoritative.
	if sale.Quantity > product.CurrentStock {
		return ErrInsufficientStock
	}

	// Price snapshot; the salesperson is always the acting user.
	sale.SellingPrice = product.SellingPrice
	sale.Status = model.StatusPending
	actorID := actor.ID
	sale.SoldByUserID = &actorID
	sale.CreatedBy = actor.ID.String()
	sale.UpdatedBy = actor.ID.String()

	return s.saleRepo.Create(sale)
}

func (s *orderService) GetSales(actor Actor, search string) ([]model.Sale, error) {
	filter := repository.SaleFilter{Search: search}
	if !actor.Manager {
		// Non-managers only see their own sales
		actorID := actor.ID
		filter.SoldBy = &actorID
	}
	return s.saleRepo.FindAll(filter)
}

func (s *orderService) GetSaleByID(actor Actor, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !actor.Manager && (sale.SoldByUserID == nil || *sale.SoldByUserID != actor.ID) {
		return nil, ErrForbidden
	}
	return sale, nil
}

// CompleteSale flips the sale to Completed and records the matching OUT
// ledger entry in one transaction. A sale whose stock has been consumed since
// creation fails here with ErrInsufficientStock and stays Pending.
func (s *orderService) CompleteSale(actor Actor, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.GetSaleByID(actor, id)
	if err != nil {
		return nil, err
	}

	entry := &model.StockTransaction{
		ProductID: sale.ProductID,
		Type:      model.TxOut,
		Quantity:  sale.Quantity,
		UnitPrice: sale.SellingPrice,
		Note:      fmt.Sprintf("Sale completed with id:%s", sale.ID),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.saleRepo.MarkCompleted(tx, sale.ID, actor.ID.String())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		return s.ledger.RecordIn(tx, actor, entry)
	})
	if err != nil {
		return nil, err
	}

	sale.Status = model.StatusCompleted

	product := entry.Product
	if s.wsHub != nil && product != nil {
		s.wsHub.PublishStockUpdate(map[string]interface{}{
			"sale_id":    sale.ID,
			"product_id": sale.ProductID,
			"quantity":   sale.Quantity,
			"new_stock":  product.CurrentStock,
		}, fmt.Sprintf("%s completed sale of %d units of '%s'", actor.Name, sale.Quantity, product.Name))
	}

	// Alerting is fire-and-forget: a failed mail never rolls back the sale.
	if product != nil && product.LowOnStock() {
		if s.mailer != nil {
			if err := s.mailer.LowStockAlert(product); err != nil {
				log.Printf("low stock alert for %s failed: %v", product.SKU, err)
			}
		}
		if s.wsHub != nil {
			s.wsHub.PublishLowStock(map[string]interface{}{
				"product_id":    product.ID,
				"sku":           product.SKU,
				"current_stock": product.CurrentStock,
				"reorder_level": product.ReorderLevel,
			}, fmt.Sprintf("'%s' is low on stock (%d left, reorder at %d)", product.Name, product.CurrentStock, product.ReorderLevel))
		}
	}

	return sale, nil
}
