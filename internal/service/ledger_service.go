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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService is the single entry point for stock mutation. Every caller
// (direct adjustment, purchase completion, sale completion) funnels through
// Record/RecordIn; nothing else writes product.current_stock.
type LedgerService interface {
	// Record runs the ledger write in its own database transaction and fires
	// low-stock alerting after commit.
	Record(actor Actor, entry *model.StockTransaction) error
	// RecordIn runs the ledger write inside the caller's transaction so an
	// order status flip and its ledger entry commit or abort together. The
	// caller owns post-commit side effects.
	RecordIn(tx *gorm.DB, actor Actor, entry *model.StockTransaction) error
	GetAll(actor Actor, txType string) ([]model.StockTransaction, error)
	GetByID(actor Actor, id uuid.UUID) (*model.StockTransaction, error)
}

type ledgerService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	mailer          AlertMailer
	wsHub           *ws.Hub
}

func NewLedgerService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, mailer AlertMailer, hub *ws.Hub) LedgerService {
	return &ledgerService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		mailer:          mailer,
		wsHub:           hub,
	}
}

func (s *ledgerService) Record(actor Actor, entry *model.StockTransaction) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.RecordIn(tx, actor, entry)
	})
	if err != nil {
		return err
	}

	s.announce(actor, entry)
	if entry.Product != nil && entry.Product.LowOnStock() {
		s.alertLowStock(entry.Product)
	}
	return nil
}

func (s *ledgerService) RecordIn(tx *gorm.DB, actor Actor, entry *model.StockTransaction) error {
	if errs := validator.ValidateStruct(entry); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var product model.Product
	if err := tx.First(&product, "id = ?", entry.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	delta := entry.Quantity
	if entry.Type == model.TxOut {
		delta = -entry.Quantity
	}

	// Guarded single-statement adjustment: for OUT the WHERE clause refuses
	// to take current_stock below zero, so two concurrent completions against
	// the same product cannot both succeed past the remaining stock.
	applied, err := s.productRepo.AdjustStock(tx, product.ID, delta, actor.ID.String())
	if err != nil {
		return err
	}
	if !applied {
		return ErrInsufficientStock
	}

	// Total is always recomputed, never trusted from caller input.
	entry.TotalPrice = entry.UnitPrice.Mul(decimal.NewFromInt(int64(entry.Quantity)))
	entry.CreatedBy = actor.ID.String()
	entry.UpdatedBy = actor.ID.String()
	actorID := actor.ID
	entry.CreatedByUserID = &actorID

	if err := s.transactionRepo.Create(tx, entry); err != nil {
		return err
	}

	product.CurrentStock += delta
	entry.Product = &product
	return nil
}

func (s *ledgerService) GetAll(actor Actor, txType string) ([]model.StockTransaction, error) {
	filter := repository.TransactionFilter{Type: txType}
	if !actor.Manager {
		// Non-managers only see their own ledger entries
		actorID := actor.ID
		filter.CreatedBy = &actorID
	}
	return s.transactionRepo.FindAll(filter)
}

func (s *ledgerService) GetByID(actor Actor, id uuid.UUID) (*model.StockTransaction, error) {
	entry, err := s.transactionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.Manager && (entry.CreatedByUserID == nil || *entry.CreatedByUserID != actor.ID) {
		return nil, ErrForbidden
	}
	return entry, nil
}

func (s *ledgerService) announce(actor Actor, entry *model.StockTransaction) {
	if s.wsHub == nil || entry.Product == nil {
		return
	}
	verb := "added"
	if entry.Type == model.TxOut {
		verb = "removed"
	}
	s.wsHub.PublishStockUpdate(map[string]interface{}{
		"transaction_id": entry.ID,
		"type":           entry.Type,
		"quantity":       entry.Quantity,
		"product_id":     entry.ProductID,
		"sku":            entry.Product.SKU,
		"new_stock":      entry.Product.CurrentStock,
		"user_id":        actor.ID,
	}, fmt.Sprintf("%s %s %d units of '%s' (%s)", actor.Name, verb, entry.Quantity, entry.Product.Name, entry.Type))
}

// alertLowStock is best-effort: a failed mail is logged and never propagated.
func (s *ledgerService) alertLowStock(product *model.Product) {
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
