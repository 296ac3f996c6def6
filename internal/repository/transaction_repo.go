package repository

import (
	"time"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows ledger listings. CreatedBy scopes the listing to a
// single user's entries (ownership check for non-managers).
type TransactionFilter struct {
	Type      string
	CreatedBy *uuid.UUID
}

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.StockTransaction) error
	FindAll(filter TransactionFilter) ([]model.StockTransaction, error)
	FindByID(id uuid.UUID) (*model.StockTransaction, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData is one day of aggregated ledger volume for charts.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create persists a ledger entry inside the caller's transaction so the row
// and the product stock adjustment commit together.
func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.StockTransaction) error {
	return tx.Create(transaction).Error
}

func (r *transactionRepo) FindAll(filter TransactionFilter) ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	query := r.db.Preload("Product").Preload("CreatedByUser")
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by_user_id = ?", *filter.CreatedBy)
	}
	err := query.Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.StockTransaction, error) {
	var transaction model.StockTransaction
	err := r.db.Preload("Product").Preload("CreatedByUser").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockTransaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
