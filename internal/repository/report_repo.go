package repository

import (
	"time"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderSummary aggregates completed orders: quantity, money moved, row count.
type OrderSummary struct {
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalOrders   int64           `json:"total_orders"`
}

// StockSummary aggregates products currently in stock.
type StockSummary struct {
	TotalProducts  int64           `json:"total_products"`
	TotalQuantity  int64           `json:"total_quantity"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
}

// TopProductRow is one row of the top-selling products report.
type TopProductRow struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	TotalSold    int64           `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	SaleCount    int64           `json:"sale_count"`
}

// TopSellerRow is one row of the top salespeople report.
type TopSellerRow struct {
	UserID       uuid.UUID       `json:"user_id"`
	FullName     string          `json:"full_name"`
	TotalSold    int64           `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	SaleCount    int64           `json:"sale_count"`
}

type ReportRepository interface {
	SalesSummary(from, to *time.Time, soldBy *uuid.UUID) (*OrderSummary, error)
	PurchaseSummary(from, to *time.Time) (*OrderSummary, error)
	StockSummary() (*StockSummary, error)
	LowStockProducts() ([]model.Product, error)
	OutOfStockProducts() ([]model.Product, error)
	TopProducts(from, to *time.Time, limit int, sortBy string) ([]TopProductRow, error)
	TopSellers(from, to *time.Time, limit int, sortBy string) ([]TopSellerRow, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func applyPeriod(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}

func (r *reportRepo) SalesSummary(from, to *time.Time, soldBy *uuid.UUID) (*OrderSummary, error) {
	var summary OrderSummary
	query := r.db.Model(&model.Sale{}).Where("status = ?", model.StatusCompleted)
	query = applyPeriod(query, "created_at", from, to)
	if soldBy != nil {
		query = query.Where("sold_by_user_id = ?", *soldBy)
	}

	row := query.Select(`
		COALESCE(SUM(quantity), 0),
		COALESCE(SUM(quantity * selling_price), 0),
		COUNT(id)
	`).Row()
	if err := row.Scan(&summary.TotalQuantity, &summary.TotalAmount, &summary.TotalOrders); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *reportRepo) PurchaseSummary(from, to *time.Time) (*OrderSummary, error) {
	var summary OrderSummary
	query := r.db.Model(&model.PurchaseOrder{}).Where("status = ?", model.StatusCompleted)
	query = applyPeriod(query, "created_at", from, to)

	row := query.Select(`
		COALESCE(SUM(quantity), 0),
		COALESCE(SUM(quantity * unit_price), 0),
		COUNT(id)
	`).Row()
	if err := row.Scan(&summary.TotalQuantity, &summary.TotalAmount, &summary.TotalOrders); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *reportRepo) StockSummary() (*StockSummary, error) {
	var summary StockSummary
	row := r.db.Model(&model.Product{}).
		Where("current_stock > 0").
		Select(`
			COUNT(id),
			COALESCE(SUM(current_stock), 0),
			COALESCE(SUM(current_stock * buying_price), 0)
		`).Row()
	if err := row.Scan(&summary.TotalProducts, &summary.TotalQuantity, &summary.InventoryValue); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *reportRepo) LowStockProducts() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Supplier").
		Where("current_stock > 0 AND current_stock <= reorder_level").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *reportRepo) OutOfStockProducts() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Supplier").
		Where("current_stock <= 0").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func topSortColumn(sortBy string) string {
	switch sortBy {
	case "revenue":
		return "total_revenue DESC"
	case "orders":
		return "sale_count DESC"
	default:
		return "total_sold DESC"
	}
}

func (r *reportRepo) TopProducts(from, to *time.Time, limit int, sortBy string) ([]TopProductRow, error) {
	query := r.db.Model(&model.Sale{}).Where("sales.status = ?", model.StatusCompleted)
	query = applyPeriod(query, "sales.created_at", from, to)

	rows, err := query.
		Joins("JOIN products ON products.id = sales.product_id").
		Select(`
			sales.product_id,
			products.name,
			COALESCE(SUM(sales.quantity), 0) as total_sold,
			COALESCE(SUM(sales.quantity * sales.selling_price), 0) as total_revenue,
			COUNT(sales.id) as sale_count
		`).
		Group("sales.product_id, products.name").
		Order(topSortColumn(sortBy)).
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TopProductRow
	for rows.Next() {
		var row TopProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.TotalSold, &row.TotalRevenue, &row.SaleCount); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, nil
}

func (r *reportRepo) TopSellers(from, to *time.Time, limit int, sortBy string) ([]TopSellerRow, error) {
	query := r.db.Model(&model.Sale{}).Where("sales.status = ?", model.StatusCompleted)
	query = applyPeriod(query, "sales.created_at", from, to)

	rows, err := query.
		Joins("JOIN users ON users.id = sales.sold_by_user_id").
		Select(`
			sales.sold_by_user_id,
			users.full_name,
			COALESCE(SUM(sales.quantity), 0) as total_sold,
			COALESCE(SUM(sales.quantity * sales.selling_price), 0) as total_revenue,
			COUNT(sales.id) as sale_count
		`).
		Group("sales.sold_by_user_id, users.full_name").
		Order(topSortColumn(sortBy)).
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TopSellerRow
	for rows.Next() {
		var row TopSellerRow
		if err := rows.Scan(&row.UserID, &row.FullName, &row.TotalSold, &row.TotalRevenue, &row.SaleCount); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, nil
}
