package service

import (
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService is read-only aggregation over completed orders and current
// stock. It never mutates anything; manager-only at the routing layer.
type ReportService interface {
	SalesReport(from, to *time.Time, salesPersonEmail string) (*SalesReport, error)
	PurchaseReport(from, to *time.Time) (*PurchaseReport, error)
	StockReport() (*StockReport, error)
	ProfitReport(from, to *time.Time) (*ProfitReport, error)
	TopProducts(from, to *time.Time, limit int, sortBy string) ([]repository.TopProductRow, error)
	TopSellers(from, to *time.Time, limit int, sortBy string) ([]repository.TopSellerRow, error)
	StockMovement(days int) ([]repository.StockMovementData, error)
}

type ReportPeriod struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

type SalesReport struct {
	Period       ReportPeriod            `json:"period"`
	Summary      repository.OrderSummary `json:"summary"`
	StaffSummary *StaffSalesSummary      `json:"staff_summary,omitempty"`
}

type StaffSalesSummary struct {
	SalesPerson string                  `json:"sales_person"`
	Summary     repository.OrderSummary `json:"summary"`
}

type PurchaseReport struct {
	Period  ReportPeriod            `json:"period"`
	Summary repository.OrderSummary `json:"summary"`
}

type StockReport struct {
	Summary    repository.StockSummary `json:"summary"`
	LowStock   []model.Product         `json:"low_stock_products"`
	OutOfStock []model.Product         `json:"out_of_stock_products"`
}

type ProfitReport struct {
	GeneratedAt       time.Time       `json:"generated_at"`
	Period            ReportPeriod    `json:"period"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	SalesCount        int64           `json:"sales_count"`
	PurchaseCount     int64           `json:"purchase_count"`
	SoldQuantity      int64           `json:"sold_quantity"`
	PurchasedQuantity int64           `json:"purchased_quantity"`
}

type reportService struct {
	reportRepo repository.ReportRepository
	txRepo     repository.TransactionRepository
	userRepo   repository.UserRepository
}

func NewReportService(reportRepo repository.ReportRepository, txRepo repository.TransactionRepository, userRepo repository.UserRepository) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		txRepo:     txRepo,
		userRepo:   userRepo,
	}
}

func (s *reportService) SalesReport(from, to *time.Time, salesPersonEmail string) (*SalesReport, error) {
	summary, err := s.reportRepo.SalesSummary(from, to, nil)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		Period:  ReportPeriod{From: from, To: to},
		Summary: *summary,
	}

	if salesPersonEmail != "" {
		user, err := s.userRepo.FindByEmail(salesPersonEmail)
		if err != nil {
			return nil, ErrUserNotFound
		}
		staffSummary, err := s.reportRepo.SalesSummary(from, to, &user.ID)
		if err != nil {
			return nil, err
		}
		report.StaffSummary = &StaffSalesSummary{
			SalesPerson: user.FullName,
			Summary:     *staffSummary,
		}
	}

	return report, nil
}

func (s *reportService) PurchaseReport(from, to *time.Time) (*PurchaseReport, error) {
	summary, err := s.reportRepo.PurchaseSummary(from, to)
	if err != nil {
		return nil, err
	}
	return &PurchaseReport{
		Period:  ReportPeriod{From: from, To: to},
		Summary: *summary,
	}, nil
}

func (s *reportService) StockReport() (*StockReport, error) {
	summary, err := s.reportRepo.StockSummary()
	if err != nil {
		return nil, err
	}
	low, err := s.reportRepo.LowStockProducts()
	if err != nil {
		return nil, err
	}
	out, err := s.reportRepo.OutOfStockProducts()
	if err != nil {
		return nil, err
	}
	return &StockReport{
		Summary:    *summary,
		LowStock:   low,
		OutOfStock: out,
	}, nil
}

func (s *reportService) ProfitReport(from, to *time.Time) (*ProfitReport, error) {
	sales, err := s.reportRepo.SalesSummary(from, to, nil)
	if err != nil {
		return nil, err
	}
	purchases, err := s.reportRepo.PurchaseSummary(from, to)
	if err != nil {
		return nil, err
	}

	profit := sales.TotalAmount.Sub(purchases.TotalAmount)
	margin := decimal.Zero
	if sales.TotalAmount.IsPositive() {
		margin = profit.Div(sales.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &ProfitReport{
		GeneratedAt:       time.Now(),
		Period:            ReportPeriod{From: from, To: to},
		TotalCost:         purchases.TotalAmount,
		TotalRevenue:      sales.TotalAmount,
		NetProfit:         profit,
		ProfitMargin:      margin,
		SalesCount:        sales.TotalOrders,
		PurchaseCount:     purchases.TotalOrders,
		SoldQuantity:      sales.TotalQuantity,
		PurchasedQuantity: purchases.TotalQuantity,
	}, nil
}

func (s *reportService) TopProducts(from, to *time.Time, limit int, sortBy string) ([]repository.TopProductRow, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.reportRepo.TopProducts(from, to, limit, sortBy)
}

func (s *reportService) TopSellers(from, to *time.Time, limit int, sortBy string) ([]repository.TopSellerRow, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.reportRepo.TopSellers(from, to, limit, sortBy)
}

func (s *reportService) StockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.txRepo.GetStockMovement(startDate, endDate)
}
