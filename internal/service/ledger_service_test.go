package service

import (
	"errors"
	"testing"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newLedgerService(db *gorm.DB, mailer AlertMailer) LedgerService {
	return NewLedgerService(repository.NewProductRepo(db), repository.NewTransactionRepo(db), db, mailer, nil)
}

func TestRecordInIncreasesStock(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-IN", 10, 5)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID: product.ID,
		Type:      model.TxIn,
		Quantity:  5,
		UnitPrice: decimal.NewFromInt(10),
	}
	if err := svc.Record(actor, entry); err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := reloadProduct(t, db, product.ID).CurrentStock; got != 15 {
		t.Fatalf("expected stock 15 got %d", got)
	}
	if !entry.TotalPrice.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected total 50 got %s", entry.TotalPrice)
	}

	var count int64
	if err := db.Model(&model.StockTransaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 ledger entry got %d", count)
	}
}

func TestRecordOutInsufficientStock(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-OUT", 3, 5)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID: product.ID,
		Type:      model.TxOut,
		Quantity:  5,
		UnitPrice: decimal.NewFromInt(15),
	}
	err := svc.Record(actor, entry)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock got %v", err)
	}

	// The failed transaction must leave no trace: stock unchanged, no entry.
	if got := reloadProduct(t, db, product.ID).CurrentStock; got != 3 {
		t.Fatalf("expected stock 3 got %d", got)
	}
	var count int64
	db.Model(&model.StockTransaction{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no ledger entries got %d", count)
	}
}

func TestRecordSucceedsWhenAlertMailFails(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &failingAlertMailer{}
	svc := newLedgerService(db, mailer)
	product := seedProduct(t, db, nil, "SKU-MAIL", 10, 5)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID: product.ID,
		Type:      model.TxOut,
		Quantity:  6,
		UnitPrice: decimal.NewFromInt(15),
	}
	// 10 -> 4 crosses the reorder level; the alert attempt fails but the
	// committed movement must stand.
	if err := svc.Record(actor, entry); err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := reloadProduct(t, db, product.ID).CurrentStock; got != 4 {
		t.Fatalf("expected stock 4 got %d", got)
	}
	var count int64
	if err := db.Model(&model.StockTransaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 ledger entry got %d", count)
	}
	if mailer.attempts != 1 {
		t.Fatalf("expected 1 alert attempt got %d", mailer.attempts)
	}
}

func TestRecordOutToExactlyZero(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-ZERO", 5, 2)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID: product.ID,
		Type:      model.TxOut,
		Quantity:  5,
		UnitPrice: decimal.NewFromInt(15),
	}
	if err := svc.Record(actor, entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := reloadProduct(t, db, product.ID).CurrentStock; got != 0 {
		t.Fatalf("expected stock 0 got %d", got)
	}
}

func TestRecordRejectsNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-NEG", 10, 5)
	actor := testActor(true)

	for _, qty := range []int{0, -3} {
		entry := &model.StockTransaction{
			ProductID: product.ID,
			Type:      model.TxIn,
			Quantity:  qty,
			UnitPrice: decimal.NewFromInt(10),
		}
		if err := svc.Record(actor, entry); err == nil {
			t.Fatalf("expected validation error for quantity %d", qty)
		}
	}
}

func TestRecordRecomputesTotalPrice(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-TOTAL", 10, 5)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID:  product.ID,
		Type:       model.TxIn,
		Quantity:   4,
		UnitPrice:  decimal.RequireFromString("2.50"),
		TotalPrice: decimal.NewFromInt(999), // caller-supplied total is ignored
	}
	if err := svc.Record(actor, entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !entry.TotalPrice.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected total 10 got %s", entry.TotalPrice)
	}
}

func TestLedgerSumMatchesCurrentStock(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-SUM", 0, 2)
	actor := testActor(true)

	moves := []struct {
		txType model.TransactionType
		qty    int
	}{
		{model.TxIn, 20},
		{model.TxOut, 7},
		{model.TxIn, 3},
		{model.TxOut, 6},
	}
	expected := 0
	for _, m := range moves {
		entry := &model.StockTransaction{
			ProductID: product.ID,
			Type:      m.txType,
			Quantity:  m.qty,
			UnitPrice: decimal.NewFromInt(1),
		}
		if err := svc.Record(actor, entry); err != nil {
			t.Fatalf("record %s %d: %v", m.txType, m.qty, err)
		}
		if m.txType == model.TxIn {
			expected += m.qty
		} else {
			expected -= m.qty
		}
	}

	if got := reloadProduct(t, db, product.ID).CurrentStock; got != expected {
		t.Fatalf("expected stock %d got %d", expected, got)
	}
}

func TestRecordFiresLowStockAlert(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAlertMailer{}
	svc := newLedgerService(db, mailer)
	product := seedProduct(t, db, nil, "SKU-ALERT", 10, 5)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID: product.ID,
		Type:      model.TxOut,
		Quantity:  6,
		UnitPrice: decimal.NewFromInt(15),
	}
	if err := svc.Record(actor, entry); err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(mailer.alerts) != 1 {
		t.Fatalf("expected 1 alert got %d", len(mailer.alerts))
	}
	if mailer.alerts[0].CurrentStock != 4 {
		t.Fatalf("expected alert at stock 4 got %d", mailer.alerts[0].CurrentStock)
	}
}

func TestRecordNoAlertAboveThreshold(t *testing.T) {
	db := setupTestDB(t, t.Name())
	mailer := &fakeAlertMailer{}
	svc := newLedgerService(db, mailer)
	product := seedProduct(t, db, nil, "SKU-NOALERT", 10, 5)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID: product.ID,
		Type:      model.TxOut,
		Quantity:  2,
		UnitPrice: decimal.NewFromInt(15),
	}
	if err := svc.Record(actor, entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mailer.alerts) != 0 {
		t.Fatalf("expected no alerts got %d", len(mailer.alerts))
	}
}

func TestGetAllScopesToOwnerForStaff(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-SCOPE", 100, 5)

	staff := testActor(false)
	manager := testActor(true)

	for _, actor := range []Actor{staff, manager} {
		entry := &model.StockTransaction{
			ProductID: product.ID,
			Type:      model.TxIn,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(10),
		}
		if err := svc.Record(actor, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	own, err := svc.GetAll(staff, "")
	if err != nil {
		t.Fatalf("get all (staff): %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected staff to see 1 entry got %d", len(own))
	}

	all, err := svc.GetAll(manager, "")
	if err != nil {
		t.Fatalf("get all (manager): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected manager to see 2 entries got %d", len(all))
	}
}

func TestGetByIDForbiddenForOtherStaff(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	product := seedProduct(t, db, nil, "SKU-FORBID", 10, 5)

	owner := testActor(false)
	entry := &model.StockTransaction{
		ProductID: product.ID,
		Type:      model.TxIn,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(10),
	}
	if err := svc.Record(owner, entry); err != nil {
		t.Fatalf("record: %v", err)
	}

	other := testActor(false)
	if _, err := svc.GetByID(other, entry.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden got %v", err)
	}

	manager := testActor(true)
	if _, err := svc.GetByID(manager, entry.ID); err != nil {
		t.Fatalf("manager should read any entry: %v", err)
	}
}

func TestRecordUnknownProduct(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newLedgerService(db, nil)
	actor := testActor(true)

	entry := &model.StockTransaction{
		ProductID: actor.ID, // random uuid, no such product
		Type:      model.TxIn,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(10),
	}
	if err := svc.Record(actor, entry); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound got %v", err)
	}
}
