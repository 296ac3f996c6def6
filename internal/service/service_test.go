package service

import (
	"errors"
	"fmt"
	"testing"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&model.Privilege{}, &model.Role{}, &model.User{}, &model.OtpCode{},
		&model.Supplier{}, &model.Product{}, &model.StockTransaction{},
		&model.PurchaseOrder{}, &model.Sale{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeAlertMailer struct {
	alerts []*model.Product
}

func (f *fakeAlertMailer) LowStockAlert(product *model.Product) error {
	f.alerts = append(f.alerts, product)
	return nil
}

// failingAlertMailer simulates an unreachable SMTP server. Alert delivery is
// best effort, so callers must succeed anyway.
type failingAlertMailer struct {
	attempts int
}

func (f *failingAlertMailer) LowStockAlert(product *model.Product) error {
	f.attempts++
	return errors.New("smtp: connection refused")
}

type fakeAccountMailer struct {
	codes           []string
	welcomes        int
	passwordChanges int
}

func (f *fakeAccountMailer) OtpCode(to, name, code string) error {
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeAccountMailer) Welcome(to, name string) error {
	f.welcomes++
	return nil
}

func (f *fakeAccountMailer) PasswordChanged(to, name string) error {
	f.passwordChanges++
	return nil
}

func (f *fakeAccountMailer) lastCode(t *testing.T) string {
	if len(f.codes) == 0 {
		t.Fatal("no otp code was mailed")
	}
	return f.codes[len(f.codes)-1]
}

func testActor(manager bool) Actor {
	return Actor{ID: uuid.New(), Name: "Test User", Email: "tester@example.com", Manager: manager}
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *model.Supplier {
	supplier := &model.Supplier{Name: name, Slug: fmt.Sprintf("sup-%s", uuid.NewString()[:8])}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, supplier *model.Supplier, sku string, stock, reorder int) *model.Product {
	product := &model.Product{
		SKU:          sku,
		Name:         "Product " + sku,
		BuyingPrice:  decimal.NewFromInt(10),
		SellingPrice: decimal.NewFromInt(15),
		CurrentStock: stock,
		ReorderLevel: reorder,
		Slug:         "product-" + sku,
	}
	if supplier != nil {
		product.SupplierID = &supplier.ID
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	user := &model.User{Email: email, FullName: "User " + email, IsActive: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Product {
	var product model.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return &product
}
