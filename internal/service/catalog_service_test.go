package service

import (
	"errors"
	"testing"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCatalogService(db *gorm.DB) CatalogService {
	return NewCatalogService(repository.NewSupplierRepo(db), repository.NewProductRepo(db))
}

func TestSupplierSlugCollisionGetsSuffix(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	first := &model.Supplier{Name: "Acme Ltd"}
	second := &model.Supplier{Name: "Acme Ltd"}
	if err := svc.CreateSupplier(actor, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := svc.CreateSupplier(actor, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.Slug != "acme-ltd" {
		t.Fatalf("expected slug acme-ltd got %s", first.Slug)
	}
	if second.Slug != "acme-ltd-1" {
		t.Fatalf("expected slug acme-ltd-1 got %s", second.Slug)
	}
}

func TestProductDuplicateSKURejected(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	if _, err := svc.CreateProduct(actor, &ProductRequest{SKU: "WIDGET-1", Name: "Widget"}); err != nil {
		t.Fatalf("create first: %v", err)
	}

	if _, err := svc.CreateProduct(actor, &ProductRequest{SKU: "WIDGET-1", Name: "Widget Copy"}); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU got %v", err)
	}

	// Changing an existing product's SKU onto a taken one is also rejected
	other, err := svc.CreateProduct(actor, &ProductRequest{SKU: "WIDGET-2", Name: "Other Widget"})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	req := &ProductRequest{SKU: "WIDGET-1", Name: "Other Widget"}
	if _, err := svc.UpdateProduct(actor, other.Slug, req); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU on update got %v", err)
	}
}

func TestCreateProductDefaultsReorderLevel(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	product, err := svc.CreateProduct(actor, &ProductRequest{SKU: "DEF-1", Name: "Defaulted"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.ReorderLevel != 5 {
		t.Fatalf("expected reorder level 5 got %d", product.ReorderLevel)
	}
}

func TestCreateProductExplicitZeroReorderLevel(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	// reorder_level 0 means "never alert" and must not fall back to the default
	zero := 0
	product, err := svc.CreateProduct(actor, &ProductRequest{SKU: "ZERO-1", Name: "No Alerts", ReorderLevel: &zero})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.ReorderLevel != 0 {
		t.Fatalf("expected reorder level 0 got %d", product.ReorderLevel)
	}
	if got := reloadProduct(t, db, product.ID).ReorderLevel; got != 0 {
		t.Fatalf("expected persisted reorder level 0 got %d", got)
	}

	// Omitting the field on update keeps the stored value
	if _, err := svc.UpdateProduct(actor, product.Slug, &ProductRequest{SKU: "ZERO-1", Name: "No Alerts"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := reloadProduct(t, db, product.ID).ReorderLevel; got != 0 {
		t.Fatalf("expected reorder level to stay 0 got %d", got)
	}
}

func TestCreateProductUnknownSupplier(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	ghost := actor.ID
	req := &ProductRequest{SKU: "GHOST-1", Name: "Ghost", SupplierID: &ghost}
	if _, err := svc.CreateProduct(actor, req); !errors.Is(err, ErrSupplierNotFound) {
		t.Fatalf("expected ErrSupplierNotFound got %v", err)
	}
}

func TestUpdateProductNeverTouchesStock(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	product := seedProduct(t, db, nil, "SKU-UPD", 42, 5)

	seven := 7
	req := &ProductRequest{
		SKU:          "SKU-UPD",
		Name:         "Renamed",
		SellingPrice: decimal.NewFromInt(20),
		ReorderLevel: &seven,
	}
	updated, err := svc.UpdateProduct(actor, product.Slug, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Renamed" || updated.ReorderLevel != 7 {
		t.Fatal("descriptive fields were not updated")
	}
	if got := reloadProduct(t, db, product.ID).CurrentStock; got != 42 {
		t.Fatalf("expected stock 42 got %d", got)
	}
}

func TestGetProductBySlugNotFound(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)

	if _, err := svc.GetProductBySlug("no-such-product"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound got %v", err)
	}
}

func TestDeleteSupplier(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	supplier := &model.Supplier{Name: "Doomed Supplies"}
	if err := svc.CreateSupplier(actor, supplier); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteSupplier(actor, supplier.Slug); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetSupplierBySlug(supplier.Slug); !errors.Is(err, ErrSupplierNotFound) {
		t.Fatalf("expected ErrSupplierNotFound got %v", err)
	}
}

func TestSupplierSearch(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	for _, name := range []string{"Northwind Traders", "Acme Ltd", "North Supplies"} {
		if err := svc.CreateSupplier(actor, &model.Supplier{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	// search must match regardless of letter case
	for _, term := range []string{"north", "NORTH", "North"} {
		matches, err := svc.GetSuppliers(term)
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(matches) != 2 {
			t.Fatalf("search %q: expected 2 matches got %d", term, len(matches))
		}
	}
}

func TestProductSearchIgnoresCase(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newCatalogService(db)
	actor := testActor(true)

	if _, err := svc.CreateProduct(actor, &ProductRequest{SKU: "CBL-1", Name: "HDMI Cable", Category: "Cables"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateProduct(actor, &ProductRequest{SKU: "MSE-1", Name: "Wireless Mouse"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, term := range []string{"hdmi", "HDMI", "cAbLe"} {
		matches, err := svc.GetProducts(term, "")
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(matches) != 1 || matches[0].SKU != "CBL-1" {
			t.Fatalf("search %q: expected only CBL-1, got %d matches", term, len(matches))
		}
	}
}
