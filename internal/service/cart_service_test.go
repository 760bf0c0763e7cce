package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/campusmart/internal/constants"
	"github.com/campusmart/internal/models"

	"github.com/shopspring/decimal"
)

func TestAddItemAccumulatesQuantity(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 100)

	first, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	second, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cart line, got %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ? AND product_id = ?", student.ID, product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cart lines failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one cart line, got %d", count)
	}
	if second.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", second.Quantity)
	}
}

func TestAddItemSnapshotsPriceAndVendor(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "冰红茶", 3.5, 60)

	item, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.VendorID != vendor.ID {
		t.Fatalf("expected vendor %d, got %d", vendor.ID, item.VendorID)
	}
	if item.ProductName != "冰红茶" {
		t.Fatalf("unexpected name snapshot: %s", item.ProductName)
	}
	if !item.UnitPrice.Decimal.Equal(decimal.NewFromFloat(3.5)) {
		t.Fatalf("unexpected price snapshot: %s", item.UnitPrice)
	}
}

func TestAddItemValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 100)

	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 0}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: -1}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: 9999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	product.IsActive = false
	if err := db.Save(product).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}
	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	other := createTestUser(t, db, "other@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 100)

	item, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svcs.cart.SetQuantity(student.ID, item.ID, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := svcs.cart.SetQuantity(other.ID, item.ID, 5); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound for other user, got %v", err)
	}

	if err := svcs.cart.SetQuantity(student.ID, item.ID, 5); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	items, err := svcs.cart.ListByUser(student.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("unexpected cart state: %+v", items)
	}

	// 数量置 0 等同删除
	if err := svcs.cart.SetQuantity(student.ID, item.ID, 0); err != nil {
		t.Fatalf("set zero failed: %v", err)
	}
	items, err = svcs.cart.ListByUser(student.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestRemoveAndClearAreIdempotent(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 100)

	item, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svcs.cart.RemoveItem(student.ID, item.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svcs.cart.RemoveItem(student.ID, item.ID); err != nil {
		t.Fatalf("repeat remove should be idempotent: %v", err)
	}
	if err := svcs.cart.Clear(student.ID); err != nil {
		t.Fatalf("clear on empty cart should succeed: %v", err)
	}
}

func TestConcurrentAddAccumulates(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 100)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent add failed: %v", err)
		}
	}

	items, err := svcs.cart.ListByUser(student.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one cart line, got %d", len(items))
	}
	if items[0].Quantity != workers {
		t.Fatalf("lost update: expected quantity %d, got %d", workers, items[0].Quantity)
	}
}

func TestAddItemSurvivesConcurrentClear(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 100)

	// 加购与清空交错执行，加购不得因为写后回读撞上清空而报内部错误
	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1})
			errs <- err
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			errs <- svcs.cart.Clear(student.ID)
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent add/clear failed: %v", err)
		}
	}
}
