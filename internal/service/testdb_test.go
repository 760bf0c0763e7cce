package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// setupServiceTestDB 打开独立内存库并做迁移。Checkout 等路径依赖
// models.DB 的事务入口，这里一并替换全局句柄。
func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB failed: %v", err)
	}
	// 内存库的并发写共用一个连接，避免 SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.InventoryAdjustment{},
		&models.Feedback{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  email,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, vendorID uint, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID:      vendorID,
		Name:          name,
		PriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

type testServices struct {
	cart      *CartService
	inventory *InventoryService
	order     *OrderService
	feedback  *FeedbackService
}

func newTestServices(db *gorm.DB) testServices {
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	adjustmentRepo := repository.NewInventoryAdjustmentRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	inventory := NewInventoryService(productRepo, adjustmentRepo)
	return testServices{
		cart:      NewCartService(cartRepo, productRepo),
		inventory: inventory,
		order:     NewOrderService(cartRepo, orderRepo, paymentRepo, feedbackRepo, inventory),
		feedback:  NewFeedbackService(feedbackRepo, orderRepo),
	}
}

// checkoutOrders 走完整加购结算链路，返回生成的订单 ID
func checkoutOrders(t *testing.T, svcs testServices, userID uint, input CheckoutInput) []uint {
	t.Helper()
	input.UserID = userID
	orderIDs, err := svcs.order.Checkout(input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return orderIDs
}

func mustStatus(t *testing.T, db *gorm.DB, orderID uint) string {
	t.Helper()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	return order.Status
}
