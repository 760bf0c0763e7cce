package service

import (
	"errors"
	"testing"

	"github.com/campusmart/internal/constants"
	"github.com/campusmart/internal/models"
)

func TestAcceptDecrementsStockExactlyOnce(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 10)

	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	orderIDs := checkoutOrders(t, svcs, student.ID, CheckoutInput{})

	if err := svcs.order.UpdateOrderStatus(vendor.ID, orderIDs[0], constants.OrderStatusProcessing); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 7 {
		t.Fatalf("expected stock 7, got %d", reloaded.StockQuantity)
	}

	// 重复接单不生效也不重复扣减
	if err := svcs.order.UpdateOrderStatus(vendor.ID, orderIDs[0], constants.OrderStatusProcessing); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition on repeat accept, got %v", err)
	}
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 7 {
		t.Fatalf("double decrement: expected stock 7, got %d", reloaded.StockQuantity)
	}

	var auditCount int64
	if err := db.Model(&models.InventoryAdjustment{}).Where("product_id = ?", product.ID).Count(&auditCount).Error; err != nil {
		t.Fatalf("count audits failed: %v", err)
	}
	if auditCount != 1 {
		t.Fatalf("expected one audit row, got %d", auditCount)
	}
}

func TestAcceptClampsStockAtZero(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 10)

	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 15}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	orderIDs := checkoutOrders(t, svcs, student.ID, CheckoutInput{})

	if err := svcs.order.UpdateOrderStatus(vendor.ID, orderIDs[0], constants.OrderStatusProcessing); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 0 {
		t.Fatalf("expected stock 0, got %d", reloaded.StockQuantity)
	}

	var adj models.InventoryAdjustment
	if err := db.Where("product_id = ?", product.ID).First(&adj).Error; err != nil {
		t.Fatalf("load audit failed: %v", err)
	}
	if adj.Delta != -10 || adj.PreviousStock != 10 || adj.NewStock != 0 {
		t.Fatalf("expected applied delta -10, got %+v", adj)
	}
	if adj.OrderID == nil || *adj.OrderID != orderIDs[0] {
		t.Fatalf("expected audit linked to order %d, got %v", orderIDs[0], adj.OrderID)
	}
	if adj.Reason != constants.AdjustReasonOrderAccepted {
		t.Fatalf("expected order_accepted reason, got %s", adj.Reason)
	}
}

func TestDeliveredCompletesPayment(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 10)

	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	orderIDs := checkoutOrders(t, svcs, student.ID, CheckoutInput{})

	for _, next := range []string{
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		if err := svcs.order.UpdateOrderStatus(vendor.ID, orderIDs[0], next); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	var order models.Order
	if err := db.Preload("Payment").First(&order, orderIDs[0]).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", order.Status)
	}
	if order.DeliveredAt == nil {
		t.Fatalf("expected delivered_at set")
	}
	if order.Payment == nil || order.Payment.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %+v", order.Payment)
	}
	if order.Payment.CompletedAt == nil {
		t.Fatalf("expected payment completed_at set")
	}
}

func TestCancelTransitions(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 10)

	// pending -> cancelled，不扣库存
	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	first := checkoutOrders(t, svcs, student.ID, CheckoutInput{})
	if err := svcs.order.UpdateOrderStatus(vendor.ID, first[0], constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel pending failed: %v", err)
	}
	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 10 {
		t.Fatalf("cancel must not touch stock, got %d", reloaded.StockQuantity)
	}

	// processing -> cancelled 允许
	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	second := checkoutOrders(t, svcs, student.ID, CheckoutInput{})
	if err := svcs.order.UpdateOrderStatus(vendor.ID, second[0], constants.OrderStatusProcessing); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := svcs.order.UpdateOrderStatus(vendor.ID, second[0], constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel processing failed: %v", err)
	}
	if status := mustStatus(t, db, second[0]); status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", status)
	}

	// shipped 之后不可取消
	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	third := checkoutOrders(t, svcs, student.ID, CheckoutInput{})
	for _, next := range []string{constants.OrderStatusProcessing, constants.OrderStatusShipped} {
		if err := svcs.order.UpdateOrderStatus(vendor.ID, third[0], next); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}
	if err := svcs.order.UpdateOrderStatus(vendor.ID, third[0], constants.OrderStatusCancelled); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition for shipped order, got %v", err)
	}
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svcs := newTestServices(db)
	vendor := createTestUser(t, db, "vendor@test", constants.RoleVendor)
	intruder := createTestUser(t, db, "intruder@test", constants.RoleVendor)
	student := createTestUser(t, db, "student@test", constants.RoleStudent)
	product := createTestProduct(t, db, vendor.ID, "辣条", 9.9, 10)

	if _, err := svcs.cart.AddItem(AddCartItemInput{UserID: student.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	orderIDs := checkoutOrders(t, svcs, student.ID, CheckoutInput{})

	if err := svcs.order.UpdateOrderStatus(vendor.ID, orderIDs[0], "teleported"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
	}
	// 跨越状态机不允许
	if err := svcs.order.UpdateOrderStatus(vendor.ID, orderIDs[0], constants.OrderStatusDelivered); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition for pending->delivered, got %v", err)
	}
	// 非本商家的订单按不存在处理
	if err := svcs.order.UpdateOrderStatus(intruder.ID, orderIDs[0], constants.OrderStatusProcessing); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign vendor, got %v", err)
	}
	if status := mustStatus(t, db, orderIDs[0]); status != constants.OrderStatusPending {
		t.Fatalf("order should stay pending, got %s", status)
	}
}
