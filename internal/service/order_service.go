package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/campusmart/internal/cache"
	"github.com/campusmart/internal/constants"
	"github.com/campusmart/internal/logger"
	"github.com/campusmart/internal/metrics"
	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput 结算输入
type CheckoutInput struct {
	UserID          uint
	ShippingAddress string
	PaymentMethod   string
	TransactionID   string
	IdempotencyKey  string
}

// OrderDetail 学生订单详情（订单项附带评价状态，订单附带支付记录）
type OrderDetail struct {
	Order models.Order      `json:"order"`
	Items []OrderItemDetail `json:"items"`
}

// OrderItemDetail 订单项与该项的评价状态
type OrderItemDetail struct {
	Item     models.OrderItem `json:"item"`
	Feedback *models.Feedback `json:"feedback,omitempty"`
	Reviewed bool             `json:"reviewed"`
}

// OrderService 订单服务（结算拆单、状态流转与订单查询）
type OrderService struct {
	cartRepo     repository.CartRepository
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	feedbackRepo repository.FeedbackRepository
	inventorySvc *InventoryService
}

// NewOrderService 创建订单服务
func NewOrderService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	feedbackRepo repository.FeedbackRepository,
	inventorySvc *InventoryService,
) *OrderService {
	return &OrderService{
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		feedbackRepo: feedbackRepo,
		inventorySvc: inventorySvc,
	}
}

// Checkout 购物车结算。按商家拆分购物车行，为每个商家生成一笔订单与
// 一条待支付记录，订单项取购物车加购时的价格快照，最后一次性清空购物车。
// 整个流程包在单个事务里；(结算键, 商家) 唯一索引保证携带相同幂等键的
// 重试不会重复生成已落库的商家订单。
func (s *OrderService) Checkout(input CheckoutInput) ([]uint, error) {
	if input.UserID == 0 {
		return nil, ErrOrderNotFound
	}

	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = constants.PaymentMethodCash
	}
	if method != constants.PaymentMethodCash && method != constants.PaymentMethodExternal {
		return nil, ErrInvalidPaymentMethod
	}

	checkoutKey := strings.TrimSpace(input.IdempotencyKey)
	replay := checkoutKey != ""
	if checkoutKey == "" {
		checkoutKey = uuid.NewString()
	}

	// 幂等重试：该结算键已生成的商家订单直接复用
	materialized := map[uint]uint{}
	if replay {
		existing, err := s.orderRepo.ListByCheckoutKey(checkoutKey, input.UserID)
		if err != nil {
			return nil, err
		}
		for _, order := range existing {
			materialized[order.VendorID] = order.ID
		}
	}

	lines, err := s.cartRepo.ListByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		if len(materialized) > 0 {
			// 前次结算已完成并清空购物车，重试直接返回已生成的订单
			return orderIDsOf(materialized), nil
		}
		return nil, ErrCartEmpty
	}

	// 按商家分组，保持首次出现的顺序
	vendorOrder := make([]uint, 0, len(lines))
	groups := map[uint][]models.CartItem{}
	for _, line := range lines {
		if _, ok := groups[line.VendorID]; !ok {
			vendorOrder = append(vendorOrder, line.VendorID)
		}
		groups[line.VendorID] = append(groups[line.VendorID], line)
	}

	now := time.Now()
	orderIDs := make([]uint, 0, len(vendorOrder))

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		for _, vendorID := range vendorOrder {
			if existingID, ok := materialized[vendorID]; ok {
				orderIDs = append(orderIDs, existingID)
				continue
			}

			group := groups[vendorID]
			items := make([]models.OrderItem, 0, len(group))
			total := decimal.Zero
			for _, line := range group {
				subtotal := line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
				items = append(items, models.OrderItem{
					ProductID:   line.ProductID,
					ProductName: line.ProductName,
					UnitPrice:   line.UnitPrice,
					Quantity:    line.Quantity,
					Subtotal:    models.NewMoneyFromDecimal(subtotal),
					CreatedAt:   now,
				})
				total = total.Add(subtotal)
			}

			order := &models.Order{
				OrderNo:         generateOrderNo(),
				CheckoutKey:     checkoutKey,
				UserID:          input.UserID,
				VendorID:        vendorID,
				Status:          constants.OrderStatusPending,
				TotalAmount:     models.NewMoneyFromDecimal(total),
				ShippingAddress: strings.TrimSpace(input.ShippingAddress),
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := orderRepo.Create(order, items); err != nil {
				return err
			}

			payment := &models.Payment{
				OrderID:       order.ID,
				Method:        method,
				Status:        constants.PaymentStatusPending,
				Amount:        order.TotalAmount,
				TransactionID: strings.TrimSpace(input.TransactionID),
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := paymentRepo.Create(payment); err != nil {
				return err
			}
			orderIDs = append(orderIDs, order.ID)
		}

		return cartRepo.ClearByUser(input.UserID)
	})
	if err != nil {
		logger.Errorw("checkout_failed",
			"user_id", input.UserID,
			"checkout_key", checkoutKey,
			"error", err,
		)
		return nil, ErrCheckoutFailed
	}

	metrics.CheckoutOrdersTotal.Add(float64(len(orderIDs)))
	logger.Infow("checkout_succeeded",
		"user_id", input.UserID,
		"checkout_key", checkoutKey,
		"order_count", len(orderIDs),
	)
	return orderIDs, nil
}

// ListUserOrders 学生订单列表，每个订单项附带该学生的评价状态
func (s *OrderService) ListUserOrders(filter repository.OrderListFilter) ([]OrderDetail, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, err
	}

	orderIDs := make([]uint, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}
	feedbacks, err := s.feedbackRepo.ListByOrderIDs(orderIDs, filter.UserID)
	if err != nil {
		return nil, 0, err
	}
	feedbackIndex := map[[2]uint]*models.Feedback{}
	for i := range feedbacks {
		fb := &feedbacks[i]
		feedbackIndex[[2]uint{fb.OrderID, fb.ProductID}] = fb
	}

	details := make([]OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail := OrderDetail{Order: order, Items: make([]OrderItemDetail, 0, len(order.Items))}
		for _, item := range order.Items {
			fb := feedbackIndex[[2]uint{order.ID, item.ProductID}]
			detail.Items = append(detail.Items, OrderItemDetail{
				Item:     item,
				Feedback: fb,
				Reviewed: fb != nil,
			})
		}
		details = append(details, detail)
	}
	return details, total, nil
}

// ListVendorOrders 商家订单列表
func (s *OrderService) ListVendorOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByVendor(filter)
}

const orderDetailCacheTTL = 30 * time.Second

func orderDetailCacheKey(orderID, userID uint) string {
	return fmt.Sprintf("order:detail:%d:%d", orderID, userID)
}

// GetUserOrderDetail 学生订单详情，订单项附带评价状态。
// 详情读多写少，开启 Redis 时走 cache-aside，状态变更时主动失效。
func (s *OrderService) GetUserOrderDetail(ctx context.Context, orderID, userID uint) (*OrderDetail, error) {
	key := orderDetailCacheKey(orderID, userID)
	var cached OrderDetail
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	order, err := s.GetUserOrder(orderID, userID)
	if err != nil {
		return nil, err
	}

	feedbacks, err := s.feedbackRepo.ListByOrderIDs([]uint{order.ID}, userID)
	if err != nil {
		return nil, err
	}
	feedbackIndex := map[uint]*models.Feedback{}
	for i := range feedbacks {
		feedbackIndex[feedbacks[i].ProductID] = &feedbacks[i]
	}

	detail := &OrderDetail{Order: *order, Items: make([]OrderItemDetail, 0, len(order.Items))}
	for _, item := range order.Items {
		fb := feedbackIndex[item.ProductID]
		detail.Items = append(detail.Items, OrderItemDetail{
			Item:     item,
			Feedback: fb,
			Reviewed: fb != nil,
		})
	}

	if err := cache.SetJSON(ctx, key, detail, orderDetailCacheTTL); err != nil {
		logger.Warnw("order_detail_cache_set_failed", "order_id", orderID, "error", err)
	}
	return detail, nil
}

// GetUserOrder 学生订单详情
func (s *OrderService) GetUserOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func orderIDsOf(materialized map[uint]uint) []uint {
	ids := make([]uint, 0, len(materialized))
	for _, id := range materialized {
		ids = append(ids, id)
	}
	return ids
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("CM%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
