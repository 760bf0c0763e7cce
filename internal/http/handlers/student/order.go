package student

import (
	"net/http"
	"strconv"
	"time"

	handlershared "github.com/campusmart/internal/http/handlers/shared"
	"github.com/campusmart/internal/http/response"
	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"
	"github.com/campusmart/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求。幂等键优先取 X-Idempotency-Key 请求头，
// 请求体里的 idempotencyKey 作为兜底。
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	TransactionID   string `json:"transactionId"`
	IdempotencyKey  string `json:"idempotencyKey"`
}

// OrderItemResponse 订单项响应（含该项的评价状态）
type OrderItemResponse struct {
	ItemID      uint             `json:"itemId"`
	ProductID   uint             `json:"productId"`
	ProductName string           `json:"productName"`
	UnitPrice   models.Money     `json:"unitPrice"`
	Quantity    int              `json:"quantity"`
	Subtotal    models.Money     `json:"subtotal"`
	Reviewed    bool             `json:"reviewed"`
	Feedback    *FeedbackSummary `json:"feedback,omitempty"`
}

// FeedbackSummary 订单项上的评价摘要
type FeedbackSummary struct {
	FeedbackID uint      `json:"feedbackId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PaymentResponse 支付记录响应
type PaymentResponse struct {
	PaymentID     uint         `json:"paymentId"`
	Method        string       `json:"method"`
	Status        string       `json:"status"`
	Amount        models.Money `json:"amount"`
	TransactionID string       `json:"transactionId,omitempty"`
	CompletedAt   *time.Time   `json:"completedAt,omitempty"`
}

// OrderResponse 学生订单响应
type OrderResponse struct {
	OrderID         uint                `json:"orderId"`
	OrderNo         string              `json:"orderNo"`
	VendorID        uint                `json:"vendorId"`
	Status          string              `json:"status"`
	TotalAmount     models.Money        `json:"totalAmount"`
	ShippingAddress string              `json:"shippingAddress,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	AcceptedAt      *time.Time          `json:"acceptedAt,omitempty"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time          `json:"cancelledAt,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	Payment         *PaymentResponse    `json:"payment,omitempty"`
}

func newOrderResponse(detail service.OrderDetail) OrderResponse {
	resp := OrderResponse{
		OrderID:         detail.Order.ID,
		OrderNo:         detail.Order.OrderNo,
		VendorID:        detail.Order.VendorID,
		Status:          detail.Order.Status,
		TotalAmount:     detail.Order.TotalAmount,
		ShippingAddress: detail.Order.ShippingAddress,
		CreatedAt:       detail.Order.CreatedAt,
		AcceptedAt:      detail.Order.AcceptedAt,
		DeliveredAt:     detail.Order.DeliveredAt,
		CancelledAt:     detail.Order.CancelledAt,
		Items:           make([]OrderItemResponse, 0, len(detail.Items)),
	}
	for _, item := range detail.Items {
		itemResp := OrderItemResponse{
			ItemID:      item.Item.ID,
			ProductID:   item.Item.ProductID,
			ProductName: item.Item.ProductName,
			UnitPrice:   item.Item.UnitPrice,
			Quantity:    item.Item.Quantity,
			Subtotal:    item.Item.Subtotal,
			Reviewed:    item.Reviewed,
		}
		if item.Feedback != nil {
			itemResp.Feedback = &FeedbackSummary{
				FeedbackID: item.Feedback.ID,
				Rating:     item.Feedback.Rating,
				Comment:    item.Feedback.Comment,
				CreatedAt:  item.Feedback.CreatedAt,
			}
		}
		resp.Items = append(resp.Items, itemResp)
	}
	if detail.Order.Payment != nil {
		resp.Payment = &PaymentResponse{
			PaymentID:     detail.Order.Payment.ID,
			Method:        detail.Order.Payment.Method,
			Status:        detail.Order.Payment.Status,
			Amount:        detail.Order.Payment.Amount,
			TransactionID: detail.Order.Payment.TransactionID,
			CompletedAt:   detail.Order.Payment.CompletedAt,
		}
	}
	return resp
}

// Checkout 购物车结算，按商家拆分生成订单，返回生成的订单 ID 列表。
// 携带相同幂等键重试返回已生成的订单 ID，不会重复下单。
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			handlershared.RespondError(c, http.StatusBadRequest, "请求参数错误", err)
			return
		}
	}
	idempotencyKey := c.GetHeader("X-Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = req.IdempotencyKey
	}

	orderIDs, err := h.OrderService.Checkout(service.CheckoutInput{
		UserID:          uid,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		TransactionID:   req.TransactionID,
		IdempotencyKey:  idempotencyKey,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	response.Created(c, gin.H{"orderIds": orderIDs})
}

// GetOrder 学生订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID := parseIDParam(c, "id")
	if orderID == 0 {
		return
	}

	detail, err := h.OrderService.GetUserOrderDetail(c.Request.Context(), orderID, uid)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	response.Success(c, gin.H{"order": newOrderResponse(*detail)})
}

// ListOrders 学生订单列表，订单项附带评价状态，订单附带支付记录
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	details, total, err := h.OrderService.ListUserOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   c.Query("status"),
	})
	if err != nil {
		handlershared.RespondError(c, http.StatusInternalServerError, "订单查询失败", err)
		return
	}

	orders := make([]OrderResponse, 0, len(details))
	for _, detail := range details {
		orders = append(orders, newOrderResponse(detail))
	}

	response.Success(c, gin.H{"orders": orders, "total": total})
}
