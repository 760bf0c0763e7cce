package student

import (
	"net/http"
	"strconv"
	"time"

	handlershared "github.com/campusmart/internal/http/handlers/shared"
	"github.com/campusmart/internal/http/response"
	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求。接口统一使用 camelCase 键，
// 同时兼容读取旧客户端的 snake_case 同义字段，写入时只认规范字段。
type AddCartItemRequest struct {
	ProductID       uint `json:"productId"`
	Quantity        int  `json:"quantity"`
	LegacyProductID uint `json:"product_id"`
}

func (r *AddCartItemRequest) normalize() {
	if r.ProductID == 0 {
		r.ProductID = r.LegacyProductID
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
}

// UpdateCartItemRequest 修改购物车项数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartItemResponse 购物车项响应
type CartItemResponse struct {
	ItemID      uint         `json:"itemId"`
	ProductID   uint         `json:"productId"`
	VendorID    uint         `json:"vendorId"`
	ProductName string       `json:"productName"`
	UnitPrice   models.Money `json:"unitPrice"`
	Quantity    int          `json:"quantity"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func newCartItemResponse(item models.CartItem) CartItemResponse {
	return CartItemResponse{
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		VendorID:    item.VendorID,
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		UpdatedAt:   item.UpdatedAt,
	}
}

// AddCartItem 加入购物车，同一商品重复加购时数量累加
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "请求参数错误", err)
		return
	}
	req.normalize()
	if req.ProductID == 0 {
		handlershared.RespondError(c, http.StatusBadRequest, "缺少商品 ID", nil)
		return
	}

	item, err := h.CartService.AddItem(service.AddCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, gin.H{"itemId": item.ID, "quantity": item.Quantity})
}

// GetCart 获取购物车（最近加购优先）
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}

	respItems := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		respItems = append(respItems, newCartItemResponse(item))
	}

	response.Success(c, gin.H{"items": respItems})
}

// UpdateCartItem 修改购物车项数量，数量为 0 时删除该项
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID := parseIDParam(c, "id")
	if itemID == 0 {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "请求参数错误", err)
		return
	}

	if err := h.CartService.SetQuantity(uid, itemID, *req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveCartItem 删除购物车项，项不存在时视为已删除
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID := parseIDParam(c, "id")
	if itemID == 0 {
		return
	}

	if err := h.CartService.RemoveItem(uid, itemID); err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, nil)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(uid); err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, nil)
}

func parseIDParam(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		handlershared.RespondError(c, http.StatusBadRequest, "路径参数错误", err)
		return 0
	}
	return uint(id)
}
