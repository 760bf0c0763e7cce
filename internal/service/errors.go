package service

import "errors"

// 购物车相关错误
var (
	ErrInvalidQuantity  = errors.New("数量必须为正整数")
	ErrCartItemNotFound = errors.New("购物车项不存在")
	ErrCartEmpty        = errors.New("购物车为空")
)

// 商品与库存相关错误
var (
	ErrProductNotFound     = errors.New("商品不存在")
	ErrProductNotAvailable = errors.New("商品不可购买")
	ErrInvalidAdjustment   = errors.New("库存调整量无效")
	ErrStockConflict       = errors.New("库存并发冲突，请重试")
)

// 订单相关错误
var (
	ErrOrderNotFound        = errors.New("订单不存在")
	ErrInvalidOrderStatus   = errors.New("订单状态无效")
	ErrIllegalTransition    = errors.New("订单状态不允许该变更")
	ErrInvalidPaymentMethod = errors.New("支付方式无效")
	ErrCheckoutFailed       = errors.New("结算失败")
)

// 评价相关错误
var (
	ErrInvalidRating     = errors.New("评分必须为 1 到 5 的整数")
	ErrOrderNotDelivered = errors.New("仅送达订单可评价")
	ErrProductNotInOrder = errors.New("商品不属于该订单")
	ErrDuplicateFeedback = errors.New("该商品已评价")
)

// 认证相关错误
var (
	ErrInvalidToken       = errors.New("令牌无效")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)
