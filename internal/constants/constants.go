package constants

// 用户角色常量
const (
	RoleStudent = "student"
	RoleVendor  = "vendor"
	RoleAdmin   = "admin"
)

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 支付方式常量
const (
	PaymentMethodCash     = "cash"
	PaymentMethodExternal = "external"
)

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// 库存调整原因常量
const (
	AdjustReasonOrderAccepted = "order_accepted"
	AdjustReasonManualAdjust  = "manual_adjust"
)
