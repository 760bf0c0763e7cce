package models

import (
	"time"
)

// Order 订单表（一个订单只属于一个商家，多商家购物车结算会产生多个订单；
// (checkout_key, user_id, vendor_id) 唯一索引用于结算重试去重，
// 幂等键只在同一学生范围内生效，不同学生可复用同一键值）
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                              // 主键
	OrderNo         string     `gorm:"uniqueIndex;not null" json:"order_no"`                              // 订单编号
	CheckoutKey     string     `gorm:"not null;uniqueIndex:idx_orders_checkout_user_vendor" json:"checkout_key"` // 结算幂等键
	UserID          uint       `gorm:"not null;uniqueIndex:idx_orders_checkout_user_vendor;index" json:"user_id"` // 学生ID
	VendorID        uint       `gorm:"not null;uniqueIndex:idx_orders_checkout_user_vendor;index" json:"vendor_id"` // 商家ID
	Status          string     `gorm:"index;not null" json:"status"`                                      // 订单状态
	TotalAmount     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`         // 订单总额（= 各订单项小计之和）
	ShippingAddress string     `gorm:"type:text" json:"shipping_address"`                                 // 收货地址
	AcceptedAt      *time.Time `gorm:"index" json:"accepted_at"`                                          // 接单时间
	DeliveredAt     *time.Time `gorm:"index" json:"delivered_at"`                                         // 送达时间
	CancelledAt     *time.Time `gorm:"index" json:"cancelled_at"`                                         // 取消时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`                                           // 更新时间

	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`   // 订单项（不可变快照）
	Payment *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"` // 支付记录（一对一）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
