package models

import (
	"time"
)

// Payment 支付记录（与订单一对一，外部交易号仅留存用于对账，不做校验）
type Payment struct {
	ID            uint       `gorm:"primarykey" json:"id"`                      // 主键
	OrderID       uint       `gorm:"uniqueIndex;not null" json:"order_id"`      // 订单ID（一对一）
	Method        string     `gorm:"not null" json:"method"`                    // 支付方式（cash/external）
	Status        string     `gorm:"index;not null" json:"status"`              // 支付状态（pending/completed）
	Amount        Money      `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额（= 订单总额）
	TransactionID string     `gorm:"index" json:"transaction_id"`               // 外部交易号
	CompletedAt   *time.Time `gorm:"index" json:"completed_at"`                 // 完成时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`                   // 更新时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
