package models

import (
	"time"
)

// Feedback 评价表（每个 (订单, 商品, 学生) 组合只允许一条，写入后不支持修改或删除）
type Feedback struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                  // 主键
	OrderID   uint      `gorm:"not null;uniqueIndex:idx_feedback_order_product_user" json:"order_id"`     // 订单ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_feedback_order_product_user" json:"product_id"`   // 商品ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_feedback_order_product_user;index" json:"user_id"` // 学生ID
	Rating    int       `gorm:"not null" json:"rating"`                                                // 评分（1-5 整数）
	Comment   string    `gorm:"type:text" json:"comment"`                                              // 评价内容
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                               // 创建时间
}

// TableName 指定表名
func (Feedback) TableName() string {
	return "feedbacks"
}
