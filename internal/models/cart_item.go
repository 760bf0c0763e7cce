package models

import (
	"time"
)

// CartItem 购物车项（加购时快照商品名称、单价与商家，硬删除以保证唯一索引可复用）
type CartItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                     // 主键
	UserID      uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`    // 学生ID
	ProductID   uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"` // 商品ID
	VendorID    uint      `gorm:"index;not null" json:"vendor_id"`                          // 商家ID（加购时快照）
	ProductName string    `gorm:"not null" json:"product_name"`                             // 商品名称（加购时快照）
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价（加购时快照）
	Quantity    int       `gorm:"not null" json:"quantity"`                                 // 数量
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                                  // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
