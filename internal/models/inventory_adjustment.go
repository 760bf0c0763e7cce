package models

import (
	"time"
)

// InventoryAdjustment 库存调整审计记录（仅追加，创建后不允许更新或删除；
// delta 记录实际生效的变化量，即 new_stock - previous_stock）
type InventoryAdjustment struct {
	ID            uint      `gorm:"primarykey" json:"id"`            // 主键
	ProductID     uint      `gorm:"index;not null" json:"product_id"` // 商品ID
	VendorID      uint      `gorm:"index;not null" json:"vendor_id"`  // 商家ID
	OrderID       *uint     `gorm:"index" json:"order_id,omitempty"`  // 关联订单ID（接单扣减时记录）
	PreviousStock int       `gorm:"not null" json:"previous_stock"`   // 调整前库存
	Delta         int       `gorm:"not null" json:"delta"`            // 实际生效的变化量
	NewStock      int       `gorm:"not null" json:"new_stock"`        // 调整后库存
	Reason        string    `gorm:"not null" json:"reason"`           // 调整原因
	CreatedAt     time.Time `gorm:"index" json:"created_at"`          // 创建时间
}

// TableName 指定表名
func (InventoryAdjustment) TableName() string {
	return "inventory_adjustments"
}
