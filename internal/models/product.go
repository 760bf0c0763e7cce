package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（库存数量为权威库存，只允许经由库存服务的原子原语修改）
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	VendorID      uint           `gorm:"index;not null" json:"vendor_id"`                           // 商家ID
	Name          string         `gorm:"not null" json:"name"`                                      // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                              // 商品描述
	Category      string         `gorm:"index" json:"category"`                                     // 分类
	PriceAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 单价
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                  // 库存数量（不允许为负）
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Vendor *User `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 商家信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
