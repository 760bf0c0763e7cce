package repository

import (
	"github.com/campusmart/internal/models"

	"gorm.io/gorm"
)

// InventoryAdjustmentRepository 库存调整审计数据访问接口。
// 审计表仅追加，不提供更新或删除入口。
type InventoryAdjustmentRepository interface {
	Append(adjustment *models.InventoryAdjustment) error
	List(filter AdjustmentListFilter) ([]models.InventoryAdjustment, error)
	WithTx(tx *gorm.DB) *GormInventoryAdjustmentRepository
}

// GormInventoryAdjustmentRepository GORM 实现
type GormInventoryAdjustmentRepository struct {
	db *gorm.DB
}

// NewInventoryAdjustmentRepository 创建库存审计仓库
func NewInventoryAdjustmentRepository(db *gorm.DB) *GormInventoryAdjustmentRepository {
	return &GormInventoryAdjustmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryAdjustmentRepository) WithTx(tx *gorm.DB) *GormInventoryAdjustmentRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryAdjustmentRepository{db: tx}
}

// Append 追加审计记录
func (r *GormInventoryAdjustmentRepository) Append(adjustment *models.InventoryAdjustment) error {
	return r.db.Create(adjustment).Error
}

// List 查询审计记录（最近优先）
func (r *GormInventoryAdjustmentRepository) List(filter AdjustmentListFilter) ([]models.InventoryAdjustment, error) {
	query := r.db.Model(&models.InventoryAdjustment{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var adjustments []models.InventoryAdjustment
	if err := query.Order("id DESC").Limit(limit).Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}
