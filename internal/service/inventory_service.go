package service

import (
	"time"

	"github.com/campusmart/internal/constants"
	"github.com/campusmart/internal/logger"
	"github.com/campusmart/internal/metrics"
	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"

	"gorm.io/gorm"
)

// 同一商品的并发扣减以 CAS 重试消化，超过该次数视为冲突异常。
const stockCASMaxAttempts = 5

// AdjustStockInput 手动库存调整输入
type AdjustStockInput struct {
	ProductID uint
	Delta     int
	Reason    string
	ActorID   uint
	ActorRole string
}

// InventoryService 库存服务。
// 库存数量只允许经由本服务的条件更新原语修改，任何组件不得自行读改写库存。
type InventoryService struct {
	productRepo    repository.ProductRepository
	adjustmentRepo repository.InventoryAdjustmentRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(productRepo repository.ProductRepository, adjustmentRepo repository.InventoryAdjustmentRepository) *InventoryService {
	return &InventoryService{
		productRepo:    productRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

// WithTx 绑定事务
func (s *InventoryService) WithTx(tx *gorm.DB) *InventoryService {
	if tx == nil {
		return s
	}
	return &InventoryService{
		productRepo:    s.productRepo.WithTx(tx),
		adjustmentRepo: s.adjustmentRepo.WithTx(tx),
	}
}

// Decrement 扣减库存，下限为 0。审计记录写入实际生效的变化量
// （new - previous），而非请求量：被下限截断时审计不得声称更大的扣减。
func (s *InventoryService) Decrement(productID uint, quantity int, reason string, orderID *uint) (*models.InventoryAdjustment, error) {
	if quantity <= 0 {
		return nil, ErrInvalidAdjustment
	}
	adjustment, err := s.applyStockChange(productID, reason, orderID, func(current int) int {
		next := current - quantity
		if next < 0 {
			next = 0
		}
		return next
	})
	if err != nil {
		return nil, err
	}
	// CAS 重试会多次执行 compute，截断计数只在变更生效后记一次
	if adjustment.PreviousStock < quantity {
		metrics.StockClampTotal.Inc()
	}
	return adjustment, nil
}

// Adjust 手动库存调整（商家补货或修正），正负均可，下限为 0。
// 商家只能调整自己的商品，管理员不受限。
func (s *InventoryService) Adjust(input AdjustStockInput) (*models.InventoryAdjustment, error) {
	if input.Delta == 0 {
		return nil, ErrInvalidAdjustment
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if input.ActorRole != constants.RoleAdmin && product.VendorID != input.ActorID {
		return nil, ErrProductNotFound
	}

	reason := input.Reason
	if reason == "" {
		reason = constants.AdjustReasonManualAdjust
	}
	return s.applyStockChange(input.ProductID, reason, nil, func(current int) int {
		next := current + input.Delta
		if next < 0 {
			next = 0
		}
		return next
	})
}

// History 查询库存调整审计记录（最近优先）
func (s *InventoryService) History(vendorID, productID uint, limit int) ([]models.InventoryAdjustment, error) {
	return s.adjustmentRepo.List(repository.AdjustmentListFilter{
		VendorID:  vendorID,
		ProductID: productID,
		Limit:     limit,
	})
}

// applyStockChange 以 CAS 循环应用库存变更：读取现值、计算目标值、
// 条件更新（现值未变时生效），失败则重读重试。两个并发扣减不可能
// 基于同一份过期库存各自生效。
func (s *InventoryService) applyStockChange(productID uint, reason string, orderID *uint, compute func(current int) int) (*models.InventoryAdjustment, error) {
	for attempt := 0; attempt < stockCASMaxAttempts; attempt++ {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}

		current := product.StockQuantity
		next := compute(current)

		if next == current {
			// 变化量被下限截断为 0 时仍然留痕
			return s.appendAudit(product, orderID, current, next, reason)
		}

		affected, err := s.productRepo.UpdateStockCAS(productID, current, next)
		if err != nil {
			return nil, err
		}
		if affected > 0 {
			return s.appendAudit(product, orderID, current, next, reason)
		}

		logger.Debugw("stock_cas_retry",
			"product_id", productID,
			"attempt", attempt+1,
			"expected", current,
		)
	}
	logger.Warnw("stock_cas_exhausted", "product_id", productID, "reason", reason)
	return nil, ErrStockConflict
}

func (s *InventoryService) appendAudit(product *models.Product, orderID *uint, previous, next int, reason string) (*models.InventoryAdjustment, error) {
	adjustment := &models.InventoryAdjustment{
		ProductID:     product.ID,
		VendorID:      product.VendorID,
		OrderID:       orderID,
		PreviousStock: previous,
		Delta:         next - previous,
		NewStock:      next,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
	if err := s.adjustmentRepo.Append(adjustment); err != nil {
		return nil, err
	}
	return adjustment, nil
}
