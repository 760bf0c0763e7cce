package repository

import (
	"github.com/campusmart/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository 评价数据访问接口
type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	Exists(orderID, productID, userID uint) (bool, error)
	ListByOrderIDs(orderIDs []uint, userID uint) ([]models.Feedback, error)
	WithTx(tx *gorm.DB) *GormFeedbackRepository
}

// GormFeedbackRepository GORM 实现
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建评价仓库
func NewFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFeedbackRepository) WithTx(tx *gorm.DB) *GormFeedbackRepository {
	if tx == nil {
		return r
	}
	return &GormFeedbackRepository{db: tx}
}

// Create 创建评价
func (r *GormFeedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// Exists 判断 (订单, 商品, 学生) 是否已有评价
func (r *GormFeedbackRepository) Exists(orderID, productID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Feedback{}).
		Where("order_id = ? AND product_id = ? AND user_id = ?", orderID, productID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByOrderIDs 批量获取学生在若干订单下的评价
func (r *GormFeedbackRepository) ListByOrderIDs(orderIDs []uint, userID uint) ([]models.Feedback, error) {
	if len(orderIDs) == 0 {
		return []models.Feedback{}, nil
	}
	var feedbacks []models.Feedback
	if err := r.db.Where("order_id IN ? AND user_id = ?", orderIDs, userID).Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}
