package service

import (
	"strings"
	"time"

	"github.com/campusmart/internal/constants"
	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"
)

// SubmitFeedbackInput 评价提交输入
type SubmitFeedbackInput struct {
	UserID    uint
	OrderID   uint
	ProductID uint
	Rating    int
	Comment   string
}

// FeedbackService 评价服务。仅送达订单可评价，每个 (订单, 商品, 学生)
// 组合一条，写入后不支持修改或删除。
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	orderRepo    repository.OrderRepository
}

// NewFeedbackService 创建评价服务
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, orderRepo repository.OrderRepository) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		orderRepo:    orderRepo,
	}
}

// Submit 提交评价，返回评价 ID
func (s *FeedbackService) Submit(input SubmitFeedbackInput) (uint, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return 0, ErrInvalidRating
	}

	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
	if err != nil {
		return 0, err
	}
	if order == nil {
		return 0, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusDelivered {
		return 0, ErrOrderNotDelivered
	}

	inOrder := false
	for _, item := range order.Items {
		if item.ProductID == input.ProductID {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return 0, ErrProductNotInOrder
	}

	exists, err := s.feedbackRepo.Exists(input.OrderID, input.ProductID, input.UserID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicateFeedback
	}

	feedback := &models.Feedback{
		OrderID:   input.OrderID,
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: time.Now(),
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		// 并发的重复提交可能越过 Exists 检查，由唯一索引兜底
		if s.isDuplicate(input) {
			return 0, ErrDuplicateFeedback
		}
		return 0, err
	}
	return feedback.ID, nil
}

func (s *FeedbackService) isDuplicate(input SubmitFeedbackInput) bool {
	exists, err := s.feedbackRepo.Exists(input.OrderID, input.ProductID, input.UserID)
	return err == nil && exists
}
