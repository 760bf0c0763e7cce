package student

import (
	"net/http"

	handlershared "github.com/campusmart/internal/http/handlers/shared"
	"github.com/campusmart/internal/http/response"
	"github.com/campusmart/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitFeedbackRequest 评价提交请求
type SubmitFeedbackRequest struct {
	OrderID   uint   `json:"orderId" binding:"required"`
	ProductID uint   `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// SubmitFeedback 提交评价。仅送达订单可评价，每个 (订单, 商品) 一条。
func (h *Handler) SubmitFeedback(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "请求参数错误", err)
		return
	}

	feedbackID, err := h.FeedbackService.Submit(service.SubmitFeedbackInput{
		UserID:    uid,
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondFeedbackError(c, err)
		return
	}

	response.Success(c, gin.H{"feedbackId": feedbackID})
}
