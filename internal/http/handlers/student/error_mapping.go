package student

import (
	"errors"
	"net/http"

	handlershared "github.com/campusmart/internal/http/handlers/shared"
	"github.com/campusmart/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	status int
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackStatus int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			handlershared.RespondError(c, rule.status, err.Error(), nil)
			return
		}
	}
	handlershared.RespondError(c, fallbackStatus, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, status: http.StatusBadRequest},
	{target: service.ErrProductNotFound, status: http.StatusNotFound},
	{target: service.ErrProductNotAvailable, status: http.StatusBadRequest},
	{target: service.ErrCartItemNotFound, status: http.StatusNotFound},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, status: http.StatusBadRequest},
	{target: service.ErrInvalidPaymentMethod, status: http.StatusBadRequest},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, status: http.StatusNotFound},
}

var feedbackErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidRating, status: http.StatusBadRequest},
	{target: service.ErrOrderNotFound, status: http.StatusNotFound},
	{target: service.ErrOrderNotDelivered, status: http.StatusBadRequest},
	{target: service.ErrProductNotInOrder, status: http.StatusNotFound},
	{target: service.ErrDuplicateFeedback, status: http.StatusConflict},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, http.StatusInternalServerError, "购物车操作失败")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, http.StatusInternalServerError, "结算失败")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, http.StatusInternalServerError, "订单查询失败")
}

func respondFeedbackError(c *gin.Context, err error) {
	respondWithMappedError(c, err, feedbackErrorRules, http.StatusInternalServerError, "评价提交失败")
}
