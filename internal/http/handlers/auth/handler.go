package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	handlershared "github.com/campusmart/internal/http/handlers/shared"
	"github.com/campusmart/internal/http/response"
	"github.com/campusmart/internal/provider"
	"github.com/campusmart/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 认证接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建认证处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 邮箱密码登录，返回 Bearer 令牌
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "请求参数错误", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			handlershared.RespondError(c, http.StatusUnauthorized, err.Error(), nil)
			return
		}
		handlershared.RespondError(c, http.StatusInternalServerError, "登录失败", err)
		return
	}

	response.Success(c, gin.H{
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
		"user": gin.H{
			"userId":      user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"role":        user.Role,
		},
	})
}

// Me 返回当前登录账号信息
func (h *Handler) Me(c *gin.Context) {
	uid, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}

	user, err := h.UserRepo.GetByID(uid)
	if err != nil {
		handlershared.RespondError(c, http.StatusInternalServerError, "账号查询失败", err)
		return
	}
	if user == nil {
		handlershared.RespondError(c, http.StatusUnauthorized, "账号不存在", nil)
		return
	}

	response.Success(c, gin.H{
		"userId":      user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"role":        user.Role,
	})
}
