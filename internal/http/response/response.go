package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 统一响应约定：成功与失败都携带 success 布尔值，失败附带可直接展示的
// message，成功响应的业务字段与 success 平铺在同一层。

// Success 成功响应（200）
func Success(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, withSuccess(data))
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data gin.H) {
	c.JSON(http.StatusCreated, withSuccess(data))
}

// Error 错误响应
func Error(c *gin.Context, status int, msg string) {
	payload := gin.H{
		"success": false,
		"message": msg,
	}
	if requestID := requestIDOf(c); requestID != "" {
		payload["requestId"] = requestID
	}
	c.JSON(status, payload)
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}

// Unauthorized 401 响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, http.StatusUnauthorized, msg)
}

// Forbidden 403 响应
func Forbidden(c *gin.Context, msg string) {
	Error(c, http.StatusForbidden, msg)
}

// NotFound 404 响应
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}

// Conflict 409 响应
func Conflict(c *gin.Context, msg string) {
	Error(c, http.StatusConflict, msg)
}

// TooManyRequests 429 响应
func TooManyRequests(c *gin.Context, msg string) {
	Error(c, http.StatusTooManyRequests, msg)
}

// Internal 500 响应
func Internal(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, msg)
}

func withSuccess(data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["success"]; !ok {
		data["success"] = true
	}
	return data
}

func requestIDOf(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
