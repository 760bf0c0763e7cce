package shared

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CurrentUserID 从上下文读取认证中间件写入的用户 ID。
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		RespondError(c, http.StatusUnauthorized, "未登录或令牌无效", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		RespondError(c, http.StatusUnauthorized, "未登录或令牌无效", nil)
		return 0, false
	}
	return id, true
}

// CurrentRole 从上下文读取认证中间件写入的角色。
func CurrentRole(c *gin.Context) string {
	if value, ok := c.Get("role"); ok {
		if role, ok := value.(string); ok {
			return role
		}
	}
	return ""
}
