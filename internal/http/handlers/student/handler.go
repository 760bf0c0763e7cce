package student

import "github.com/campusmart/internal/provider"

// Handler 学生侧接口处理器入口（购物车、结算、订单、评价）
type Handler struct {
	*provider.Container
}

// New 创建学生侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
