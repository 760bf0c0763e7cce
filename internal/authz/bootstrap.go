package authz

import (
	"fmt"

	"github.com/campusmart/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵（路径相对于 /api/v1）
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleStudent,
			Policies: []Policy{
				{Object: "/me", Action: "GET"},
				{Object: "/cart", Action: "*"},
				{Object: "/cart/:id", Action: "*"},
				{Object: "/orders", Action: "GET"},
				{Object: "/orders", Action: "POST"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/feedback", Action: "POST"},
			},
		},
		{
			Role: constants.RoleVendor,
			Policies: []Policy{
				{Object: "/me", Action: "GET"},
				{Object: "/vendor/orders", Action: "GET"},
				{Object: "/vendor/orders/:id", Action: "PATCH"},
				{Object: "/vendor/inventory/adjust", Action: "POST"},
				{Object: "/vendor/inventory/history", Action: "GET"},
			},
		},
		{
			// 管理员继承商家策略（可代商家调整库存），并放开全部路由
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleVendor},
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}

	return nil
}
