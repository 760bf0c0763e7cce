package app

import (
	"errors"
	"net"
	"strings"

	"github.com/campusmart/internal/config"
	"github.com/campusmart/internal/logger"
	"github.com/campusmart/internal/metrics"
	"github.com/campusmart/internal/provider"
	"github.com/campusmart/internal/router"
)

// Run 组装依赖并启动 HTTP 服务，阻塞直到退出信号或服务出错。
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return errors.New("config is required")
	}

	metrics.Init()

	container := provider.NewContainer(cfg)
	applyRoleAssignments(container, cfg)

	engine := router.SetupRouter(cfg, container)
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	httpSvc := NewHTTPService(addr, engine)
	runner := NewRunner(httpSvc)
	opts.Logger.Infow("app_start", "addr", httpSvc.Addr(), "mode", cfg.Server.Mode)
	return RunWithOptions(runner, opts)
}

// applyRoleAssignments 应用配置里的账号角色映射（email -> role）。
// 找不到的账号只告警，不阻塞启动。
func applyRoleAssignments(c *provider.Container, cfg *config.Config) {
	if c == nil || c.AuthzService == nil || len(cfg.Authz.Assignments) == 0 {
		return
	}

	for email, role := range cfg.Authz.Assignments {
		email = strings.ToLower(strings.TrimSpace(email))
		role = strings.TrimSpace(role)
		if email == "" || role == "" {
			continue
		}
		user, err := c.UserRepo.GetByEmail(email)
		if err != nil || user == nil {
			logger.Warnw("role_assignment_user_missing", "email", email, "error", err)
			continue
		}
		if user.Role != role {
			if err := c.UserRepo.UpdateRole(user.ID, role); err != nil {
				logger.Warnw("role_assignment_update_failed", "email", email, "role", role, "error", err)
				continue
			}
		}
		if err := c.AuthzService.AssignUserRole(user.ID, role); err != nil {
			logger.Warnw("role_assignment_grant_failed", "email", email, "role", role, "error", err)
		}
	}
}
