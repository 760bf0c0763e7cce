package provider

import (
	"github.com/campusmart/internal/authz"
	"github.com/campusmart/internal/cache"
	"github.com/campusmart/internal/config"
	"github.com/campusmart/internal/logger"
	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"
	"github.com/campusmart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo       repository.UserRepository
	ProductRepo    repository.ProductRepository
	CartRepo       repository.CartRepository
	OrderRepo      repository.OrderRepository
	PaymentRepo    repository.PaymentRepository
	AdjustmentRepo repository.InventoryAdjustmentRepository
	FeedbackRepo   repository.FeedbackRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	CartService      *service.CartService
	InventoryService *service.InventoryService
	OrderService     *service.OrderService
	FeedbackService  *service.FeedbackService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config: cfg,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.AdjustmentRepo = repository.NewInventoryAdjustmentRepository(db)
	c.FeedbackRepo = repository.NewFeedbackRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else {
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Errorw("provider_bootstrap_roles_failed", "error", err)
		}
		c.AuthzService = authzService
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.InventoryService = service.NewInventoryService(c.ProductRepo, c.AdjustmentRepo)
	c.OrderService = service.NewOrderService(c.CartRepo, c.OrderRepo, c.PaymentRepo, c.FeedbackRepo, c.InventoryService)
	c.FeedbackService = service.NewFeedbackService(c.FeedbackRepo, c.OrderRepo)
}
