package router

import (
	"fmt"
	"strings"

	"github.com/campusmart/internal/cache"
	"github.com/campusmart/internal/config"
	authhandlers "github.com/campusmart/internal/http/handlers/auth"
	studenthandlers "github.com/campusmart/internal/http/handlers/student"
	vendorhandlers "github.com/campusmart/internal/http/handlers/vendor"
	"github.com/campusmart/internal/logger"
	"github.com/campusmart/internal/metrics"
	"github.com/campusmart/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	authHandler := authhandlers.New(c)
	studentHandler := studenthandlers.New(c)
	vendorHandler := vendorhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cm"
	}
	redisClient := cache.Client()
	writeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(metrics.Middleware())
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true, "status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, writeRule, KeyByIP), authHandler.Login)
		}

		// 鉴权接口：JWT 解出 user_id 与 role，RBAC 按路由模板与方法判定
		secured := apiV1.Group("")
		secured.Use(JWTAuthMiddleware(cfg.JWT.SecretKey))
		secured.Use(RBACMiddleware(c.AuthzService))
		{
			secured.GET("/me", authHandler.Me)

			secured.POST("/cart", studentHandler.AddCartItem)
			secured.GET("/cart", studentHandler.GetCart)
			secured.DELETE("/cart", studentHandler.ClearCart)
			secured.PATCH("/cart/:id", studentHandler.UpdateCartItem)
			secured.DELETE("/cart/:id", studentHandler.RemoveCartItem)

			secured.POST("/orders", RateLimitMiddleware(redisClient, writeRule, KeyByUser), studentHandler.Checkout)
			secured.GET("/orders", studentHandler.ListOrders)
			secured.GET("/orders/:id", studentHandler.GetOrder)

			secured.POST("/feedback", RateLimitMiddleware(redisClient, writeRule, KeyByUser), studentHandler.SubmitFeedback)

			secured.GET("/vendor/orders", vendorHandler.ListOrders)
			secured.PATCH("/vendor/orders/:id", vendorHandler.UpdateOrderStatus)
			secured.POST("/vendor/inventory/adjust", vendorHandler.AdjustInventory)
			secured.GET("/vendor/inventory/history", vendorHandler.ListInventoryHistory)
		}
	}

	return r
}
