package main

import (
	"github.com/campusmart/internal/config"
	"github.com/campusmart/internal/constants"
	"github.com/campusmart/internal/logger"
	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"
	"github.com/campusmart/internal/service"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	users := []seedUser{
		{Email: "alice@campus.test", Password: "alice123456", DisplayName: "Alice", Role: constants.RoleStudent},
		{Email: "bob@campus.test", Password: "bob123456", DisplayName: "Bob", Role: constants.RoleStudent},
		{Email: "snackbar@campus.test", Password: "vendor123456", DisplayName: "零食铺", Role: constants.RoleVendor},
		{Email: "printshop@campus.test", Password: "vendor123456", DisplayName: "打印店", Role: constants.RoleVendor},
	}

	userIDs := map[string]uint{}
	for _, seed := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", seed.Email)
			userIDs[seed.Email] = existing.ID
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash password: %v", err)
		}
		user := models.User{
			Email:        seed.Email,
			PasswordHash: string(hashed),
			DisplayName:  seed.DisplayName,
			Role:         seed.Role,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", seed.Email, err)
			continue
		}
		stdLog.Printf("Created user: %s (%s)", seed.Email, seed.Role)
		userIDs[seed.Email] = user.ID
	}

	products := []models.Product{
		{
			VendorID:      userIDs["snackbar@campus.test"],
			Name:          "辣条大礼包",
			Description:   "宿舍夜宵常备",
			Category:      "snacks",
			PriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(9.90)),
			StockQuantity: 100,
			IsActive:      true,
		},
		{
			VendorID:      userIDs["snackbar@campus.test"],
			Name:          "冰红茶 500ml",
			Description:   "冰镇发货",
			Category:      "drinks",
			PriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(3.50)),
			StockQuantity: 60,
			IsActive:      true,
		},
		{
			VendorID:      userIDs["printshop@campus.test"],
			Name:          "A4 打印（单面）",
			Description:   "按页计价，当日取件",
			Category:      "services",
			PriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(0.20)),
			StockQuantity: 10000,
			IsActive:      true,
		},
	}

	for _, product := range products {
		if product.VendorID == 0 {
			continue
		}
		var existing models.Product
		if err := models.DB.Where("vendor_id = ? AND name = ?", product.VendorID, product.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", product.Name)
			continue
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s", product.Name)
	}

	// 打印演示令牌，便于直接调用接口
	authService := service.NewAuthService(cfg, repository.NewUserRepository(models.DB))
	for _, seed := range users {
		var user models.User
		if err := models.DB.Where("email = ?", seed.Email).First(&user).Error; err != nil {
			continue
		}
		token, expiresAt, err := authService.GenerateJWT(&user)
		if err != nil {
			stdLog.Printf("Failed to generate token for %s: %v", seed.Email, err)
			continue
		}
		stdLog.Printf("Token for %s (%s, expires %s):\n  %s", seed.Email, seed.Role, expiresAt.Format("2006-01-02 15:04:05"), token)
	}
}
