package service

import (
	"time"

	"github.com/campusmart/internal/models"
	"github.com/campusmart/internal/repository"
)

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListByUser 获取用户购物车（最近加购优先）
func (s *CartService) ListByUser(userID uint) ([]models.CartItem, error) {
	if userID == 0 {
		return nil, ErrCartItemNotFound
	}
	return s.cartRepo.ListByUser(userID)
}

// AddItem 添加购物车项。同一 (学生, 商品) 重复加购时数量累加；
// 名称、单价与商家在首次加购时从商品快照写入，后续商品改价不影响已有行。
// 加购不校验库存，库存在商家接单时才强制。
func (s *CartService) AddItem(input AddCartItemInput) (*models.CartItem, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrProductNotFound
	}
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:      input.UserID,
		ProductID:   product.ID,
		VendorID:    product.VendorID,
		ProductName: product.Name,
		UnitPrice:   product.PriceAmount,
		Quantity:    input.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.cartRepo.AddOrAccumulate(item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetQuantity 覆盖购物车项数量。0 删除该行，负数为非法输入，该路径不累加。
func (s *CartService) SetQuantity(userID, itemID uint, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	item, err := s.cartRepo.GetByIDAndUser(itemID, userID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	if quantity == 0 {
		return s.cartRepo.DeleteByIDAndUser(itemID, userID)
	}
	return s.cartRepo.UpdateQuantity(itemID, userID, quantity)
}

// RemoveItem 删除购物车项（幂等，行不存在不报错）
func (s *CartService) RemoveItem(userID, itemID uint) error {
	if userID == 0 {
		return ErrCartItemNotFound
	}
	return s.cartRepo.DeleteByIDAndUser(itemID, userID)
}

// Clear 清空购物车（幂等）
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrCartItemNotFound
	}
	return s.cartRepo.ClearByUser(userID)
}
