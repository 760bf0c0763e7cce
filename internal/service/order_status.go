package service

import (
	"context"
	"time"

	"github.com/campusmart/internal/cache"
	"github.com/campusmart/internal/constants"
	"github.com/campusmart/internal/logger"
	"github.com/campusmart/internal/models"

	"gorm.io/gorm"
)

// allowedTransitions 订单状态机。delivered 与 cancelled 为终态，
// 不存在自环：重复提交同一状态是非法变更，不是静默 no-op。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func isKnownStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return true
	}
	return false
}

// UpdateOrderStatus 商家推进订单状态。
// pending → processing 是唯一触碰库存的变更，按订单项逐一扣减并留审计；
// → delivered 时标记支付完成。状态写入使用「现状态仍为读取值」的条件
// 更新，并发的重复请求只有一个生效，库存不会被重复扣减。
func (s *OrderService) UpdateOrderStatus(vendorID, orderID uint, newStatus string) error {
	if !isKnownStatus(newStatus) {
		return ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.GetByIDAndVendor(orderID, vendorID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !allowedTransitions[order.Status][newStatus] {
		return ErrIllegalTransition
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	switch newStatus {
	case constants.OrderStatusProcessing:
		updates["accepted_at"] = now
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		// 先占状态再做副作用：竞争的重复请求在这里出局
		affected, err := orderRepo.UpdateStatusIf(orderID, order.Status, newStatus, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrIllegalTransition
		}

		if order.Status == constants.OrderStatusPending && newStatus == constants.OrderStatusProcessing {
			inventorySvc := s.inventorySvc.WithTx(tx)
			for _, item := range order.Items {
				oid := order.ID
				if _, err := inventorySvc.Decrement(item.ProductID, item.Quantity, constants.AdjustReasonOrderAccepted, &oid); err != nil {
					return err
				}
			}
		}

		if newStatus == constants.OrderStatusDelivered {
			if err := s.paymentRepo.WithTx(tx).MarkCompleted(order.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == ErrIllegalTransition || err == ErrProductNotFound || err == ErrStockConflict {
			return err
		}
		logger.Errorw("order_status_update_failed",
			"order_id", orderID,
			"vendor_id", vendorID,
			"from", order.Status,
			"to", newStatus,
			"error", err,
		)
		return err
	}

	if err := cache.Del(context.Background(), orderDetailCacheKey(order.ID, order.UserID)); err != nil {
		logger.Warnw("order_detail_cache_del_failed", "order_id", order.ID, "error", err)
	}

	logger.Infow("order_status_updated",
		"order_id", orderID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", newStatus,
	)
	return nil
}
