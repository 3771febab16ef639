package service

import (
	"context"
	"time"

	"github.com/create141/Create-fi/internal/models"
	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/pkg/errors"
	"github.com/create141/Create-fi/pkg/logger"
)

// OrderService 管理限价单生命周期
//
//	active → filled    （价格达成，外部触发）
//	active → cancelled （用户取消）
//	active → expired   （超过expiresAt，含边界）
//
// 三个目标状态均为终态
type OrderService struct {
	orderRepo *repository.OrderRepository
	userRepo  *repository.UserRepository
}

func NewOrderService(orderRepo *repository.OrderRepository, userRepo *repository.UserRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, userRepo: userRepo}
}

type PlaceOrderInput struct {
	UserID      uint64
	FromToken   string
	ToToken     string
	FromAmount  string
	TargetPrice string
	ChainID     int64
	ExpiresAt   *time.Time
}

// Place 创建限价单，初始状态为active
// expiresAt可选，设置时必须晚于当前时间
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (*models.LimitOrder, error) {
	if err := validateToken("from_token", in.FromToken); err != nil {
		return nil, err
	}
	if err := validateToken("to_token", in.ToToken); err != nil {
		return nil, err
	}
	if err := validateAmount("from_amount", in.FromAmount); err != nil {
		return nil, err
	}
	if err := validateAmount("target_price", in.TargetPrice); err != nil {
		return nil, err
	}
	if err := validateChainID(in.ChainID); err != nil {
		return nil, err
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(time.Now()) {
		return nil, errors.New(errors.ErrValidation, "expires_at must be in the future", nil)
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "user not found", nil)
	}

	order := &models.LimitOrder{
		UserID:      in.UserID,
		FromToken:   in.FromToken,
		ToToken:     in.ToToken,
		FromAmount:  in.FromAmount,
		TargetPrice: in.TargetPrice,
		ChainID:     in.ChainID,
		Status:      models.OrderStatusActive,
		ExpiresAt:   in.ExpiresAt,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"chain_id": order.ChainID,
	}).Info("限价单已创建")

	return order, nil
}

// ListByUser 按创建顺序返回用户的限价单
// 已过期的active订单在返回前回写为expired，读路径始终看到生效状态
func (s *OrderService) ListByUser(ctx context.Context, userID uint64) ([]models.LimitOrder, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range orders {
		if orders[i].Status == models.OrderStatusActive && orders[i].IsExpired(now) {
			if err := s.orderRepo.MarkExpired(ctx, orders[i].ID); err != nil {
				// 回写失败不影响读：生效状态已在返回值中体现
				logger.WithFields(map[string]interface{}{
					"order_id": orders[i].ID,
				}).Warn("过期状态回写失败:", err)
			}
			orders[i].Status = models.OrderStatusExpired
		}
	}

	return orders, nil
}

func validOrderStatus(status models.OrderStatus) bool {
	switch status {
	case models.OrderStatusActive, models.OrderStatusFilled,
		models.OrderStatusCancelled, models.OrderStatusExpired:
		return true
	}
	return false
}

// UpdateStatus 显式迁移限价单状态
// 先对已过期的active订单回写expired，再按状态机校验：
// 终态下同状态更新幂等成功，其余一律INVALID_TRANSITION；
// id不存在返回NOT_FOUND
func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, status models.OrderStatus) error {
	if !validOrderStatus(status) {
		return errors.New(errors.ErrValidation, "unknown order status", nil)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return errors.New(errors.ErrNotFound, "limit order not found", nil)
	}

	if order.Status == models.OrderStatusActive && order.IsExpired(time.Now()) {
		if err := s.orderRepo.MarkExpired(ctx, id); err != nil {
			return err
		}
		order.Status = models.OrderStatusExpired
	}

	if order.Status == status {
		return nil
	}
	if order.Status.IsTerminal() {
		return errors.New(errors.ErrInvalidTransition, "limit order already finalized", nil)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"order_id": id,
		"status":   status,
	}).Info("限价单状态已更新")

	return nil
}

// SweepExpired 批量回写已过期的active订单，返回处理条数
// MarkExpired带守卫，与读路径的懒回写并发安全
func (s *OrderService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	orders, err := s.orderRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, order := range orders {
		if err := s.orderRepo.MarkExpired(ctx, order.ID); err != nil {
			logger.WithFields(map[string]interface{}{
				"order_id": order.ID,
			}).Error("过期订单回写失败:", err)
			continue
		}
		swept++
	}

	return swept, nil
}
