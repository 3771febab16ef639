package repository

import (
	"context"
	"errors"
	"time"

	"github.com/create141/Create-fi/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.LimitOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint64) (*models.LimitOrder, error) {
	var order models.LimitOrder
	err := r.db.WithContext(ctx).First(&order, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser 按创建顺序返回用户的限价单
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint64) ([]models.LimitOrder, error) {
	var orders []models.LimitOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint64, status models.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.LimitOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkExpired 将active订单置为expired
// 带status=active守卫，并发重复调用安全
func (r *OrderRepository) MarkExpired(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&models.LimitOrder{}).
		Where("id = ? AND status = ?", id, models.OrderStatusActive).
		Update("status", models.OrderStatusExpired).Error
}

// ListExpiredActive 返回已过期但状态仍为active的订单
func (r *OrderRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]models.LimitOrder, error) {
	var orders []models.LimitOrder
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.OrderStatusActive, now).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}
