package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// IsTerminal 判断订单状态是否为终态
// 只有active是非终态
func (s OrderStatus) IsTerminal() bool {
	return s != OrderStatusActive
}

type LimitOrder struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64      `gorm:"not null;index:idx_order_user" json:"user_id"`
	FromToken   string      `gorm:"size:42;not null" json:"from_token"`
	ToToken     string      `gorm:"size:42;not null" json:"to_token"`
	FromAmount  string      `gorm:"type:decimal(78,18);not null" json:"from_amount"`
	TargetPrice string      `gorm:"type:decimal(78,18);not null" json:"target_price"`
	ChainID     int64       `gorm:"not null" json:"chain_id"`
	Status      OrderStatus `gorm:"size:20;not null" json:"status"`
	ExpiresAt   *time.Time  `json:"expires_at"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (LimitOrder) TableName() string {
	return "limit_orders"
}

// IsExpired 判断订单是否已过期（边界包含：now == expiresAt 视为过期）
func (o *LimitOrder) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && !now.Before(*o.ExpiresAt)
}
