package models

import (
	"time"
)

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusFailed    SwapStatus = "failed"
)

type SwapTransaction struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64     `gorm:"not null;index:idx_swap_user" json:"user_id"`
	FromToken  string     `gorm:"size:42;not null" json:"from_token"`
	ToToken    string     `gorm:"size:42;not null" json:"to_token"`
	FromAmount string     `gorm:"type:decimal(78,18);not null" json:"from_amount"`
	ToAmount   string     `gorm:"type:decimal(78,18);not null" json:"to_amount"`
	TxHash     *string    `gorm:"size:66" json:"tx_hash"`
	ChainID    int64      `gorm:"not null" json:"chain_id"`
	Status     SwapStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (SwapTransaction) TableName() string {
	return "swap_transactions"
}
