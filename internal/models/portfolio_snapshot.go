package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type TokenHolding struct {
	Token    string `json:"token"`
	Balance  string `json:"balance"`
	USDValue string `json:"usd_value"`
}

type TokenList []TokenHolding

func (t TokenList) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TokenList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("unsupported token list column type")
	}
}

type PortfolioSnapshot struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"not null;index:idx_snapshot_user_chain" json:"user_id"`
	TotalValue string    `gorm:"type:decimal(78,18);not null" json:"total_value"`
	Tokens     TokenList `gorm:"type:json;not null" json:"tokens"`
	ChainID    int64     `gorm:"not null;index:idx_snapshot_user_chain" json:"chain_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
