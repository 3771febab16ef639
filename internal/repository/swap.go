package repository

import (
	"context"
	"errors"

	"github.com/create141/Create-fi/internal/models"

	"gorm.io/gorm"
)

type SwapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) *SwapRepository {
	return &SwapRepository{db: db}
}

func (r *SwapRepository) Create(ctx context.Context, tx *models.SwapTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *SwapRepository) GetByID(ctx context.Context, id uint64) (*models.SwapTransaction, error) {
	var tx models.SwapTransaction
	err := r.db.WithContext(ctx).First(&tx, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListByUser 按创建顺序返回用户的兑换交易
func (r *SwapRepository) ListByUser(ctx context.Context, userID uint64) ([]models.SwapTransaction, error) {
	var txs []models.SwapTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&txs).Error
	return txs, err
}

// UpdateStatus 更新交易状态，txHash为nil时保持原值
func (r *SwapRepository) UpdateStatus(ctx context.Context, id uint64, status models.SwapStatus, txHash *string) error {
	updates := map[string]interface{}{"status": status}
	if txHash != nil {
		updates["tx_hash"] = *txHash
	}
	return r.db.WithContext(ctx).
		Model(&models.SwapTransaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}
