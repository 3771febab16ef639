package repository

import (
	"context"
	"errors"

	"github.com/create141/Create-fi/internal/models"

	"gorm.io/gorm"
)

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Create(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// Latest 返回用户在指定链上最新的投资组合快照
// created_at相同时取id更大的一条，保证结果确定
func (r *SnapshotRepository) Latest(ctx context.Context, userID uint64, chainID int64) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND chain_id = ?", userID, chainID).
		Order("created_at DESC").
		Order("id DESC").
		First(&snapshot).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
