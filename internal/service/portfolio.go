package service

import (
	"context"

	"github.com/create141/Create-fi/internal/models"
	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/pkg/errors"
)

type PortfolioService struct {
	snapshotRepo *repository.SnapshotRepository
	userRepo     *repository.UserRepository
}

func NewPortfolioService(snapshotRepo *repository.SnapshotRepository, userRepo *repository.UserRepository) *PortfolioService {
	return &PortfolioService{snapshotRepo: snapshotRepo, userRepo: userRepo}
}

// Record 追加投资组合快照，快照只增不改
func (s *PortfolioService) Record(ctx context.Context, userID uint64, totalValue string, tokens models.TokenList, chainID int64) (*models.PortfolioSnapshot, error) {
	if err := validateAmount("total_value", totalValue); err != nil {
		return nil, err
	}
	if err := validateChainID(chainID); err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = models.TokenList{}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "user not found", nil)
	}

	snapshot := &models.PortfolioSnapshot{
		UserID:     userID,
		TotalValue: totalValue,
		Tokens:     tokens,
		ChainID:    chainID,
	}

	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Latest 返回用户在指定链上最新的快照，不存在返回NOT_FOUND
func (s *PortfolioService) Latest(ctx context.Context, userID uint64, chainID int64) (*models.PortfolioSnapshot, error) {
	snapshot, err := s.snapshotRepo.Latest(ctx, userID, chainID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errors.New(errors.ErrNotFound, "portfolio snapshot not found", nil)
	}
	return snapshot, nil
}
