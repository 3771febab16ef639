package service

import (
	"context"

	"github.com/create141/Create-fi/internal/models"
	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/pkg/errors"
	"github.com/create141/Create-fi/pkg/logger"
)

type SwapService struct {
	swapRepo *repository.SwapRepository
	userRepo *repository.UserRepository
}

func NewSwapService(swapRepo *repository.SwapRepository, userRepo *repository.UserRepository) *SwapService {
	return &SwapService{swapRepo: swapRepo, userRepo: userRepo}
}

type SubmitSwapInput struct {
	UserID     uint64
	FromToken  string
	ToToken    string
	FromAmount string
	ToAmount   string
	ChainID    int64
}

// Submit 创建兑换交易记录
// 初始状态固定为pending，tx_hash为空
func (s *SwapService) Submit(ctx context.Context, in SubmitSwapInput) (*models.SwapTransaction, error) {
	if err := validateToken("from_token", in.FromToken); err != nil {
		return nil, err
	}
	if err := validateToken("to_token", in.ToToken); err != nil {
		return nil, err
	}
	if err := validateAmount("from_amount", in.FromAmount); err != nil {
		return nil, err
	}
	if err := validateAmount("to_amount", in.ToAmount); err != nil {
		return nil, err
	}
	if err := validateChainID(in.ChainID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "user not found", nil)
	}

	tx := &models.SwapTransaction{
		UserID:     in.UserID,
		FromToken:  in.FromToken,
		ToToken:    in.ToToken,
		FromAmount: in.FromAmount,
		ToAmount:   in.ToAmount,
		ChainID:    in.ChainID,
		Status:     models.SwapStatusPending,
	}

	if err := s.swapRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"swap_id":  tx.ID,
		"user_id":  tx.UserID,
		"chain_id": tx.ChainID,
	}).Info("兑换交易已创建")

	return tx, nil
}

// ListByUser 按创建顺序返回用户的兑换交易
func (s *SwapService) ListByUser(ctx context.Context, userID uint64) ([]models.SwapTransaction, error) {
	return s.swapRepo.ListByUser(ctx, userID)
}

func validSwapStatus(status models.SwapStatus) bool {
	switch status {
	case models.SwapStatusPending, models.SwapStatusCompleted, models.SwapStatusFailed:
		return true
	}
	return false
}

// UpdateStatus 更新兑换交易状态
// 合法迁移仅pending→completed和pending→failed；
// 目标状态与当前状态相同时视为幂等成功；
// tx_hash只在离开pending时写入；id不存在返回NOT_FOUND
func (s *SwapService) UpdateStatus(ctx context.Context, id uint64, status models.SwapStatus, txHash *string) error {
	if !validSwapStatus(status) {
		return errors.New(errors.ErrValidation, "unknown swap status", nil)
	}

	tx, err := s.swapRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return errors.New(errors.ErrNotFound, "swap transaction not found", nil)
	}

	if tx.Status == status {
		return nil
	}
	if tx.Status != models.SwapStatusPending {
		return errors.New(errors.ErrInvalidTransition, "swap transaction already finalized", nil)
	}

	if err := s.swapRepo.UpdateStatus(ctx, id, status, txHash); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"swap_id": id,
		"status":  status,
	}).Info("兑换交易状态已更新")

	return nil
}
