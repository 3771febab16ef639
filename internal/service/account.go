package service

import (
	"context"
	"strings"

	"github.com/create141/Create-fi/internal/models"
	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/pkg/errors"
	"github.com/create141/Create-fi/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

type AccountService struct {
	userRepo *repository.UserRepository
}

func NewAccountService(userRepo *repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// NormalizeAddress 钱包地址规范化的唯一入口
// 存储和查询一律使用小写地址
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func validateAddress(address string) error {
	if !common.IsHexAddress(address) {
		return errors.New(errors.ErrValidation, "invalid wallet address", nil)
	}
	return nil
}

// EnsureUser 按地址查找用户，不存在则创建
// address列唯一索引保证并发下同一地址只产生一个用户：
// 插入撞唯一索引时重查并返回已有记录
func (s *AccountService) EnsureUser(ctx context.Context, address string) (*models.User, error) {
	addr := NormalizeAddress(address)
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, createErr := s.userRepo.Create(ctx, addr)
	if createErr != nil {
		existing, err := s.userRepo.GetByAddress(ctx, addr)
		if err == nil && existing != nil {
			logger.WithFields(map[string]interface{}{
				"address": addr,
				"user_id": existing.ID,
			}).Debug("并发创建用户冲突，返回已有记录")
			return existing, nil
		}
		return nil, errors.New(errors.ErrConflict, "创建用户失败", createErr)
	}

	logger.WithFields(map[string]interface{}{
		"address": addr,
		"user_id": user.ID,
	}).Info("用户已创建")

	return user, nil
}

// GetUser 按地址查找用户，不存在返回NOT_FOUND
func (s *AccountService) GetUser(ctx context.Context, address string) (*models.User, error) {
	addr := NormalizeAddress(address)
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

// GetUserByID 按主键查找用户，不存在返回NOT_FOUND
func (s *AccountService) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}
