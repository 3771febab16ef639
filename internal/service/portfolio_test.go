package service

import (
	"context"
	"testing"
	"time"

	"github.com/create141/Create-fi/internal/models"
	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/pkg/errors"

	"github.com/stretchr/testify/require"
)

type portfolioFixture struct {
	svc          *PortfolioService
	snapshotRepo *repository.SnapshotRepository
	userID       uint64
}

func newPortfolioFixture(t *testing.T) *portfolioFixture {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	user, err := userRepo.Create(context.Background(), "0x5555555555555555555555555555555555555555")
	require.NoError(t, err)

	return &portfolioFixture{
		svc:          NewPortfolioService(snapshotRepo, userRepo),
		snapshotRepo: snapshotRepo,
		userID:       user.ID,
	}
}

func TestRecordAndLatestSnapshot(t *testing.T) {
	f := newPortfolioFixture(t)
	ctx := context.Background()

	tokens := models.TokenList{
		{Token: "ETH", Balance: "1.5", USDValue: "4200.0"},
		{Token: "USDC", Balance: "1000", USDValue: "1000"},
	}

	_, err := f.svc.Record(ctx, f.userID, "5200.0", tokens, 1)
	require.NoError(t, err)
	_, err = f.svc.Record(ctx, f.userID, "5300.0", tokens, 1)
	require.NoError(t, err)
	newest, err := f.svc.Record(ctx, f.userID, "5400.0", tokens, 1)
	require.NoError(t, err)

	latest, err := f.svc.Latest(ctx, f.userID, 1)
	require.NoError(t, err)
	require.Equal(t, newest.ID, latest.ID)
	require.Equal(t, "5400.0", latest.TotalValue)
	require.Equal(t, tokens, latest.Tokens)
}

func TestLatestSnapshotTieBrokenByID(t *testing.T) {
	f := newPortfolioFixture(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for _, total := range []string{"100", "200"} {
		snapshot := &models.PortfolioSnapshot{
			UserID:     f.userID,
			TotalValue: total,
			Tokens:     models.TokenList{},
			ChainID:    1,
			CreatedAt:  at,
		}
		require.NoError(t, f.snapshotRepo.Create(ctx, snapshot))
	}

	latest, err := f.svc.Latest(ctx, f.userID, 1)
	require.NoError(t, err)
	require.Equal(t, "200", latest.TotalValue)
}

func TestLatestSnapshotScopedByChain(t *testing.T) {
	f := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, f.userID, "100", nil, 1)
	require.NoError(t, err)
	_, err = f.svc.Record(ctx, f.userID, "900", nil, 137)
	require.NoError(t, err)

	latest, err := f.svc.Latest(ctx, f.userID, 1)
	require.NoError(t, err)
	require.Equal(t, "100", latest.TotalValue)
}

func TestLatestSnapshotNotFound(t *testing.T) {
	f := newPortfolioFixture(t)

	_, err := f.svc.Latest(context.Background(), f.userID, 42)
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestRecordValidation(t *testing.T) {
	f := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, f.userID, "abc", nil, 1)
	require.Error(t, err)
	require.Equal(t, errors.ErrValidation, errors.Code(err))

	_, err = f.svc.Record(ctx, f.userID, "100", nil, 0)
	require.Error(t, err)
	require.Equal(t, errors.ErrValidation, errors.Code(err))

	_, err = f.svc.Record(ctx, 999, "100", nil, 1)
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}
