package service

import (
	"context"
	"testing"

	"github.com/create141/Create-fi/internal/models"
	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/pkg/errors"

	"github.com/stretchr/testify/require"
)

type swapFixture struct {
	svc      *SwapService
	swapRepo *repository.SwapRepository
	userID   uint64
}

func newSwapFixture(t *testing.T) *swapFixture {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	swapRepo := repository.NewSwapRepository(db)

	user, err := userRepo.Create(context.Background(), "0x4444444444444444444444444444444444444444")
	require.NoError(t, err)

	return &swapFixture{
		svc:      NewSwapService(swapRepo, userRepo),
		swapRepo: swapRepo,
		userID:   user.ID,
	}
}

func (f *swapFixture) submit(t *testing.T) *models.SwapTransaction {
	t.Helper()
	tx, err := f.svc.Submit(context.Background(), SubmitSwapInput{
		UserID:     f.userID,
		FromToken:  "ETH",
		ToToken:    "USDC",
		FromAmount: "1.5",
		ToAmount:   "4200.0",
		ChainID:    1,
	})
	require.NoError(t, err)
	return tx
}

func TestSubmitSwapDefaults(t *testing.T) {
	f := newSwapFixture(t)

	tx := f.submit(t)
	require.Equal(t, models.SwapStatusPending, tx.Status)
	require.Nil(t, tx.TxHash)
	require.NotZero(t, tx.ID)
}

func TestSubmitSwapValidation(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SubmitSwapInput
	}{
		{"missing from_token", SubmitSwapInput{UserID: f.userID, ToToken: "USDC", FromAmount: "1", ToAmount: "1", ChainID: 1}},
		{"bad amount", SubmitSwapInput{UserID: f.userID, FromToken: "ETH", ToToken: "USDC", FromAmount: "1.5e", ToAmount: "1", ChainID: 1}},
		{"negative amount", SubmitSwapInput{UserID: f.userID, FromToken: "ETH", ToToken: "USDC", FromAmount: "-1", ToAmount: "1", ChainID: 1}},
		{"bad chain", SubmitSwapInput{UserID: f.userID, FromToken: "ETH", ToToken: "USDC", FromAmount: "1", ToAmount: "1", ChainID: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, tc.in)
			require.Error(t, err)
			require.Equal(t, errors.ErrValidation, errors.Code(err))
		})
	}
}

func TestSubmitSwapUnknownUser(t *testing.T) {
	f := newSwapFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitSwapInput{
		UserID:     999,
		FromToken:  "ETH",
		ToToken:    "USDC",
		FromAmount: "1",
		ToAmount:   "1",
		ChainID:    1,
	})
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestSwapCompleteWithTxHash(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	tx := f.submit(t)
	hash := "0xdeadbeef"
	require.NoError(t, f.svc.UpdateStatus(ctx, tx.ID, models.SwapStatusCompleted, &hash))

	stored, err := f.swapRepo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, models.SwapStatusCompleted, stored.Status)
	require.NotNil(t, stored.TxHash)
	require.Equal(t, hash, *stored.TxHash)
}

func TestSwapFailWithoutTxHash(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	tx := f.submit(t)
	require.NoError(t, f.svc.UpdateStatus(ctx, tx.ID, models.SwapStatusFailed, nil))

	stored, err := f.swapRepo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, models.SwapStatusFailed, stored.Status)
	require.Nil(t, stored.TxHash)
}

func TestSwapTerminalTransitionsRejected(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	tx := f.submit(t)
	hash := "0xdeadbeef"
	require.NoError(t, f.svc.UpdateStatus(ctx, tx.ID, models.SwapStatusCompleted, &hash))

	// 同状态幂等
	require.NoError(t, f.svc.UpdateStatus(ctx, tx.ID, models.SwapStatusCompleted, nil))

	err := f.svc.UpdateStatus(ctx, tx.ID, models.SwapStatusFailed, nil)
	require.Error(t, err)
	require.Equal(t, errors.ErrInvalidTransition, errors.Code(err))
}

func TestSwapUpdateStatusNotFound(t *testing.T) {
	f := newSwapFixture(t)

	err := f.svc.UpdateStatus(context.Background(), 999, models.SwapStatusCompleted, nil)
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestSwapUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := newSwapFixture(t)
	tx := f.submit(t)

	err := f.svc.UpdateStatus(context.Background(), tx.ID, models.SwapStatus("settled"), nil)
	require.Error(t, err)
	require.Equal(t, errors.ErrValidation, errors.Code(err))
}

func TestSwapListByUserCreationOrder(t *testing.T) {
	f := newSwapFixture(t)

	first := f.submit(t)
	second := f.submit(t)
	third := f.submit(t)

	txs, err := f.svc.ListByUser(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	require.Equal(t, []uint64{first.ID, second.ID, third.ID}, []uint64{txs[0].ID, txs[1].ID, txs[2].ID})
	require.Less(t, first.ID, second.ID)
	require.Less(t, second.ID, third.ID)
}
