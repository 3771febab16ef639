package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsExpiredBoundary(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Millisecond)
	future := now.Add(time.Millisecond)

	require.True(t, (&LimitOrder{ExpiresAt: &past}).IsExpired(now))
	require.False(t, (&LimitOrder{ExpiresAt: &future}).IsExpired(now))

	// 边界包含：恰好等于expiresAt视为过期
	exact := now
	require.True(t, (&LimitOrder{ExpiresAt: &exact}).IsExpired(now))

	// 无过期时间的订单永不过期
	require.False(t, (&LimitOrder{}).IsExpired(now))
}

func TestOrderStatusTerminal(t *testing.T) {
	require.False(t, OrderStatusActive.IsTerminal())
	require.True(t, OrderStatusFilled.IsTerminal())
	require.True(t, OrderStatusCancelled.IsTerminal())
	require.True(t, OrderStatusExpired.IsTerminal())
}
