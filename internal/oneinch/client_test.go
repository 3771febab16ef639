package oneinch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/create141/Create-fi/internal/config"
	"github.com/create141/Create-fi/pkg/errors"

	"github.com/stretchr/testify/require"
)

func newTestClient(upstream *httptest.Server) *Client {
	return NewClient(&config.AggregatorConfig{
		BaseURL:         upstream.URL,
		APIKey:          "test-key",
		ReferrerAddress: "0x26452dD8f0458846504544856775175Ab2724f87",
	})
}

func TestTokensPassesBodyThroughVerbatim(t *testing.T) {
	const payload = `{"tokens":{"0xeee":{"symbol":"ETH"}}}`

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/v1.2/1", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(payload))
	}))
	defer upstream.Close()

	body, err := newTestClient(upstream).Tokens(context.Background(), "1")
	require.NoError(t, err)
	require.JSONEq(t, payload, string(body))
}

func TestSwapInjectsReferrer(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/swap/v5.2/1/swap", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "0x26452dD8f0458846504544856775175Ab2724f87", q.Get("referrer"))
		require.Equal(t, "1", q.Get("slippage"))
		require.Equal(t, "true", q.Get("includeTokensInfo"))
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).Swap(context.Background(), "1", SwapParams{
		Src:    "0xaaa",
		Dst:    "0xbbb",
		Amount: "1000",
		From:   "0xccc",
	})
	require.NoError(t, err)
}

func TestQuoteParams(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/swap/v5.2/137/quote", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "0xaaa", q.Get("src"))
		require.Equal(t, "0xbbb", q.Get("dst"))
		require.Equal(t, "1000", q.Get("amount"))
		w.Write([]byte(`{"dstAmount":"42"}`))
	}))
	defer upstream.Close()

	body, err := newTestClient(upstream).Quote(context.Background(), "137", QuoteParams{
		Src:    "0xaaa",
		Dst:    "0xbbb",
		Amount: "1000",
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"dstAmount":"42"}`, string(body))
}

func TestUpstreamFailureDoesNotLeakBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"secret upstream detail"}`, http.StatusBadGateway)
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).GasPrice(context.Background(), "1")
	require.Error(t, err)
	require.Equal(t, errors.ErrUpstream, errors.Code(err))
	require.NotContains(t, err.Error(), "secret upstream detail")
}

func TestHistoryDefaults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/history/v2.0/history/0xabc/events", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "50", q.Get("limit"))
		require.Equal(t, "0", q.Get("offset"))
		require.Equal(t, "1", q.Get("chainId"))
		w.Write([]byte(`{"items":[]}`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).History(context.Background(), "1", "0xabc", "", "")
	require.NoError(t, err)
}
