package oneinch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/create141/Create-fi/internal/config"
	"github.com/create141/Create-fi/pkg/errors"
	"github.com/create141/Create-fi/pkg/logger"
)

const DefaultBaseURL = "https://api.1inch.dev"

// Client 1inch聚合器API的透传客户端
// 报文原样转发，不解析、不缓存、不重试
type Client struct {
	baseURL  string
	apiKey   string
	referrer string
	http     *http.Client
}

func NewClient(cfg *config.AggregatorConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		referrer: cfg.ReferrerAddress,
		http:     &http.Client{Timeout: cfg.Timeout()},
	}
}

// get 发起上游请求并原样返回响应体
// 失败时不向调用方透出上游状态码和响应内容
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.New(errors.ErrUpstream, "构造上游请求失败", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.New(errors.ErrUpstream, "上游请求失败", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrUpstream, "读取上游响应失败", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.WithFields(map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("上游返回非成功状态")
		return nil, errors.New(errors.ErrUpstream,
			fmt.Sprintf("aggregator returned status %d", resp.StatusCode), nil)
	}

	return body, nil
}

func (c *Client) Tokens(ctx context.Context, chainID string) (json.RawMessage, error) {
	return c.get(ctx, "/token/v1.2/"+chainID, nil)
}

type QuoteParams struct {
	Src    string
	Dst    string
	Amount string
}

func (c *Client) Quote(ctx context.Context, chainID string, p QuoteParams) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("src", p.Src)
	params.Set("dst", p.Dst)
	params.Set("amount", p.Amount)
	params.Set("includeTokensInfo", "true")
	params.Set("includeProtocols", "true")
	return c.get(ctx, "/swap/v5.2/"+chainID+"/quote", params)
}

type SwapParams struct {
	Src      string
	Dst      string
	Amount   string
	From     string
	Slippage string
}

// Swap 获取兑换calldata，附带返佣地址
func (c *Client) Swap(ctx context.Context, chainID string, p SwapParams) (json.RawMessage, error) {
	slippage := p.Slippage
	if slippage == "" {
		slippage = "1"
	}
	params := url.Values{}
	params.Set("src", p.Src)
	params.Set("dst", p.Dst)
	params.Set("amount", p.Amount)
	params.Set("from", p.From)
	params.Set("slippage", slippage)
	params.Set("referrer", c.referrer)
	params.Set("includeTokensInfo", "true")
	params.Set("includeProtocols", "true")
	return c.get(ctx, "/swap/v5.2/"+chainID+"/swap", params)
}

func (c *Client) Allowance(ctx context.Context, chainID, tokenAddress, walletAddress string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("tokenAddress", tokenAddress)
	params.Set("walletAddress", walletAddress)
	return c.get(ctx, "/swap/v5.2/"+chainID+"/approve/allowance", params)
}

func (c *Client) ApproveTransaction(ctx context.Context, chainID, tokenAddress, amount string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("tokenAddress", tokenAddress)
	if amount != "" {
		params.Set("amount", amount)
	}
	return c.get(ctx, "/swap/v5.2/"+chainID+"/approve/transaction", params)
}

func (c *Client) Portfolio(ctx context.Context, chainID, address string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("addresses", address)
	params.Set("chainId", chainID)
	return c.get(ctx, "/portfolio/portfolio/v4/overview/erc20/current", params)
}

func (c *Client) History(ctx context.Context, chainID, address, limit, offset string) (json.RawMessage, error) {
	if limit == "" {
		limit = "50"
	}
	if offset == "" {
		offset = "0"
	}
	params := url.Values{}
	params.Set("chainId", chainID)
	params.Set("limit", limit)
	params.Set("offset", offset)
	return c.get(ctx, "/history/v2.0/history/"+address+"/events", params)
}

func (c *Client) GasPrice(ctx context.Context, chainID string) (json.RawMessage, error) {
	return c.get(ctx, "/gas-price/v1.4/"+chainID, nil)
}

func (c *Client) SpotPrice(ctx context.Context, chainID, addresses string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("addresses", addresses)
	return c.get(ctx, "/price/v1.1/"+chainID, params)
}
