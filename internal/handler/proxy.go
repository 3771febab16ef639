package handler

import (
	"encoding/json"
	"net/http"

	"github.com/create141/Create-fi/internal/oneinch"
)

// ProxyHandler 1inch聚合器透传路由
// 上游失败一律返回固定文案的500，不透出上游细节
type ProxyHandler struct {
	client *oneinch.Client
}

func NewProxyHandler(client *oneinch.Client) *ProxyHandler {
	return &ProxyHandler{client: client}
}

func writeRaw(w http.ResponseWriter, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Route 分发 /api/1inch/ 前缀下的路由
func (h *ProxyHandler) Route(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := pathSegments(r)
	if len(parts) < 4 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	resource := parts[2]
	chainID := parts[3]

	switch resource {
	case "tokens":
		h.tokens(w, r, chainID)
	case "quote":
		h.quote(w, r, chainID)
	case "swap":
		h.swap(w, r, chainID)
	case "allowance":
		h.allowance(w, r, chainID)
	case "approve":
		h.approve(w, r, chainID)
	case "gas-price":
		h.gasPrice(w, r, chainID)
	case "spot-price":
		h.spotPrice(w, r, chainID)
	case "portfolio":
		if len(parts) < 5 {
			writeError(w, http.StatusBadRequest, "invalid path format, expected /api/1inch/portfolio/{chainId}/{address}")
			return
		}
		h.portfolio(w, r, chainID, parts[4])
	case "history":
		if len(parts) < 5 {
			writeError(w, http.StatusBadRequest, "invalid path format, expected /api/1inch/history/{chainId}/{address}")
			return
		}
		h.history(w, r, chainID, parts[4])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *ProxyHandler) tokens(w http.ResponseWriter, r *http.Request, chainID string) {
	body, err := h.client.Tokens(r.Context(), chainID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch tokens")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) quote(w http.ResponseWriter, r *http.Request, chainID string) {
	q := r.URL.Query()
	src, dst, amount := q.Get("src"), q.Get("dst"), q.Get("amount")
	if src == "" || dst == "" || amount == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	body, err := h.client.Quote(r.Context(), chainID, oneinch.QuoteParams{
		Src:    src,
		Dst:    dst,
		Amount: amount,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get quote")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) swap(w http.ResponseWriter, r *http.Request, chainID string) {
	q := r.URL.Query()
	src, dst, amount, from := q.Get("src"), q.Get("dst"), q.Get("amount"), q.Get("from")
	if src == "" || dst == "" || amount == "" || from == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	body, err := h.client.Swap(r.Context(), chainID, oneinch.SwapParams{
		Src:      src,
		Dst:      dst,
		Amount:   amount,
		From:     from,
		Slippage: q.Get("slippage"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get swap data")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) allowance(w http.ResponseWriter, r *http.Request, chainID string) {
	q := r.URL.Query()
	tokenAddress, walletAddress := q.Get("tokenAddress"), q.Get("walletAddress")
	if tokenAddress == "" || walletAddress == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	body, err := h.client.Allowance(r.Context(), chainID, tokenAddress, walletAddress)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get allowance")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) approve(w http.ResponseWriter, r *http.Request, chainID string) {
	q := r.URL.Query()
	tokenAddress := q.Get("tokenAddress")
	if tokenAddress == "" {
		writeError(w, http.StatusBadRequest, "Missing token address")
		return
	}

	body, err := h.client.ApproveTransaction(r.Context(), chainID, tokenAddress, q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get approve transaction")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) portfolio(w http.ResponseWriter, r *http.Request, chainID, address string) {
	body, err := h.client.Portfolio(r.Context(), chainID, address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get portfolio data")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) history(w http.ResponseWriter, r *http.Request, chainID, address string) {
	q := r.URL.Query()
	body, err := h.client.History(r.Context(), chainID, address, q.Get("limit"), q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get transaction history")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) gasPrice(w http.ResponseWriter, r *http.Request, chainID string) {
	body, err := h.client.GasPrice(r.Context(), chainID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get gas prices")
		return
	}
	writeRaw(w, body)
}

func (h *ProxyHandler) spotPrice(w http.ResponseWriter, r *http.Request, chainID string) {
	addresses := r.URL.Query().Get("addresses")
	if addresses == "" {
		writeError(w, http.StatusBadRequest, "Missing token addresses")
		return
	}

	body, err := h.client.SpotPrice(r.Context(), chainID, addresses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get spot prices")
		return
	}
	writeRaw(w, body)
}
