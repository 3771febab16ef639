package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/create141/Create-fi/internal/models"
	"github.com/create141/Create-fi/internal/service"
	"github.com/create141/Create-fi/pkg/errors"
)

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError 按错误码映射HTTP状态
func writeServiceError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Code {
	case errors.ErrValidation, errors.ErrInvalidTransition:
		writeError(w, http.StatusBadRequest, appErr.Message)
	case errors.ErrNotFound:
		writeError(w, http.StatusNotFound, appErr.Message)
	case errors.ErrConflict:
		writeError(w, http.StatusConflict, appErr.Message)
	case errors.ErrUpstream:
		writeError(w, http.StatusInternalServerError, appErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathSegments(r *http.Request) []string {
	return strings.Split(strings.Trim(r.URL.Path, "/"), "/")
}

type UserHandler struct {
	accountSvc *service.AccountService
}

func NewUserHandler(accountSvc *service.AccountService) *UserHandler {
	return &UserHandler{accountSvc: accountSvc}
}

// CreateOrFetch POST /api/users
// 同地址重复提交返回已有用户
func (h *UserHandler) CreateOrFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.accountSvc.EnsureUser(r.Context(), req.Address)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Get GET /api/users/{address}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := pathSegments(r)
	if len(parts) < 3 || parts[2] == "" {
		writeError(w, http.StatusBadRequest, "invalid path format, expected /api/users/{address}")
		return
	}

	user, err := h.accountSvc.GetUser(r.Context(), parts[2])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type SwapHandler struct {
	accountSvc *service.AccountService
	swapSvc    *service.SwapService
}

func NewSwapHandler(accountSvc *service.AccountService, swapSvc *service.SwapService) *SwapHandler {
	return &SwapHandler{accountSvc: accountSvc, swapSvc: swapSvc}
}

// Create POST /api/swap-transactions
// 首次出现的地址惰性创建用户
func (h *SwapHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		UserAddress string `json:"userAddress"`
		FromToken   string `json:"fromToken"`
		ToToken     string `json:"toToken"`
		FromAmount  string `json:"fromAmount"`
		ToAmount    string `json:"toAmount"`
		ChainID     int64  `json:"chainId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.accountSvc.EnsureUser(r.Context(), req.UserAddress)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tx, err := h.swapSvc.Submit(r.Context(), service.SubmitSwapInput{
		UserID:     user.ID,
		FromToken:  req.FromToken,
		ToToken:    req.ToToken,
		FromAmount: req.FromAmount,
		ToAmount:   req.ToAmount,
		ChainID:    req.ChainID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// Route 分发 /api/swap-transactions/ 前缀下的剩余路由：
//
//	GET /api/swap-transactions/{userAddress}
//	PUT /api/swap-transactions/{id}/status
func (h *SwapHandler) Route(w http.ResponseWriter, r *http.Request) {
	parts := pathSegments(r)

	switch {
	case r.Method == http.MethodGet && len(parts) == 3:
		h.list(w, r, parts[2])
	case r.Method == http.MethodPut && len(parts) == 4 && parts[3] == "status":
		h.updateStatus(w, r, parts[2])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *SwapHandler) list(w http.ResponseWriter, r *http.Request, userAddress string) {
	user, err := h.accountSvc.GetUser(r.Context(), userAddress)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	txs, err := h.swapSvc.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, txs)
}

func (h *SwapHandler) updateStatus(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var req struct {
		Status string  `json:"status"`
		TxHash *string `json:"txHash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.swapSvc.UpdateStatus(r.Context(), id, models.SwapStatus(req.Status), req.TxHash); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type OrderHandler struct {
	accountSvc *service.AccountService
	orderSvc   *service.OrderService
}

func NewOrderHandler(accountSvc *service.AccountService, orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{accountSvc: accountSvc, orderSvc: orderSvc}
}

// Create POST /api/limit-orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		UserAddress string `json:"userAddress"`
		FromToken   string `json:"fromToken"`
		ToToken     string `json:"toToken"`
		FromAmount  string `json:"fromAmount"`
		TargetPrice string `json:"targetPrice"`
		ChainID     int64  `json:"chainId"`
		ExpiresAt   string `json:"expiresAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "expiresAt must be RFC3339")
			return
		}
		expiresAt = &t
	}

	user, err := h.accountSvc.EnsureUser(r.Context(), req.UserAddress)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	order, err := h.orderSvc.Place(r.Context(), service.PlaceOrderInput{
		UserID:      user.ID,
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		FromAmount:  req.FromAmount,
		TargetPrice: req.TargetPrice,
		ChainID:     req.ChainID,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Route 分发 /api/limit-orders/ 前缀下的剩余路由：
//
//	GET /api/limit-orders/{userAddress}
//	PUT /api/limit-orders/{id}/status
func (h *OrderHandler) Route(w http.ResponseWriter, r *http.Request) {
	parts := pathSegments(r)

	switch {
	case r.Method == http.MethodGet && len(parts) == 3:
		h.list(w, r, parts[2])
	case r.Method == http.MethodPut && len(parts) == 4 && parts[3] == "status":
		h.updateStatus(w, r, parts[2])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, userAddress string) {
	user, err := h.accountSvc.GetUser(r.Context(), userAddress)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	orders, err := h.orderSvc.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.orderSvc.UpdateStatus(r.Context(), id, models.OrderStatus(req.Status)); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type PortfolioHandler struct {
	accountSvc   *service.AccountService
	portfolioSvc *service.PortfolioService
}

func NewPortfolioHandler(accountSvc *service.AccountService, portfolioSvc *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{accountSvc: accountSvc, portfolioSvc: portfolioSvc}
}

// Create POST /api/portfolio-snapshots
func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		UserAddress string           `json:"userAddress"`
		TotalValue  string           `json:"totalValue"`
		Tokens      models.TokenList `json:"tokens"`
		ChainID     int64            `json:"chainId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.accountSvc.EnsureUser(r.Context(), req.UserAddress)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	snapshot, err := h.portfolioSvc.Record(r.Context(), user.ID, req.TotalValue, req.Tokens, req.ChainID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Latest GET /api/portfolio-snapshots/{userAddress}?chain_id=
func (h *PortfolioHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := pathSegments(r)
	if len(parts) < 3 || parts[2] == "" {
		writeError(w, http.StatusBadRequest, "invalid path format, expected /api/portfolio-snapshots/{address}")
		return
	}

	chainID, err := strconv.ParseInt(r.URL.Query().Get("chain_id"), 10, 64)
	if err != nil || chainID <= 0 {
		writeError(w, http.StatusBadRequest, "chain_id is required")
		return
	}

	user, err := h.accountSvc.GetUser(r.Context(), parts[2])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	snapshot, err := h.portfolioSvc.Latest(r.Context(), user.ID, chainID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
