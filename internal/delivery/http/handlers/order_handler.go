package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
	orderusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/order"
	"github.com/gorilla/mux"
)

type OrderHandler struct {
	orders orderusecase.OrderUsecase
	logger *slog.Logger
}

func NewOrderHandler(orders orderusecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	router.HandleFunc("/orders", h.ListOrders).Methods("GET")
	router.HandleFunc("/orders/by-utr/{utr}", h.GetOrderByUTR).Methods("GET")
	router.HandleFunc("/orders/{orderID}", h.GetOrder).Methods("GET")
	router.HandleFunc("/orders/{orderID}/utr", h.SubmitUTR).Methods("POST")
	router.HandleFunc("/orders/{orderID}/utr", h.RemoveUTR).Methods("DELETE")
	router.HandleFunc("/orders/{orderID}/decision", h.DecideOrder).Methods("POST")
}

type createOrderRequest struct {
	Amount       float64           `json:"amount"`
	MerchantName string            `json:"merchant_name"`
	PayAddress   string            `json:"pay_address,omitempty"`
	TimerMinutes int               `json:"timer_minutes,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type submitUTRRequest struct {
	UTR string `json:"utr"`
}

type removeUTRRequest struct {
	Reason string `json:"reason,omitempty"`
}

type decideOrderRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type orderResponse struct {
	OrderID          string            `json:"order_id"`
	Amount           float64           `json:"amount"`
	MerchantName     string            `json:"merchant_name"`
	PayAddress       string            `json:"pay_address"`
	Status           string            `json:"status"`
	UTR              string            `json:"utr,omitempty"`
	CreatedBy        string            `json:"created_by"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
	RemainingSeconds int64             `json:"remaining_seconds"`
}

type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int32           `json:"page"`
	Limit  int32           `json:"limit"`
}

func toOrderResponse(output *orderdto.OrderOutput) orderResponse {
	return toOrderResponseWithRemaining(output.Order, output.RemainingSeconds)
}

func toOrderResponseWithRemaining(order *domain.Order, remaining int64) orderResponse {
	resp := orderResponse{
		OrderID:          order.ID,
		Amount:           order.Amount,
		MerchantName:     order.MerchantName,
		PayAddress:       order.PayAddress,
		Status:           string(order.Status),
		CreatedBy:        order.CreatedBy,
		Metadata:         order.Metadata,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		ExpiresAt:        order.ExpiresAt,
		RemainingSeconds: remaining,
	}
	if order.HasUTR() {
		resp.UTR = *order.UTR
	}
	return resp
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	output, err := h.orders.CreateOrder(r.Context(), &orderdto.CreateOrderInput{
		Amount:       req.Amount,
		MerchantName: req.MerchantName,
		PayAddress:   req.PayAddress,
		TimerMinutes: req.TimerMinutes,
		Metadata:     req.Metadata,
		Actor:        actorFromRequest(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(output))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderID"]

	output, err := h.orders.GetOrderByID(r.Context(), orderID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(output))
}

func (h *OrderHandler) GetOrderByUTR(w http.ResponseWriter, r *http.Request) {
	utr := mux.Vars(r)["utr"]

	output, err := h.orders.GetOrderByUTR(r.Context(), utr)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(output))
}

func (h *OrderHandler) SubmitUTR(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderID"]

	var req submitUTRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	output, err := h.orders.SubmitUTR(r.Context(), &orderdto.SubmitUTRInput{
		OrderID:      orderID,
		UTR:          req.UTR,
		SubmissionIP: clientIP(r),
		Actor:        actorFromRequest(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(output))
}

func (h *OrderHandler) RemoveUTR(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderID"]

	var req removeUTRRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, h.logger, domain.NewValidationError("invalid request body: %v", err))
			return
		}
	}

	output, err := h.orders.RemoveUTR(r.Context(), &orderdto.RemoveUTRInput{
		OrderID: orderID,
		Reason:  req.Reason,
		Actor:   actorFromRequest(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(output))
}

func (h *OrderHandler) DecideOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderID"]

	var req decideOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	output, err := h.orders.DecideOrder(r.Context(), &orderdto.DecideOrderInput{
		OrderID:   orderID,
		NewStatus: domain.OrderStatus(strings.ToUpper(req.Status)),
		Reason:    req.Reason,
		Actor:     actorFromRequest(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(output))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	input := &orderdto.ListOrdersInput{
		CreatorID: r.URL.Query().Get("created_by"),
		Filters:   parseOrderFilters(r),
		Page:      parseInt32(r.URL.Query().Get("page"), 1),
		Limit:     parseInt32(r.URL.Query().Get("limit"), 50),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}

	var (
		output *orderdto.ListOrdersOutput
		err    error
	)
	if input.CreatorID != "" {
		output, err = h.orders.GetOrdersByCreator(r.Context(), input)
	} else {
		output, err = h.orders.GetAllOrders(r.Context(), input)
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := listOrdersResponse{
		Orders: make([]orderResponse, len(output.Orders)),
		Total:  output.Total,
		Page:   output.Page,
		Limit:  output.Limit,
	}
	for i, order := range output.Orders {
		resp.Orders[i] = toOrderResponseWithRemaining(order, 0)
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseOrderFilters(r *http.Request) domain.OrderFilters {
	query := r.URL.Query()
	filters := domain.OrderFilters{}

	if raw := query.Get("statuses"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filters.Statuses = append(filters.Statuses, domain.OrderStatus(strings.ToUpper(s)))
			}
		}
	}
	if v, err := strconv.ParseFloat(query.Get("min_amount"), 64); err == nil {
		filters.MinAmount = v
	}
	if v, err := strconv.ParseFloat(query.Get("max_amount"), 64); err == nil {
		filters.MaxAmount = v
	}
	if t, err := time.Parse(time.RFC3339, query.Get("date_from")); err == nil {
		filters.DateFrom = t
	}
	if t, err := time.Parse(time.RFC3339, query.Get("date_to")); err == nil {
		filters.DateTo = t
	}
	if raw := query.Get("has_utr"); raw != "" {
		hasUTR := raw == "true"
		filters.HasUTR = &hasUTR
	}

	return filters
}

func parseInt32(raw string, fallback int32) int32 {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}
