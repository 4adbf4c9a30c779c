package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/sweet-shop/internal/sweet/domain"
	"github.com/tair/sweet-shop/internal/sweet/usecase/command"
	"github.com/tair/sweet-shop/internal/sweet/usecase/query"
	"github.com/tair/sweet-shop/kafka"
	"github.com/tair/sweet-shop/pkg/logger"
)

// SweetHandler handles HTTP requests for the catalog and the inventory
// operations using the CQRS pattern.
type SweetHandler struct {
	// Command handlers
	createHandler   *command.CreateSweetHandler
	updateHandler   *command.UpdateSweetHandler
	deleteHandler   *command.DeleteSweetHandler
	purchaseHandler *command.PurchaseSweetHandler
	restockHandler  *command.RestockSweetHandler
	releaseHandler  *command.ReleaseSweetHandler

	// Query handlers
	getHandler    *query.GetSweetHandler
	listHandler   *query.ListSweetsHandler
	searchHandler *query.SearchSweetsHandler

	repo      domain.SweetRepository
	mw        *AuthMiddleware
	publisher *kafka.Publisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalSweets    prometheus.Gauge
}

// NewSweetHandler creates a new sweet handler.
func NewSweetHandler(
	createHandler *command.CreateSweetHandler,
	updateHandler *command.UpdateSweetHandler,
	deleteHandler *command.DeleteSweetHandler,
	purchaseHandler *command.PurchaseSweetHandler,
	restockHandler *command.RestockSweetHandler,
	releaseHandler *command.ReleaseSweetHandler,
	getHandler *query.GetSweetHandler,
	listHandler *query.ListSweetsHandler,
	searchHandler *query.SearchSweetsHandler,
	repo domain.SweetRepository,
	mw *AuthMiddleware,
	publisher *kafka.Publisher,
) *SweetHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweet_service_requests_total",
			Help: "Total number of requests to the sweet service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sweet_service_request_duration_seconds",
			Help:    "Duration of sweet service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "sweet_service_request_duration_summary",
			Help: "Summary of request durations with client-side quantiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	totalSweets := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sweet_service_total_sweets",
			Help: "Total number of sweets in the catalog",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)
	prometheus.MustRegister(totalSweets)

	return &SweetHandler{
		createHandler:   createHandler,
		updateHandler:   updateHandler,
		deleteHandler:   deleteHandler,
		purchaseHandler: purchaseHandler,
		restockHandler:  restockHandler,
		releaseHandler:  releaseHandler,
		getHandler:      getHandler,
		listHandler:     listHandler,
		searchHandler:   searchHandler,
		repo:            repo,
		mw:              mw,
		publisher:       publisher,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		requestSummary:  requestSummary,
		totalSweets:     totalSweets,
	}
}

type Response struct {
	Message string      `json:"message,omitempty"`
	Sweet   interface{} `json:"sweet,omitempty"`
	Sweets  interface{} `json:"sweets,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *SweetHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers catalog and inventory routes on the router.
func (h *SweetHandler) RegisterRoutes(router *mux.Router) {
	// Catalog reads (any authenticated user)
	router.HandleFunc("/api/sweets", h.metricsMiddleware("/api/sweets", h.mw.Authenticate(h.ListSweets))).Methods("GET")
	router.HandleFunc("/api/sweets/search", h.metricsMiddleware("/api/sweets/search", h.mw.Authenticate(h.SearchSweets))).Methods("GET")
	router.HandleFunc("/api/sweets/{id}", h.metricsMiddleware("/api/sweets/{id}", h.mw.Authenticate(h.GetSweet))).Methods("GET")

	// Catalog writes (admin only)
	router.HandleFunc("/api/sweets", h.metricsMiddleware("/api/sweets", h.mw.RequireAdmin(h.CreateSweet))).Methods("POST")
	router.HandleFunc("/api/sweets/{id}", h.metricsMiddleware("/api/sweets/{id}", h.mw.RequireAdmin(h.UpdateSweet))).Methods("PUT")
	router.HandleFunc("/api/sweets/{id}", h.metricsMiddleware("/api/sweets/{id}", h.mw.RequireAdmin(h.DeleteSweet))).Methods("DELETE")

	// Inventory operations
	router.HandleFunc("/api/sweets/{id}/purchase", h.metricsMiddleware("/api/sweets/{id}/purchase", h.mw.Authenticate(h.PurchaseSweet))).Methods("POST")
	router.HandleFunc("/api/sweets/{id}/restock", h.metricsMiddleware("/api/sweets/{id}/restock", h.mw.RequireAdmin(h.RestockSweet))).Methods("POST")
	router.HandleFunc("/api/sweets/{id}/release", h.metricsMiddleware("/api/sweets/{id}/release", h.mw.Authenticate(h.ReleaseSweet))).Methods("POST")
}

// CreateSweet handles POST /api/sweets
func (h *SweetHandler) CreateSweet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Error: "Invalid request body"})
		return
	}

	cmd := command.CreateSweetCommand{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	}

	sweet, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Failed to create sweet")
		respondJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
		return
	}

	h.updateSweetsMetric(r)

	respondJSON(w, http.StatusCreated, Response{
		Message: "Sweet created successfully",
		Sweet:   sweet,
	})
}

// ListSweets handles GET /api/sweets
func (h *SweetHandler) ListSweets(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.listHandler.Handle(r.Context(), query.ListSweetsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list sweets")
		respondJSON(w, http.StatusInternalServerError, Response{Error: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Sweets: sweets})
}

// SearchSweets handles GET /api/sweets/search
func (h *SweetHandler) SearchSweets(w http.ResponseWriter, r *http.Request) {
	q := query.SearchSweetsQuery{
		Name:     r.URL.Query().Get("name"),
		Category: r.URL.Query().Get("category"),
	}

	if raw := r.URL.Query().Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondJSON(w, http.StatusBadRequest, Response{Error: "minPrice must be a positive number"})
			return
		}
		q.MinPrice = &v
	}
	if raw := r.URL.Query().Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondJSON(w, http.StatusBadRequest, Response{Error: "maxPrice must be a positive number"})
			return
		}
		q.MaxPrice = &v
	}

	sweets, err := h.searchHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to search sweets")
		respondJSON(w, http.StatusInternalServerError, Response{Error: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Sweets: sweets})
}

// GetSweet handles GET /api/sweets/{id}
func (h *SweetHandler) GetSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sweet, err := h.getHandler.Handle(r.Context(), query.GetSweetQuery{ID: id})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Error: "Sweet not found"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Sweet: sweet})
}

// UpdateSweet handles PUT /api/sweets/{id}
func (h *SweetHandler) UpdateSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Name     *string  `json:"name"`
		Category *string  `json:"category"`
		Price    *float64 `json:"price"`
		Quantity *int     `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Error: "Invalid request body"})
		return
	}

	cmd := command.UpdateSweetCommand{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	}

	sweet, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Error: "Sweet not found"})
			return
		}
		logger.Warn(r.Context()).Err(err).Msg("Failed to update sweet")
		respondJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Message: "Sweet updated successfully",
		Sweet:   sweet,
	})
}

// DeleteSweet handles DELETE /api/sweets/{id}
func (h *SweetHandler) DeleteSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteSweetCommand{ID: id}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Error: "Sweet not found"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to delete sweet")
		respondJSON(w, http.StatusInternalServerError, Response{Error: "Internal server error"})
		return
	}

	h.updateSweetsMetric(r)

	respondJSON(w, http.StatusOK, Response{Message: "Sweet deleted successfully"})
}

// quantityRequest is the body shared by all three inventory operations.
type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// PurchaseSweet handles POST /api/sweets/{id}/purchase
func (h *SweetHandler) PurchaseSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Error: "Invalid request body"})
		return
	}

	cmd := command.PurchaseSweetCommand{SweetID: id, Quantity: req.Quantity}
	sweet, err := h.purchaseHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondInventoryError(w, r, err)
		return
	}

	h.publishStockEvent(r, kafka.OperationPurchase, sweet, req.Quantity)

	respondJSON(w, http.StatusOK, Response{
		Message: "Purchase successful",
		Sweet:   sweet,
	})
}

// RestockSweet handles POST /api/sweets/{id}/restock
func (h *SweetHandler) RestockSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Error: "Invalid request body"})
		return
	}

	cmd := command.RestockSweetCommand{SweetID: id, Quantity: req.Quantity}
	sweet, err := h.restockHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondInventoryError(w, r, err)
		return
	}

	h.publishStockEvent(r, kafka.OperationRestock, sweet, req.Quantity)

	respondJSON(w, http.StatusOK, Response{
		Message: "Restock successful",
		Sweet:   sweet,
	})
}

// ReleaseSweet handles POST /api/sweets/{id}/release
func (h *SweetHandler) ReleaseSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Error: "Invalid request body"})
		return
	}

	cmd := command.ReleaseSweetCommand{SweetID: id, Quantity: req.Quantity}
	sweet, err := h.releaseHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondInventoryError(w, r, err)
		return
	}

	h.publishStockEvent(r, kafka.OperationRelease, sweet, req.Quantity)

	respondJSON(w, http.StatusOK, Response{
		Message: "Stock released successfully",
		Sweet:   sweet,
	})
}

// respondInventoryError maps inventory operation failures to status
// codes: the error says why, not just that something went wrong.
func (h *SweetHandler) respondInventoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, Response{Error: "Sweet not found"})
	case errors.Is(err, domain.ErrInsufficientQuantity):
		respondJSON(w, http.StatusBadRequest, Response{Error: "Insufficient quantity available"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondJSON(w, http.StatusBadRequest, Response{Error: "Quantity must be a positive integer"})
	default:
		logger.Error(r.Context()).Err(err).Msg("Inventory operation failed")
		respondJSON(w, http.StatusInternalServerError, Response{Error: "Internal server error"})
	}
}

func (h *SweetHandler) publishStockEvent(r *http.Request, operation string, sweet *domain.Sweet, amount int) {
	userID, _ := r.Context().Value(UserIDKey).(string)

	event := kafka.StockChangedEvent{
		SweetID:   sweet.ID,
		SweetName: sweet.Name,
		Operation: operation,
		Amount:    amount,
		Quantity:  sweet.Quantity,
		UserID:    userID,
	}

	// Audit is best effort; a publish failure never fails the request.
	if err := h.publisher.PublishStockChanged(r.Context(), event); err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Failed to publish stock event")
	}
}

func (h *SweetHandler) updateSweetsMetric(r *http.Request) {
	count, err := h.repo.Count(r.Context())
	if err == nil {
		h.totalSweets.Set(float64(count))
	}
}

// RegisterHealthCheck registers the health endpoint backed by a DB ping.
func (h *SweetHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Error: "Database unavailable"})
			return
		}

		respondJSON(w, http.StatusOK, Response{Message: "Sweet Shop API is running"})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
