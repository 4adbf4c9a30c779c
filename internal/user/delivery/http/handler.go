package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/sweet-shop/internal/user/domain"
	"github.com/tair/sweet-shop/internal/user/usecase/command"
	"github.com/tair/sweet-shop/internal/user/usecase/query"
	"github.com/tair/sweet-shop/pkg/logger"
)

// UserHandler handles HTTP requests for authentication and profiles.
type UserHandler struct {
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler
	getUserHandler  *query.GetUserHandler

	repo domain.UserRepository
	mw   *AuthMiddleware

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	totalUsers     prometheus.Gauge
}

// NewUserHandler creates a new user handler.
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	getUserHandler *query.GetUserHandler,
	repo domain.UserRepository,
	mw *AuthMiddleware,
) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_requests_total",
			Help: "Total number of requests to the auth endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_service_request_duration_seconds",
			Help:    "Duration of auth requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	totalUsers := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "user_service_total_users",
			Help: "Total number of registered users",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(totalUsers)

	return &UserHandler{
		registerHandler: registerHandler,
		loginHandler:    loginHandler,
		getUserHandler:  getUserHandler,
		repo:            repo,
		mw:              mw,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		totalUsers:      totalUsers,
	}
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

func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// RegisterRoutes registers auth routes on the router.
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", h.metricsMiddleware("/api/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/api/auth/login", h.metricsMiddleware("/api/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/api/auth/me", h.metricsMiddleware("/api/auth/me", h.mw.Authenticate(h.GetProfile))).Methods("GET")
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.RegisterUserCommand{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.RoleUser,
	}

	resp, err := h.registerHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Registration failed")
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.updateUsersMetric(r)

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	}

	resp, err := h.loginHandler.Handle(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			h.respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Login failed")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// GetProfile handles GET /api/auth/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: userID})
	if err != nil {
		h.respondError(w, http.StatusNotFound, "User not found")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *UserHandler) updateUsersMetric(r *http.Request) {
	count, err := h.repo.Count(r.Context())
	if err == nil {
		h.totalUsers.Set(float64(count))
	}
}

func (h *UserHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *UserHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
