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

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
	"github.com/clinilab/antibiogram-stock/internal/inventory/usecase/command"
	"github.com/clinilab/antibiogram-stock/internal/inventory/usecase/query"
	"github.com/clinilab/antibiogram-stock/kafka"
	"github.com/clinilab/antibiogram-stock/pkg/logger"
)

// InventoryHandler handles HTTP requests for antibiotic stock using CQRS pattern
type InventoryHandler struct {
	// Command handlers
	subtractHandler     *command.SubtractStockHandler
	outflowHandler      *command.RegisterOutflowHandler
	associationsHandler *command.ReplaceAssociationsHandler
	updateStockHandler  *command.UpdateStockHandler

	// Query handlers
	listAntibioticsHandler  *query.ListAntibioticsHandler
	listAntibiogramsHandler *query.ListAntibiogramsHandler
	lowStockHandler         *query.LowStockHandler
	getAssociationsHandler  *query.GetAssociationsHandler
	getAntibioticHandler    *query.GetAntibioticHandler
	listOutflowsHandler     *query.ListOutflowsHandler

	repo   domain.InventoryRepository
	events *kafka.Publisher // nil when Kafka is not configured

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	lowStockGauge  prometheus.Gauge
}

// NewInventoryHandler creates a new inventory handler (manual DI)
func NewInventoryHandler(repo domain.InventoryRepository) *InventoryHandler {
	return NewInventoryHandlerWithDI(
		command.NewSubtractStockHandler(repo),
		command.NewRegisterOutflowHandler(repo),
		command.NewReplaceAssociationsHandler(repo),
		command.NewUpdateStockHandler(repo),
		query.NewListAntibioticsHandler(repo),
		query.NewListAntibiogramsHandler(repo),
		query.NewLowStockHandler(repo),
		query.NewGetAssociationsHandler(repo),
		query.NewGetAntibioticHandler(repo),
		query.NewListOutflowsHandler(repo),
		repo,
	)
}

// NewInventoryHandlerWithDI creates a new inventory handler using dependency injection.
// This is used by Wire for automatic dependency injection.
func NewInventoryHandlerWithDI(
	subtractHandler *command.SubtractStockHandler,
	outflowHandler *command.RegisterOutflowHandler,
	associationsHandler *command.ReplaceAssociationsHandler,
	updateStockHandler *command.UpdateStockHandler,
	listAntibioticsHandler *query.ListAntibioticsHandler,
	listAntibiogramsHandler *query.ListAntibiogramsHandler,
	lowStockHandler *query.LowStockHandler,
	getAssociationsHandler *query.GetAssociationsHandler,
	getAntibioticHandler *query.GetAntibioticHandler,
	listOutflowsHandler *query.ListOutflowsHandler,
	repo domain.InventoryRepository,
) *InventoryHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_requests_total",
			Help: "Total number of requests to inventory service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_service_request_duration_seconds",
			Help:    "Duration of inventory service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "inventory_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
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

	lowStockGauge := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_service_low_stock_antibiotics",
			Help: "Number of antibiotics at or below their minimum threshold",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)
	prometheus.MustRegister(lowStockGauge)

	return &InventoryHandler{
		subtractHandler:         subtractHandler,
		outflowHandler:          outflowHandler,
		associationsHandler:     associationsHandler,
		updateStockHandler:      updateStockHandler,
		listAntibioticsHandler:  listAntibioticsHandler,
		listAntibiogramsHandler: listAntibiogramsHandler,
		lowStockHandler:         lowStockHandler,
		getAssociationsHandler:  getAssociationsHandler,
		getAntibioticHandler:    getAntibioticHandler,
		listOutflowsHandler:     listOutflowsHandler,
		repo:                    repo,
		requestCounter:          requestCounter,
		requestLatency:          requestLatency,
		requestSummary:          requestSummary,
		lowStockGauge:           lowStockGauge,
	}
}

// SetEventPublisher attaches an optional Kafka publisher for domain events
func (h *InventoryHandler) SetEventPublisher(events *kafka.Publisher) {
	h.events = events
}

// Response is the envelope for write-endpoint responses
type Response struct {
	Ok      bool        `json:"ok"`
	Message string      `json:"message,omitempty"`
	Item    interface{} `json:"item,omitempty"`
	Count   *int        `json:"count,omitempty"`
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

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *InventoryHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
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

// ListAntibiograms handles GET /antibiogramas
func (h *InventoryHandler) ListAntibiograms(w http.ResponseWriter, r *http.Request) {
	items, err := h.listAntibiogramsHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list antibiograms")
		respondJSON(w, http.StatusInternalServerError, Response{Ok: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// ListAntibiotics handles GET /antibioticos
func (h *InventoryHandler) ListAntibiotics(w http.ResponseWriter, r *http.Request) {
	items, err := h.listAntibioticsHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list antibiotics")
		respondJSON(w, http.StatusInternalServerError, Response{Ok: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// GetAntibiotic handles GET /antibioticos/{codigo}
func (h *InventoryHandler) GetAntibiotic(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["codigo"]

	item, err := h.getAntibioticHandler.Handle(r.Context(), query.GetAntibioticQuery{Code: code})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// LowStock handles GET /alerts/low-stock
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.lowStockHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list low stock antibiotics")
		respondJSON(w, http.StatusInternalServerError, Response{Ok: false, Error: err.Error()})
		return
	}

	h.lowStockGauge.Set(float64(len(items)))

	if h.events != nil && len(items) > 0 {
		alert := kafka.LowStockAlertEvent{}
		for _, it := range items {
			alert.Items = append(alert.Items, kafka.LowStockItem{
				Code:     it.Code,
				Name:     it.Name,
				Quantity: it.Quantity,
				MinStock: it.MinStock,
			})
		}
		if err := h.events.PublishLowStockAlert(r.Context(), alert); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Failed to publish low stock alert")
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"count": len(items),
		"items": items,
	})
}

// GetAssociatedCodes handles GET /antibiogramas/{id}/antibioticos
func (h *InventoryHandler) GetAssociatedCodes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	codes, err := h.getAssociationsHandler.HandleCodes(r.Context(), query.GetAssociationsQuery{AntibiogramID: id})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, codes)
}

// GetAssociatedDetail handles GET /antibiogramas/{id}/antibioticos_detalle
func (h *InventoryHandler) GetAssociatedDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	items, err := h.getAssociationsHandler.HandleDetail(r.Context(), query.GetAssociationsQuery{AntibiogramID: id})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// ReplaceAssociations handles POST /antibiogramas/{id}/antibioticos
func (h *InventoryHandler) ReplaceAssociations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Codes []string `json:"codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: "Invalid request body"})
		return
	}

	count, err := h.associationsHandler.Handle(r.Context(), command.ReplaceAssociationsCommand{
		AntibiogramID: id,
		Codes:         req.Codes,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Int("antibiograma_id", id).
		Int("count", count).
		Msg("Associations replaced")

	respondJSON(w, http.StatusOK, Response{Ok: true, Count: &count})
}

// UpdateStock handles PUT /antibioticos/{codigo}
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["codigo"]

	var req struct {
		Quantity  *int `json:"quantity"`
		Threshold *int `json:"threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: "Invalid request body"})
		return
	}
	if req.Quantity == nil || req.Threshold == nil {
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: "quantity and threshold are required"})
		return
	}

	item, err := h.updateStockHandler.Handle(r.Context(), command.UpdateStockCommand{
		Code:     code,
		Quantity: *req.Quantity,
		MinStock: *req.Threshold,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Ok: true, Item: item})
}

// SubtractStock handles POST /antibioticos/{codigo}/restar
func (h *InventoryHandler) SubtractStock(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["codigo"]

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: "Invalid request body"})
		return
	}

	item, err := h.subtractHandler.Handle(r.Context(), command.SubtractStockCommand{
		Code:     code,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Str("codigo", code).
		Int("quantity", req.Quantity).
		Int("remaining", item.Quantity).
		Msg("Stock subtracted")

	respondJSON(w, http.StatusOK, Response{Ok: true, Item: item})
}

// RegisterOutflow handles POST /salidas
func (h *InventoryHandler) RegisterOutflow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AntibiogramID int `json:"antibiogram_id"`
		Units         int `json:"units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: "Invalid request body"})
		return
	}

	err := h.outflowHandler.Handle(r.Context(), command.RegisterOutflowCommand{
		AntibiogramID: req.AntibiogramID,
		Units:         req.Units,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Int("antibiograma_id", req.AntibiogramID).
		Int("units", req.Units).
		Msg("Outflow registered")

	if h.events != nil {
		codes, err := h.repo.AssociatedCodes(r.Context(), uint(req.AntibiogramID))
		if err != nil {
			codes = nil
		}
		event := kafka.OutflowRegisteredEvent{
			AntibiogramID: uint(req.AntibiogramID),
			Units:         req.Units,
			Antibiotics:   codes,
		}
		if err := h.events.PublishOutflowRegistered(r.Context(), event); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Failed to publish outflow event")
		}
	}

	respondJSON(w, http.StatusOK, Response{Ok: true})
}

// ListOutflows handles GET /salidas
func (h *InventoryHandler) ListOutflows(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.listOutflowsHandler.Handle(r.Context(), query.ListOutflowsQuery{Limit: limit})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list outflows")
		respondJSON(w, http.StatusInternalServerError, Response{Ok: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// respondDomainError maps domain error kinds to HTTP statuses:
// validation -> 400, not found -> 404, insufficient stock -> 409,
// everything else -> 500.
func (h *InventoryHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: err.Error()})

	case errors.Is(err, domain.ErrAntibioticNotFound):
		respondJSON(w, http.StatusNotFound, Response{Ok: false, Error: "Antibiotico no encontrado"})

	case errors.Is(err, domain.ErrNoAssociations):
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: err.Error()})

	case errors.As(err, &insufficient):
		payload := map[string]interface{}{
			"ok":    false,
			"error": "Stock insuficiente",
		}
		if len(insufficient.Items) == 1 {
			payload["cantidad"] = insufficient.Items[0].Available
		}
		payload["faltantes"] = insufficient.Items
		respondJSON(w, http.StatusConflict, payload)

	default:
		logger.Error(r.Context()).Err(err).Msg("Unexpected error")
		respondJSON(w, http.StatusInternalServerError, Response{Ok: false, Error: err.Error()})
	}
}

// pathID parses the {id} path variable, rejecting non-positive values
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{Ok: false, Error: "Invalid antibiogram ID"})
		return 0, false
	}
	return id, true
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/antibiogramas", h.metricsMiddleware("/antibiogramas", h.ListAntibiograms)).Methods("GET")
	router.HandleFunc("/antibioticos", h.metricsMiddleware("/antibioticos", h.ListAntibiotics)).Methods("GET")
	router.HandleFunc("/alerts/low-stock", h.metricsMiddleware("/alerts/low-stock", h.LowStock)).Methods("GET")

	router.HandleFunc("/antibiogramas/{id}/antibioticos", h.metricsMiddleware("/antibiogramas/{id}/antibioticos", h.GetAssociatedCodes)).Methods("GET")
	router.HandleFunc("/antibiogramas/{id}/antibioticos_detalle", h.metricsMiddleware("/antibiogramas/{id}/antibioticos_detalle", h.GetAssociatedDetail)).Methods("GET")
	router.HandleFunc("/antibiogramas/{id}/antibioticos", h.metricsMiddleware("/antibiogramas/{id}/antibioticos", h.ReplaceAssociations)).Methods("POST")

	router.HandleFunc("/antibioticos/{codigo}", h.metricsMiddleware("/antibioticos/{codigo}", h.GetAntibiotic)).Methods("GET")
	router.HandleFunc("/antibioticos/{codigo}", h.metricsMiddleware("/antibioticos/{codigo}", h.UpdateStock)).Methods("PUT")
	router.HandleFunc("/antibioticos/{codigo}/restar", h.metricsMiddleware("/antibioticos/{codigo}/restar", h.SubtractStock)).Methods("POST")

	router.HandleFunc("/salidas", h.metricsMiddleware("/salidas", h.RegisterOutflow)).Methods("POST")
	router.HandleFunc("/salidas", h.metricsMiddleware("/salidas", h.ListOutflows)).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Ok: false, Error: "Database unavailable"})
			return
		}

		respondJSON(w, http.StatusOK, Response{Ok: true, Message: "Inventory service is healthy"})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
