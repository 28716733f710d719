package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

// Pagination bounds the page_size query parameter.
type Pagination struct {
	DefaultPageSize int32
	MaxPageSize     int32
}

type Handler struct {
	rentOuts   service.RentOutService
	products   service.ProductService
	customers  service.CustomerService
	pagination Pagination
}

func NewHandler(rentOuts service.RentOutService, products service.ProductService, customers service.CustomerService, pagination Pagination) *Handler {
	if pagination.DefaultPageSize <= 0 {
		pagination.DefaultPageSize = 20
	}
	if pagination.MaxPageSize < pagination.DefaultPageSize {
		pagination.MaxPageSize = pagination.DefaultPageSize
	}
	return &Handler{
		rentOuts:   rentOuts,
		products:   products,
		customers:  customers,
		pagination: pagination,
	}
}

// NewRouter builds the JSON API under /api/v1.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, loggingMiddleware)
	RegisterRoutes(router, h)
	return router
}

func RegisterRoutes(router *mux.Router, h *Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/rent-outs", h.CreateRentOut).Methods("POST")
	api.HandleFunc("/rent-outs", h.ListRentOuts).Methods("GET")
	api.HandleFunc("/rent-outs/{id:[0-9]+}", h.GetRentOut).Methods("GET")
	api.HandleFunc("/rent-outs/{id:[0-9]+}", h.DeleteRentOut).Methods("DELETE")
	api.HandleFunc("/rent-outs/{id:[0-9]+}/payments", h.RecordPayment).Methods("POST")
	api.HandleFunc("/rent-outs/{id:[0-9]+}/returns", h.RecordReturn).Methods("POST")
	api.HandleFunc("/rent-outs/{id:[0-9]+}/reconcile", h.ReconcileRentOut).Methods("POST")

	api.HandleFunc("/products", h.CreateProduct).Methods("POST")
	api.HandleFunc("/products", h.ListProducts).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", h.UpdateProduct).Methods("PUT")

	api.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers", h.SearchCustomers).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", h.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", h.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id:[0-9]+}", h.DeleteCustomer).Methods("DELETE")
}

// requestIDMiddleware reuses the caller's X-Request-ID or generates one, and
// stores a request-scoped logger in the context.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.NewContext(r.Context(), logger.WithRequestID(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.FromContext(r.Context()).Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func pathID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", errBadRequest)
	}
	return int32(id), nil
}

// page reads page and page_size, clamping page_size to the configured maximum.
func (h *Handler) page(r *http.Request) (int32, int32, error) {
	q := r.URL.Query()
	page, pageSize := int32(1), h.pagination.DefaultPageSize

	if v := q.Get("page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			return 0, 0, domain.NewValidationError("page", "must be a positive integer")
		}
		page = int32(n)
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			return 0, 0, domain.NewValidationError("page_size", "must be a positive integer")
		}
		pageSize = int32(n)
	}
	if pageSize > h.pagination.MaxPageSize {
		pageSize = h.pagination.MaxPageSize
	}
	return page, pageSize, nil
}

type listResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int32 `json:"total_count"`
	Page       int32 `json:"page"`
	PageSize   int32 `json:"page_size"`
}
