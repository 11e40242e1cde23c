package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cmreports/internal/components/metrics"

	"github.com/google/uuid"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// HttpController serves the REST api.
type HttpController struct {
	svc     Service
	metrics *metrics.Registry
}

// NewHttpController registers every REST route on router. reg may be nil, in
// which case /metrics is not served.
func NewHttpController(router *http.ServeMux, svc Service, reg *metrics.Registry) *HttpController {
	c := &HttpController{svc: svc, metrics: reg}

	router.Handle("GET /{$}", c.instrument("/", c.Root()))
	router.Handle("GET /api/pending_sales", c.instrument("/api/pending_sales", c.PendingSales()))
	router.Handle("GET /api/pending_orders", c.instrument("/api/pending_orders", c.PendingOrders()))
	router.Handle("GET /api/pending_materials", c.instrument("/api/pending_materials", c.PendingMaterials()))
	router.Handle("GET /api/filtered_sales_report", c.instrument("/api/filtered_sales_report", c.FilteredSalesReport()))
	router.Handle("GET /api/filtered_sales_report/export", c.instrument("/api/filtered_sales_report/export", c.ExportFilteredSalesReport()))
	if reg != nil {
		router.Handle("GET /metrics", reg.Handler())
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		slog.Warn("write response", "err", err)
	}
}

// writeError maps err to a status code. notFound is the detail of ErrNotFound,
// failure prefixes every other error.
func writeError(w http.ResponseWriter, err error, notFound, failure string) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		writeJSON(w, http.StatusUnprocessableEntity, detailResponse{Detail: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, detailResponse{Detail: notFound})
	default:
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: fmt.Sprintf("%s: %s", failure, err)})
	}
}

func (c *HttpController) Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{Status: "API online"})
	}
}

func (c *HttpController) PendingSales() http.HandlerFunc {
	const notFound, failure = "No sales pending orders found.", "Error fetching sales pending orders"
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := c.svc.DateRange(r.URL.Query().Get("init_date"), r.URL.Query().Get("end_date"))
		if err != nil {
			writeError(w, err, notFound, failure)
			return
		}
		records, err := c.svc.PendingSales(r.Context(), window)
		if err != nil {
			writeError(w, err, notFound, failure)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (c *HttpController) PendingOrders() http.HandlerFunc {
	const notFound, failure = "No production pending orders found.", "Error fetching production pending orders"
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := c.svc.DateRange(r.URL.Query().Get("init_date"), r.URL.Query().Get("end_date"))
		if err != nil {
			writeError(w, err, notFound, failure)
			return
		}
		records, err := c.svc.PendingOrders(r.Context(), window)
		if err != nil {
			writeError(w, err, notFound, failure)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (c *HttpController) PendingMaterials() http.HandlerFunc {
	const notFound, failure = "No pending materials found.", "Error fetching pending materials"
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := c.svc.PendingMaterials(r.Context())
		if err != nil {
			writeError(w, err, notFound, failure)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (c *HttpController) FilteredSalesReport() http.HandlerFunc {
	const failure = "Error fetching sales filtered report"
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := c.svc.DateRange(r.URL.Query().Get("init_date"), r.URL.Query().Get("end_date"))
		if err != nil {
			writeError(w, err, "", failure)
			return
		}
		records, err := c.svc.FilteredSalesReport(r.Context(), window)
		if err != nil {
			writeError(w, err, "", failure)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (c *HttpController) ExportFilteredSalesReport() http.HandlerFunc {
	const failure = "Failed to export report"
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := c.svc.DateRange(r.URL.Query().Get("init_date"), r.URL.Query().Get("end_date"))
		if err != nil {
			writeError(w, err, "", failure)
			return
		}
		export, err := c.svc.ExportFilteredSalesReport(r.Context(), window)
		if err != nil {
			writeError(w, err, "", failure)
			return
		}
		w.Header().Set("Content-Type", XLSXContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(export.Content)
		if err != nil {
			slog.Warn("write export", "err", err)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// instrument tags the request with an id, logs it and records its metrics
// under route.
func (c *HttpController) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := uuid.NewString()
		w.Header().Set("X-Request-Id", requestId)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		c.metrics.ObserveRequest(route, rec.status, elapsed)
		slog.Info(
			"request",
			"id", requestId,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", elapsed.String(),
		)
	})
}

// AllowAllOrigins is a CORS middleware that accepts every origin, method and
// header.
func AllowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "*")
		header.Set("Access-Control-Allow-Headers", "*")
		header.Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
