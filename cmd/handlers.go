package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clientpulse/health-cli/internal/customer"
	"github.com/clientpulse/health-cli/internal/health"
	"github.com/clientpulse/health-cli/internal/intel"
)

// newRouter builds the HTTP surface over the core components. Handlers are
// thin: decode, call the engine or service, encode.
func newRouter(app *appEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scores", app.handleScore)
		r.Get("/customers", app.handleListCustomers)
		r.Post("/customers", app.handleCreateCustomer)
		r.Get("/customers/{id}/score", app.handleCustomerScore)
		r.Get("/intelligence/{company}", app.handleIntelligence)
		r.Get("/cache/stats", app.handleCacheStats)
		r.Post("/cache/sweep", app.handleCacheSweep)
	})

	return r
}

// scoreRequest is the POST /scores payload.
type scoreRequest struct {
	Metrics       *health.HealthScoreInput `json:"metrics"`
	PreviousScore *int                     `json:"previousScore,omitempty"`
}

func (app *appEnv) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := app.Engine.Calculate(req.Metrics, req.PreviousScore)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (app *appEnv) handleListCustomers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, app.Customers.List())
}

func (app *appEnv) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c customer.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := app.Customers.Create(c)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (app *appEnv) handleCustomerScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := app.Customers.Get(id)
	if err != nil {
		if eris.Is(err, customer.ErrNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := app.Engine.Calculate(&c.Metrics, c.LastScore)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if err := app.Customers.SetLastScore(id, result.OverallScore); err != nil {
		zap.L().Warn("serve: record last score", zap.String("id", id), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, result)
}

func (app *appEnv) handleIntelligence(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	data, err := app.Intel.Get(r.Context(), company)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (app *appEnv) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"entries": app.Intel.Size()})
}

func (app *appEnv) handleCacheSweep(w http.ResponseWriter, _ *http.Request) {
	removed := app.Intel.ClearExpired()
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// writeCoreError maps domain error types onto HTTP responses.
func writeCoreError(w http.ResponseWriter, err error) {
	var verr *health.ValidationError
	if eris.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"errors": verr.Errors,
		})
		return
	}

	var ierr *intel.Error
	if eris.As(err, &ierr) {
		writeJSON(w, ierr.Status, map[string]any{
			"error": ierr.Message,
			"code":  ierr.Code,
		})
		return
	}

	zap.L().Error("serve: request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
