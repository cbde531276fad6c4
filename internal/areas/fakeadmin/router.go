// Package fakeadmin is an in-memory stand-in for the delivery areas admin API,
// used for local dry runs and tests.
package fakeadmin

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"

	goccy_json "github.com/goccy/go-json"
	"github.com/samber/lo"
	"go.uber.org/atomic"
)

type deliveryArea struct {
	ID            string  `json:"_id"`
	Name          string  `json:"name"`
	DeliveryFee   float64 `json:"deliveryFee"`
	EstimatedTime int     `json:"estimatedTime"`
	IsActive      bool    `json:"isActive"`
}

type createInput struct {
	Name          string  `json:"name"`
	DeliveryFee   float64 `json:"deliveryFee"`
	EstimatedTime int     `json:"estimatedTime"`
}

type router struct {
	accessToken string
	apiKey      string
	logger      *slog.Logger
	mux         *http.ServeMux

	mu     sync.Mutex
	areas  []deliveryArea
	nextID int

	requests atomic.Int64
	created  atomic.Int64
	rejected atomic.Int64
}

// Stats counts the requests served so far. Handlers run concurrently, so the
// counters are atomic.
type Stats struct {
	Requests int64
	Created  int64
	Rejected int64
}

var _ http.Handler = (*router)(nil)

func NewRouter(
	accessToken string,
	apiKey string,
	logger *slog.Logger,
) *router {
	router := &router{
		accessToken: accessToken,
		apiKey:      apiKey,
		logger:      logger,
		nextID:      1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/admin/deliveryAreas", router.create)
	mux.HandleFunc("GET /api/v1/admin/deliveryAreas", router.list)

	router.mux = mux
	return router
}

func (r *router) create(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	var input createInput
	if err := goccy_json.NewDecoder(req.Body).Decode(&input); err != nil {
		logger.Error("failed to decode request", slog.Any("error", err))
		r.rejected.Inc()
		writeMessage(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	seed := domain.AreaSeed{Name: input.Name, DeliveryFee: input.DeliveryFee, EstimatedTime: input.EstimatedTime}
	if err := seed.Validate(); err != nil {
		logger.Error("input validation failed", slog.Any("error", err))
		r.rejected.Inc()
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := lo.Find(r.areas, func(area deliveryArea) bool {
		return domain.NormalizeName(area.Name) == seed.Key()
	}); exists {
		r.rejected.Inc()
		writeMessage(w, http.StatusBadRequest, "Delivery area already exists")
		return
	}

	area := deliveryArea{
		ID:            fmt.Sprintf("%024x", r.nextID),
		Name:          input.Name,
		DeliveryFee:   input.DeliveryFee,
		EstimatedTime: input.EstimatedTime,
		IsActive:      true,
	}
	r.nextID++
	r.areas = append(r.areas, area)
	r.created.Inc()

	logger.Info("delivery area created", slog.String("id", area.ID), slog.String("name", area.Name))

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    map[string]any{"deliveryArea": area},
	})
}

func (r *router) list(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	areas := append([]deliveryArea{}, r.areas...)
	r.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"deliveryAreas": areas},
	})
}

func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.requests.Inc()
	if req.Header.Get("Authorization") != "Bearer "+r.accessToken || req.Header.Get("X-API-Key") != r.apiKey {
		r.rejected.Inc()
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	r.mux.ServeHTTP(w, req)
}

func (r *router) Stats() Stats {
	return Stats{
		Requests: r.requests.Load(),
		Created:  r.created.Load(),
		Rejected: r.rejected.Load(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Internal Server Error: "+err.Error(), http.StatusInternalServerError)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}
