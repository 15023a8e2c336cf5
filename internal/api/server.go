// Package api provides the HTTP API for city generation and retrieval.
// The handlers are thin pass-throughs: request parameters in, core call,
// JSON out. GET endpoints are public read-only; the simulate endpoints are
// rate-limited because generation is CPU-bound.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talgya/metropolis/internal/city"
	"github.com/talgya/metropolis/internal/persistence"
	"github.com/talgya/metropolis/internal/rng"
	"github.com/talgya/metropolis/internal/seed"
)

// Server serves city generation over HTTP.
type Server struct {
	DB   *persistence.DB // optional; nil disables the saved-city endpoints
	Port int
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	simulateLimiter := NewRateLimiter(30, time.Hour)

	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/seed-tree/{seed}", s.handleSeedTree)
	r.Post("/api/v1/simulate", simulateLimiter.Middleware(s.handleSimulate))
	r.Post("/api/v1/evolve/{id}", simulateLimiter.Middleware(s.handleEvolve))
	r.Get("/api/v1/cities", s.handleCities)
	r.Get("/api/v1/city/{id}", s.handleCity)

	return r
}

// Start serves the API, blocking until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "store", s.DB != nil)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "metro-city-api",
	})
}

// simulateRequest mirrors the web client's generation form.
type simulateRequest struct {
	Population int     `json:"population"`
	CitySize   float64 `json:"citySize"`
	MasterSeed *uint32 `json:"masterSeed"`
	Years      int     `json:"years"`
	Save       bool    `json:"save"`
}

type simulateResponse struct {
	ID      string              `json:"id"`
	City    *city.City          `json:"city"`
	Spatial city.TemporalExport `json:"spatial"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if req.Population <= 0 {
		req.Population = 100000
	}
	if req.CitySize <= 0 {
		req.CitySize = 10000
	}
	var masterSeed uint32
	if req.MasterSeed != nil {
		masterSeed = *req.MasterSeed
	} else {
		masterSeed = rng.NewRandom().Uint32()
	}

	c := city.Generate(masterSeed, req.Population)
	if req.Years > 0 {
		if err := city.Evolve(c, req.Years); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	sim := city.NewTemporalSimulator(masterSeed, req.CitySize)
	sim.SimulateEvolution(req.Population, 0)

	if req.Save && s.DB != nil {
		if err := s.DB.SaveCity(c); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	slog.Info("city simulated",
		"id", c.ID(),
		"seed", masterSeed,
		"population", c.Population,
		"years", req.Years,
	)

	writeJSON(w, http.StatusOK, simulateResponse{
		ID:      c.ID(),
		City:    c,
		Spatial: sim.Export(),
	})
}

func (s *Server) handleEvolve(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusNotImplemented, fmt.Errorf("city store not configured"))
		return
	}

	years := 1
	if y := r.URL.Query().Get("years"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid years %q", y))
			return
		}
		years = n
	}

	id := chi.URLParam(r, "id")
	c, err := s.DB.LoadCity(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if err := city.Evolve(c, years); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.DB.SaveCity(c); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, http.StatusOK, []persistence.CityInfo{})
		return
	}
	cities, err := s.DB.ListCities()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if cities == nil {
		cities = []persistence.CityInfo{}
	}
	writeJSON(w, http.StatusOK, cities)
}

func (s *Server) handleCity(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusNotImplemented, fmt.Errorf("city store not configured"))
		return
	}
	c, err := s.DB.LoadCity(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleSeedTree(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "seed")
	masterSeed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid seed %q", raw))
		return
	}

	m := seed.NewManager(uint32(masterSeed))
	// Pre-derive the well-known branches so the tree has content to show.
	for _, parent := range []string{"districts", "zones", "infrastructure", "demographics"} {
		m.Generator().BranchSeeds(parent)
	}
	writeJSON(w, http.StatusOK, m.ExportTree())
}

func statusFor(err error) int {
	if errors.Is(err, persistence.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list of extra origins; localhost dev
// servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
