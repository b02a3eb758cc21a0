// Package server exposes the followed stations, their sensors, the refresh
// button and the nearest stations search over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/internal/coordinator"
	"github.com/rubiojr/prixcarburant/internal/geocode"
	"github.com/rubiojr/prixcarburant/internal/storage"
	"github.com/rubiojr/prixcarburant/internal/translations"
	"github.com/rubiojr/prixcarburant/pkg/api"
)

const (
	DefaultRateLimit     = 20
	nearestCacheExpiry   = 10 * time.Minute
	nearestCacheCleanup  = 30 * time.Minute
	defaultSearchesLimit = 20
)

// Stations is the station repository served by the API.
type Stations interface {
	Stations() map[int64]*carburant.Station
	FindNearest(ctx context.Context, point carburant.Point, fuel api.FuelType, km float64) (map[int64]*carburant.Station, error)
}

// Refresher triggers and reports price refreshes.
type Refresher interface {
	Refresh(ctx context.Context) error
	Status() coordinator.Status
}

// History gives access to recorded prices and searches.
type History interface {
	PriceHistory(ctx context.Context, stationID int64, fuel api.FuelType) ([]storage.PricePoint, error)
	LogSearchLocation(ctx context.Context, latitude, longitude, distance float64) error
	GetLocationLogs(ctx context.Context, limit int) ([]storage.LocationLog, error)
	PopularAreas(ctx context.Context, limit int) ([]storage.PopularArea, error)
}

// Locator resolves free-text locations.
type Locator interface {
	Locate(location string) (geocode.Result, error)
}

type Options struct {
	Stations  Stations
	Refresher Refresher
	// History and Geocoder are optional.
	History  History
	Geocoder Locator
	Sensors  carburant.SensorOptions
	Logger   *httplog.Logger
	// RateLimit is the number of requests allowed per IP and minute.
	RateLimit int
}

type Server struct {
	stations  Stations
	refresher Refresher
	history   History
	geocoder  Locator
	sensors   carburant.SensorOptions
	logger    *httplog.Logger
	log       *slog.Logger
	rateLimit int
	cache     *cache.Cache
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = httplog.NewLogger("prixcarburant", httplog.Options{
			LogLevel: slog.LevelError,
			Concise:  true,
			Writer:   io.Discard,
		})
	}
	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	return &Server{
		stations:  opts.Stations,
		refresher: opts.Refresher,
		history:   opts.History,
		geocoder:  opts.Geocoder,
		sensors:   opts.Sensors,
		logger:    logger,
		log:       logger.Logger,
		rateLimit: rateLimit,
		cache:     cache.New(nearestCacheExpiry, nearestCacheCleanup),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))

		r.Get("/stations", s.handleStations)
		r.Get("/stations/{id}", s.handleStation)
		r.Get("/sensors", s.handleSensors)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/nearest", s.handleNearest)
		if s.history != nil {
			r.Get("/stations/{id}/history", s.handleHistory)
			r.Get("/searches", s.handleSearches)
			r.Get("/searches/popular", s.handlePopularAreas)
		}
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.refresher.Status()
	code := http.StatusOK
	if !status.Initialized {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations := s.stations.Stations()
	out := make([]*carburant.Station, 0, len(stations))
	for _, id := range slices.Sorted(maps.Keys(stations)) {
		out = append(out, stations[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid station id", http.StatusBadRequest)
		return
	}
	station, ok := s.stations.Stations()[id]
	if !ok {
		http.Error(w, "Station not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

func (s *Server) handleSensors(w http.ResponseWriter, r *http.Request) {
	opts := s.sensors
	opts.Now = time.Now()
	sensors := carburant.BuildSensors(s.stations.Stations(), opts)
	if sensors == nil {
		sensors = []carburant.Sensor{}
	}
	writeJSON(w, http.StatusOK, sensors)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("Price refresh asked from button")
	if err := s.refresher.Refresh(r.Context()); err != nil {
		s.log.Error("Error refreshing prices", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.refresher.Status())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid station id", http.StatusBadRequest)
		return
	}
	fuel, err := api.ParseFuelType(r.URL.Query().Get("fuel"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	history, err := s.history.PriceHistory(r.Context(), id, fuel)
	if err != nil {
		s.log.Error("Error reading price history", "error", err)
		http.Error(w, "Error reading price history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []storage.PricePoint{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleSearches(w http.ResponseWriter, r *http.Request) {
	logs, err := s.history.GetLocationLogs(r.Context(), searchesLimit(r))
	if err != nil {
		s.log.Error("Error reading location logs", "error", err)
		http.Error(w, "Error reading searches", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []storage.LocationLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handlePopularAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.history.PopularAreas(r.Context(), searchesLimit(r))
	if err != nil {
		s.log.Error("Error clustering searches", "error", err)
		http.Error(w, "Error reading searches", http.StatusInternalServerError)
		return
	}
	if areas == nil {
		areas = []storage.PopularArea{}
	}
	writeJSON(w, http.StatusOK, areas)
}

func searchesLimit(r *http.Request) int {
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		return l
	}
	return defaultSearchesLimit
}

type nearestResponse struct {
	Stations []carburant.NearestResult `json:"stations"`
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tr := translations.GetTranslations(translations.GetLanguageFromQuery(query.Get("lang")))

	fuel, err := api.ParseFuelType(query.Get("fuel"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	radius := float64(carburant.DefaultNearestKm)
	if d := query.Get("distance"); d != "" {
		radius, err = strconv.ParseFloat(d, 64)
		if err != nil || radius <= 0 {
			http.Error(w, "Invalid distance value", http.StatusBadRequest)
			return
		}
	}

	point, status, err := s.searchPoint(query.Get("location"), query.Get("lat"), query.Get("lon"), tr)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	if s.history != nil {
		if err := s.history.LogSearchLocation(r.Context(), point.Latitude, point.Longitude, radius); err != nil {
			s.log.Error("Failed to log search location", "error", err)
		}
	}

	results, err := s.nearest(r.Context(), point, fuel, radius)
	if err != nil {
		s.log.Error("Error finding nearest stations", "error", err)
		writeError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := carburant.WriteNearest(w, tr, fuel, radius, results); err != nil {
			s.log.Error("Error writing response", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, nearestResponse{Stations: results})
}

func (s *Server) searchPoint(location, latStr, lonStr string, tr translations.Translations) (carburant.Point, int, error) {
	if location != "" {
		if s.geocoder == nil {
			return carburant.Point{}, http.StatusBadRequest, errors.New("location search is not enabled")
		}
		res, err := s.geocoder.Locate(location)
		if err != nil {
			s.log.Warn("Geocoding failed", "location", location, "error", err)
			return carburant.Point{}, http.StatusNotFound, errors.New(tr.LocationNotFound)
		}
		return carburant.Point{Latitude: res.Latitude, Longitude: res.Longitude}, http.StatusOK, nil
	}

	if latStr == "" || lonStr == "" {
		return carburant.Point{}, http.StatusBadRequest, errors.New("location or lat and lon are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return carburant.Point{}, http.StatusBadRequest, errors.New("invalid latitude value")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return carburant.Point{}, http.StatusBadRequest, errors.New("invalid longitude value")
	}
	return carburant.Point{Latitude: lat, Longitude: lon}, http.StatusOK, nil
}

func (s *Server) nearest(ctx context.Context, point carburant.Point, fuel api.FuelType, radius float64) ([]carburant.NearestResult, error) {
	cacheKey := fmt.Sprintf("nearest_%f_%f_%s_%f", point.Latitude, point.Longitude, fuel, radius)
	if cached, found := s.cache.Get(cacheKey); found {
		s.log.Debug("Using cached data", "key", cacheKey)
		return cached.([]carburant.NearestResult), nil
	}

	found, err := s.stations.FindNearest(ctx, point, fuel, radius)
	if err != nil {
		return nil, err
	}
	results := carburant.NearestResults(found, fuel)
	s.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps refresh and catalog errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, coordinator.ErrNotInitialized):
		status = http.StatusServiceUnavailable
	case errors.Is(err, api.ErrCannotConnect):
		status = http.StatusGatewayTimeout
	case errors.Is(err, api.ErrRequest):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
