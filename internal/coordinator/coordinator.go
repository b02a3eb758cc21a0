// Package coordinator schedules the periodic price refresh of the followed
// stations.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rubiojr/prixcarburant/internal/carburant"
)

var (
	refreshCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prixcarburant_refresh_total",
		Help: "Number of price refresh cycles, by result",
	}, []string{"result"})
	stationsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prixcarburant_stations",
		Help: "Number of followed stations",
	})
	lastSuccessGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prixcarburant_last_refresh_success_timestamp_seconds",
		Help: "Unix time of the last successful refresh",
	})
)

func init() {
	prometheus.MustRegister(refreshCount, stationsGauge, lastSuccessGauge)
}

// ErrNotInitialized is returned by Refresh when the stations could not be
// loaded.
var ErrNotInitialized = errors.New("stations not initialized")

// initRetryDelay is the first wait before Run retries a failed
// initialization. It doubles on every failure, up to the refresh interval.
const initRetryDelay = 10 * time.Second

// Source is the station repository driven by the coordinator.
type Source interface {
	UpdatePrices(ctx context.Context) error
	Stations() map[int64]*carburant.Station
	Len() int
}

// InitFunc loads the followed stations.
type InitFunc func(ctx context.Context) error

// Listener receives the stations after every successful refresh.
type Listener func(ctx context.Context, stations map[int64]*carburant.Station) error

// Status describes the last refresh.
type Status struct {
	Initialized bool      `json:"initialized"`
	Stations    int       `json:"stations"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
}

type Coordinator struct {
	source     Source
	init       InitFunc
	interval   time.Duration
	retryDelay time.Duration
	log        *slog.Logger
	listeners  []Listener

	// mu serializes refreshes
	mu          sync.Mutex
	initialized bool

	statusMu sync.RWMutex
	status   Status
}

func New(source Source, init InitFunc, interval time.Duration, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		source:     source,
		init:       init,
		interval:   interval,
		retryDelay: min(initRetryDelay, interval),
		log:        logger,
	}
}

// OnRefresh registers a listener. Listener errors are logged, not returned.
func (c *Coordinator) OnRefresh(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Initialize loads the stations then runs a first refresh.
func (c *Coordinator) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialize(ctx)
}

func (c *Coordinator) initialize(ctx context.Context) error {
	if err := c.init(ctx); err != nil {
		c.recordError(err)
		return fmt.Errorf("error initializing stations: %w", err)
	}
	c.initialized = true
	stationsGauge.Set(float64(c.source.Len()))
	c.log.Info("Stations initialized", "count", c.source.Len())

	return c.refresh(ctx)
}

// Refresh updates the prices now, loading the stations first when they are
// not loaded yet. Concurrent calls run one after the other.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		if err := c.initialize(ctx); err != nil {
			if !c.initialized {
				return fmt.Errorf("%w: %w", ErrNotInitialized, err)
			}
			return err
		}
		return nil
	}
	return c.refresh(ctx)
}

func (c *Coordinator) refresh(ctx context.Context) error {
	c.log.Info("Update stations prices")
	if err := c.source.UpdatePrices(ctx); err != nil {
		refreshCount.With(prometheus.Labels{"result": "error"}).Inc()
		c.recordError(err)
		return fmt.Errorf("error refreshing prices: %w", err)
	}
	refreshCount.With(prometheus.Labels{"result": "ok"}).Inc()

	now := time.Now()
	lastSuccessGauge.Set(float64(now.Unix()))
	c.statusMu.Lock()
	c.status = Status{Initialized: true, Stations: c.source.Len(), LastSuccess: now}
	c.statusMu.Unlock()

	if len(c.listeners) > 0 {
		stations := c.source.Stations()
		for _, l := range c.listeners {
			if err := l(ctx, stations); err != nil {
				c.log.Error("Refresh listener failed", "error", err)
			}
		}
	}
	return nil
}

func (c *Coordinator) recordError(err error) {
	c.statusMu.Lock()
	c.status.Initialized = c.initialized
	c.status.LastError = err.Error()
	c.statusMu.Unlock()
}

func (c *Coordinator) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Run initializes the stations, retrying with a growing delay capped at the
// refresh interval, then refreshes prices every interval until ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	delay := c.retryDelay
	for !c.isInitialized() {
		err := c.Initialize(ctx)
		if err == nil {
			c.log.Info("Price update completed successfully")
			break
		}
		c.log.Error("Error updating prices", "error", err)
		if c.isInitialized() {
			break
		}

		c.log.Info("Retrying initialization", "delay", delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(2*delay, c.interval)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := c.Refresh(ctx); err != nil {
			c.log.Error("Error updating prices", "error", err)
		} else {
			c.log.Info("Price update completed successfully")
		}
	}
}

func (c *Coordinator) isInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}
