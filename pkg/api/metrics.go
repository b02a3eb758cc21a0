package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prixcarburant_api_requests_total",
		Help: "Number of requests sent to the fuel price API, by outcome",
	}, []string{"outcome"})
	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prixcarburant_api_request_duration_seconds",
		Help:    "Duration of requests sent to the fuel price API",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(requestCount, requestDuration)
}

func observeRequest(start time.Time, err error) {
	requestDuration.Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, ErrCannotConnect):
		outcome = "cannot_connect"
	case errors.Is(err, ErrRequest):
		outcome = "request_error"
	case err != nil:
		outcome = "error"
	}
	requestCount.With(prometheus.Labels{"outcome": outcome}).Inc()
}
