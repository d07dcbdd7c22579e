// Package metrics exposes Prometheus counters for storage and HTTP traffic.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vbonduro/shishalog/internal/kv"
)

const namespace = "shishalog"

type Metrics struct {
	registry     *prometheus.Registry
	storageOps   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a registry with the application metrics plus the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Reads and writes against the record store by key and outcome.",
		}, []string{"op", "key", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.storageOps,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Substrate wraps s so every Get and Put is counted.
func (m *Metrics) Substrate(s kv.Substrate) kv.Substrate {
	return &instrumented{next: s, ops: m.storageOps}
}

type instrumented struct {
	next kv.Substrate
	ops  *prometheus.CounterVec
}

func (i *instrumented) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	data, err := i.next.Get(ctx, key)
	i.ops.WithLabelValues("read", string(key), outcome(err)).Inc()
	return data, err
}

func (i *instrumented) Put(ctx context.Context, key kv.Key, value []byte) error {
	err := i.next.Put(ctx, key, value)
	i.ops.WithLabelValues("write", string(key), outcome(err)).Inc()
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, kv.ErrNotFound):
		return "not_found"
	case errors.Is(err, kv.ErrStorageFull):
		return "storage_full"
	default:
		return "error"
	}
}
