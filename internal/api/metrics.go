package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the request collectors for one client.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them on reg.
// Clients sharing a registry share the collectors already registered there.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gocardless_client",
			Name:      "requests_total",
			Help:      "API requests by method and response code; code is \"error\" for transport failures.",
		},
		[]string{"method", "code"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gocardless_client",
			Name:      "request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	if reg == nil {
		return &Metrics{requests: requests, duration: duration}, nil
	}

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &Metrics{requests: requests, duration: duration}, nil
}

// register adds c to reg, returning the collector already registered under
// the same descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, fmt.Errorf("register client metrics: %w", err)
}

func (m *Metrics) install(rest *resty.Client) {
	rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		method := resp.Request.Method
		m.requests.WithLabelValues(method, strconv.Itoa(resp.StatusCode())).Inc()
		m.duration.WithLabelValues(method).Observe(resp.Time().Seconds())
		return nil
	})

	rest.OnError(func(r *resty.Request, _ error) {
		m.requests.WithLabelValues(r.Method, "error").Inc()
		if !r.Time.IsZero() {
			m.duration.WithLabelValues(r.Method).Observe(time.Since(r.Time).Seconds())
		}
	})
}
