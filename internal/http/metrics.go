package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "robolt",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Requests sent to the server by operation, method and status code.",
	}, []string{"operation", "method", "code"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "robolt",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Request latency including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "method"})

	return &metrics{
		requests: registerCollector(registerer, requests),
		duration: registerCollector(registerer, duration),
	}
}

// registerCollector registers c, reusing an identical collector that is
// already registered so several clients can share one registry.
func registerCollector[T prometheus.Collector](registerer prometheus.Registerer, c T) T {
	err := registerer.Register(c)
	if err == nil {
		return c
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing
		}
	}

	return c
}

func (m *metrics) observe(req *Request, resp *Response, elapsed time.Duration) {
	if m == nil {
		return
	}

	code := "error"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	m.requests.WithLabelValues(req.Operation, req.Method, code).Inc()
	m.duration.WithLabelValues(req.Operation, req.Method).Observe(elapsed.Seconds())
}
