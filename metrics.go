package s3fs

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/storage"
)

// remoteMetrics holds the collectors for remote store calls.
type remoteMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// newRemoteMetrics creates the collectors and registers them on reg when it
// is not nil. Collectors already registered by another FS are reused.
func newRemoteMetrics(reg prometheus.Registerer) *remoteMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "s3fs",
		Subsystem: "remote",
		Name:      "requests_total",
		Help:      "Total number of object store requests by result.",
	}, []string{"op", "result"}) // result = "ok" | error code
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "s3fs",
		Subsystem: "remote",
		Name:      "request_duration_seconds",
		Help:      "Histogram of object store request durations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	if reg != nil {
		requests = register(reg, requests)
		latency = register(reg, latency)
	}

	return &remoteMetrics{requests: requests, latency: latency}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// observe records one remote call.
func (m *remoteMetrics) observe(op storage.Op, err error, dur time.Duration) {
	result := "ok"
	if err != nil {
		result = string(errors.GetCode(err))
	}
	m.requests.WithLabelValues(string(op), result).Inc()
	m.latency.WithLabelValues(string(op)).Observe(dur.Seconds())
}
