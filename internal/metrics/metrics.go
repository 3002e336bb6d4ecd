package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultSlowThreshold = time.Second

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder tracks API operation latency and outcome. A nil *Recorder is a
// valid no-op.
type Recorder struct {
	registry      *prometheus.Registry
	duration      *prometheus.HistogramVec
	operations    *prometheus.CounterVec
	slowThreshold time.Duration
	logger        *slog.Logger
}

func NewRecorder(slowThreshold time.Duration, lg *slog.Logger) *Recorder {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}
	if lg == nil {
		lg = logger.LoggerWrapper()
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "directory_operation_duration_seconds",
				Help:    "Time spent executing API operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_operations_total",
				Help: "API operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		slowThreshold: slowThreshold,
		logger:        lg,
	}

	r.registry.MustRegister(
		r.duration,
		r.operations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one finished operation and warns when it ran longer than
// the slow threshold.
func (r *Recorder) Observe(ctx context.Context, operation string, start time.Time, err error) {
	if r == nil {
		return
	}
	elapsed := time.Since(start)

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	r.operations.WithLabelValues(operation, outcome).Inc()

	if elapsed > r.slowThreshold {
		logger.From(ctx).Warn("slow operation",
			"operation", operation,
			"duration_ms", elapsed.Milliseconds(),
			"user_id", internal.CallerInfoFromContext(ctx).UserID)
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
