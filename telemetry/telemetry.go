// Package telemetry provides the structured logger and metrics registry
// the engine and CLI report through. Logging follows the zerolog pattern
// used for chaos-test reporting; metrics are registered with
// prometheus/client_golang the same way a long-running service would,
// even though this engine's process is short-lived, so the same
// /metrics endpoint shape works whether a run is driven by the CLI or
// kept resident behind the live dashboard.
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// LogLevel selects the minimum severity a Logger emits.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggerConfig configures a Logger.
type LoggerConfig struct {
	Level  LogLevel
	Output io.Writer
}

// Logger wraps a zerolog.Logger. WithRun attaches a run id to every entry;
// TickCompleted adds the tick number and patch count to its own entry.
type Logger struct {
	base zerolog.Logger
}

// NewLogger builds a Logger writing JSON lines at the configured level.
func NewLogger(cfg LoggerConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	zlog := zerolog.New(out).With().Timestamp().Logger()
	switch cfg.Level {
	case LogLevelDebug:
		zlog = zlog.Level(zerolog.DebugLevel)
	case LogLevelWarn:
		zlog = zlog.Level(zerolog.WarnLevel)
	case LogLevelError:
		zlog = zlog.Level(zerolog.ErrorLevel)
	default:
		zlog = zlog.Level(zerolog.InfoLevel)
	}
	return &Logger{base: zlog}
}

// WithRun returns a Logger with runID attached to every subsequent entry.
func (l *Logger) WithRun(runID string) *Logger {
	return &Logger{base: l.base.With().Str("run_id", runID).Logger()}
}

func (l *Logger) Info(msg string)  { l.base.Info().Msg(msg) }
func (l *Logger) Debug(msg string) { l.base.Debug().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.base.Warn().Msg(msg) }

func (l *Logger) Error(msg string, err error) {
	l.base.Error().Err(err).Msg(msg)
}

// TickCompleted logs one tick's duration and patch count at debug level.
func (l *Logger) TickCompleted(tick, patchCount int, elapsed time.Duration) {
	l.base.Debug().
		Int("tick", tick).
		Int("patches", patchCount).
		Dur("elapsed", elapsed).
		Msg("tick completed")
}

// Metrics holds the run's prometheus collectors. A fresh Metrics should be
// registered per run (via a dedicated prometheus.Registry) so that
// concurrent runs, e.g. under the live dashboard, do not clash on label
// values.
type Metrics struct {
	Registry        *prometheus.Registry
	TicksCompleted  prometheus.Counter
	Migrations      prometheus.Counter
	Infections      prometheus.Counter
	ActivePatches   prometheus.Gauge
	PatchTickLatency prometheus.Histogram
}

// NewMetrics constructs and registers a fresh set of collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		Registry: registry,
		TicksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spreadsim",
			Name:      "ticks_completed_total",
			Help:      "Number of simulation ticks completed.",
		}),
		Migrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spreadsim",
			Name:      "migrations_total",
			Help:      "Number of persons migrated across patch boundaries.",
		}),
		Infections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spreadsim",
			Name:      "infections_total",
			Help:      "Number of Susceptible -> Infected transitions.",
		}),
		ActivePatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spreadsim",
			Name:      "active_patch_workers",
			Help:      "Number of patch workers currently ticking.",
		}),
		PatchTickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spreadsim",
			Name:      "patch_tick_seconds",
			Help:      "Wall-clock time spent in one patch's local tick.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(m.TicksCompleted, m.Migrations, m.Infections, m.ActivePatches, m.PatchTickLatency)
	return m
}
