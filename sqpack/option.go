package sqpack

import (
	"k8s.io/klog/v2"

	"github.com/rpcpool/sqpack-go/metrics"
)

// Logger is the minimal logging surface GameData needs; WithLogger
// lets a caller redirect it away from the klog-backed default.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type klogLogger struct{}

func (klogLogger) Infof(format string, args ...interface{})  { klog.V(1).Infof(format, args...) }
func (klogLogger) Errorf(format string, args ...interface{}) { klog.Errorf(format, args...) }

// config collects Option values, following the teacher's
// functional-options constructor shape (store/store.go's config/Option).
type config struct {
	logger  Logger
	metrics *metrics.Metrics
}

func defaultConfig() config {
	return config{logger: klogLogger{}}
}

// Option configures a GameData at construction time.
type Option func(*config)

// WithLogger overrides the default klog-backed logger.
func WithLogger(l Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics attaches a Metrics instance; reads, decompressed bytes,
// and sheet loads are reported through it. Safe to omit — a nil
// Metrics is a no-op.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) { c.metrics = m }
}
