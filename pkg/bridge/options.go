package bridge

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
	"github.com/ajitpratap0/tablebridge/pkg/parallel"
)

// MetaDataKey is the ExampleSet user data key under which column metadata
// of the source table is kept for the way back.
const MetaDataKey = "tablebridge.metadata"

// Converter converts between example sets and columnar tables. A Converter
// is safe for concurrent use.
type Converter struct {
	executor parallel.Executor
	zone     config.ZoneProvider
	log      *zap.Logger
	forced   *Strategy
	lazy     bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithExecutor sets the executor running the per-column tasks.
func WithExecutor(e parallel.Executor) Option {
	return func(c *Converter) {
		if e != nil {
			c.executor = e
		}
	}
}

// WithZone sets the zone used by time-of-day conversions.
func WithZone(zone config.ZoneProvider) Option {
	return func(c *Converter) {
		if zone != nil {
			c.zone = zone
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithForcedStrategy bypasses SelectStrategy. Forcing Direct on a source
// without column access reads through the row API instead.
func WithForcedStrategy(s Strategy) Option {
	return func(c *Converter) {
		c.forced = &s
	}
}

// WithLazyDefault makes ToExampleSet return lazy views unless Eager is
// passed.
func WithLazyDefault(lazy bool) Option {
	return func(c *Converter) {
		c.lazy = lazy
	}
}

// NewConverter creates a Converter. Without options it runs one task per
// CPU, converts times in UTC and logs through the global logger.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		executor: parallel.NewGroupExecutor(0),
		zone:     config.UTC(),
		log:      logger.Named("bridge"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewConverterFromConfig creates a Converter from the conversion section of
// cfg. zone is usually the ZoneSettings kept current by config.Watch; opts
// are applied last.
func NewConverterFromConfig(cfg *config.BridgeConfig, zone config.ZoneProvider, opts ...Option) *Converter {
	base := []Option{
		WithExecutor(parallel.NewGroupExecutor(cfg.Conversion.GetWorkers())),
		WithZone(zone),
		WithLazyDefault(cfg.Conversion.LazyByDefault),
	}
	if cfg.Conversion.ForceSequential {
		base = append(base, WithForcedStrategy(Sequential))
	}
	return NewConverter(append(base, opts...)...)
}

// SetOption configures one ToExampleSet call.
type SetOption func(*setOptions)

type setOptions struct {
	lazy bool
}

// Lazy wraps the table in a convert-on-write view instead of copying it.
func Lazy() SetOption {
	return func(o *setOptions) { o.lazy = true }
}

// Eager copies every column into a legacy column table.
func Eager() SetOption {
	return func(o *setOptions) { o.lazy = false }
}

func (c *Converter) logFor(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, c.log)
}

var (
	defaultOnce      sync.Once
	defaultConverter *Converter
)

// Default returns the Converter used by the package-level functions. It is
// created on first use so that it picks up the logger set by logger.Init.
func Default() *Converter {
	defaultOnce.Do(func() {
		defaultConverter = NewConverter()
	})
	return defaultConverter
}

// ToTable converts set with the default Converter.
func ToTable(ctx context.Context, set *legacy.ExampleSet) (*columnar.Table, error) {
	return Default().ToTable(ctx, set)
}

// ToExampleSet converts table with the default Converter.
func ToExampleSet(ctx context.Context, table *columnar.Table, opts ...SetOption) (*legacy.ExampleSet, error) {
	return Default().ToExampleSet(ctx, table, opts...)
}
