package cowtable

import (
	"context"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
	"github.com/ajitpratap0/tablebridge/pkg/observability"
	"github.com/ajitpratap0/tablebridge/pkg/parallel"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

// Phase is the materialization state of a Table. Phases only move forward.
type Phase int32

const (
	// LiveOnSource reads original columns from the immutable source table.
	LiveOnSource Phase = iota
	// Materializing is the one-time merge into a mutable store.
	Materializing
	// Materialized serves everything from the merged store.
	Materialized
)

func (p Phase) String() string {
	switch p {
	case LiveOnSource:
		return "live_on_source"
	case Materializing:
		return "materializing"
	case Materialized:
		return "materialized"
	default:
		return "unknown"
	}
}

// Option configures a Table.
type Option func(*Table)

// WithExecutor sets the executor used to convert columns on
// materialization. The default is a GroupExecutor with one worker per CPU.
func WithExecutor(e parallel.Executor) Option {
	return func(t *Table) {
		if e != nil {
			t.executor = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.log = l
		}
	}
}

// Table is a legacy DataTable over an immutable columnar table that converts
// on the first write to an original column.
//
// While LiveOnSource, reads of original columns go to the source table and
// added columns live in an extension store addressed as width+local index.
// Reads, extension writes and column additions share mu for reading. A
// write to an original column takes mu exclusively and merges source and
// extension into one Store exactly once; afterwards no table-level lock is
// taken.
type Table struct {
	mu    sync.RWMutex
	extMu sync.Mutex
	phase atomic.Int32

	width  int
	height int
	zone   config.ZoneProvider

	source *columnar.Table
	reads  []func(row int) float64
	ext    atomic.Pointer[Store]
	merged atomic.Pointer[Store]

	sessions sync.Map

	executor parallel.Executor
	log      *zap.Logger
}

// New wraps source. zone is consulted for every time-of-day conversion; a
// nil zone selects UTC. Categorical columns of source must be free of
// dictionary gaps and boolean columns must hold the negative value at
// index 1, the layout produced by the bridge before wrapping.
func New(source *columnar.Table, zone config.ZoneProvider, opts ...Option) (*Table, error) {
	if source == nil {
		return nil, nebulaerrors.InvalidArgument("source table")
	}
	if zone == nil {
		zone = config.UTC()
	}
	t := &Table{
		width:    source.Width(),
		height:   source.Height(),
		zone:     zone,
		source:   source,
		reads:    make([]func(int) float64, source.Width()),
		executor: parallel.NewGroupExecutor(0),
		log:      logger.Named("cowtable"),
	}
	for i := range t.reads {
		t.reads[i] = reconcile.LegacyReader(source.Column(i), zone)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Phase returns the current phase.
func (t *Table) Phase() Phase {
	return Phase(t.phase.Load())
}

// Width returns the number of columns of the source table.
func (t *Table) Width() int { return t.width }

// Size returns the number of rows.
func (t *Table) Size() int { return t.height }

// ConcurrentlyReadable implements legacy.ConcurrentReader.
func (t *Table) ConcurrentlyReadable() bool { return true }

// Snapshot returns the source table while the table is LiveOnSource.
func (t *Table) Snapshot() (*columnar.Table, bool) {
	if t.Phase() == Materialized {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.Phase() != LiveOnSource {
		return nil, false
	}
	return t.source, true
}

// NumberOfColumns returns the number of column slots, original and added.
func (t *Table) NumberOfColumns() int {
	if s := t.materialized(); s != nil {
		return s.ColumnCount()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s := t.materialized(); s != nil {
		return s.ColumnCount()
	}
	if ext := t.ext.Load(); ext != nil {
		return t.width + ext.ColumnCount()
	}
	return t.width
}

// Get returns the legacy value at row and col.
func (t *Table) Get(row, col int) float64 {
	if s := t.materialized(); s != nil {
		return s.Get(row, col)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s := t.materialized(); s != nil {
		return s.Get(row, col)
	}
	if col < t.width {
		return t.reads[col](row)
	}
	return t.extension().Get(row, col-t.width)
}

// Set stores v at row and col. Writing an original column materializes the
// table first.
func (t *Table) Set(row, col int, v float64) {
	if s := t.materialized(); s != nil {
		s.Set(row, col, v)
		return
	}
	if col >= t.width && t.setExtension(row, col, v) {
		return
	}
	t.materialize()
	t.merged.Load().Set(row, col, v)
}

// setExtension writes an added column while LiveOnSource and reports
// whether it did.
func (t *Table) setExtension(row, col int, v float64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.Phase() != LiveOnSource {
		return false
	}
	t.extension().Set(row, col-t.width, v)
	return true
}

// AddColumn appends a column of missing values and returns its index.
func (t *Table) AddColumn() int {
	if s := t.materialized(); s != nil {
		return s.AddColumn()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s := t.materialized(); s != nil {
		return s.AddColumn()
	}
	return t.width + t.extension().AddColumn()
}

// RemoveColumn frees an added column. Original columns are only removed
// once materialized; before that the call is a no-op.
func (t *Table) RemoveColumn(col int) {
	if s := t.materialized(); s != nil {
		s.RemoveColumn(col)
		return
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s := t.materialized(); s != nil {
		s.RemoveColumn(col)
		return
	}
	if col < t.width {
		return
	}
	if ext := t.ext.Load(); ext != nil {
		ext.RemoveColumn(col - t.width)
	}
}

func (t *Table) materialized() *Store {
	if t.Phase() == Materialized {
		return t.merged.Load()
	}
	return nil
}

// extension returns the extension store, creating it on first use. Callers
// hold mu for reading.
func (t *Table) extension() *Store {
	if s := t.ext.Load(); s != nil {
		return s
	}
	t.extMu.Lock()
	defer t.extMu.Unlock()
	if s := t.ext.Load(); s != nil {
		return s
	}
	s := NewStore(t.height)
	t.ext.Store(s)
	return s
}

// materialize merges source and extension into one store. Only the first
// caller does the work; later callers return once it is done.
func (t *Table) materialize() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Phase() != LiveOnSource {
		return
	}
	t.phase.Store(int32(Materializing))

	_, span := observability.StartSpan(context.Background(), "cowtable.materialize",
		attribute.Int("columns", t.width),
		attribute.Int("rows", t.height))
	timer := metrics.NewTimer("materialize")

	columns := make([][]float64, t.width)
	tasks := make([]parallel.Task, t.width)
	for i := range tasks {
		tasks[i] = func() error {
			read := t.reads[i]
			values := make([]float64, t.height)
			for r := range values {
				values[r] = read(r)
			}
			columns[i] = values
			return nil
		}
	}
	// column tasks only fail by panicking
	if err := t.executor.Run(tasks); err != nil {
		observability.EndSpan(span, err)
		t.phase.Store(int32(LiveOnSource))
		panic(err)
	}

	merged := NewStore(t.height)
	merged.columns = columns
	if ext := t.ext.Load(); ext != nil {
		merged.columns = append(merged.columns, ext.columnsRef()...)
	}
	t.merged.Store(merged)
	t.source = nil
	t.reads = nil
	t.ext.Store(nil)
	t.sessions.Range(func(key, _ interface{}) bool {
		t.sessions.Delete(key)
		return true
	})
	t.phase.Store(int32(Materialized))

	metrics.ObserveMaterialization()
	observability.EndSpan(span, nil)
	t.log.Debug("materialized convert-on-write table",
		zap.Int("columns", merged.ColumnCount()),
		zap.Int("rows", t.height),
		zap.Int64("bytes", merged.MemoryUsage()),
		zap.Duration("duration", timer.Stop()))
}
