package cowtable

import (
	"math"
	"sync"
)

// Store is a mutable column store of float64 legacy values. It backs both
// the extension columns of a live table and the merged columns of a
// materialized one. Removed columns keep their slot so that indices of
// other columns stay valid.
type Store struct {
	mu      sync.RWMutex
	height  int
	columns [][]float64
}

// NewStore creates an empty store of height rows.
func NewStore(height int) *Store {
	return &Store{height: height}
}

// AddColumn appends a column of missing values and returns its index.
func (s *Store) AddColumn() int {
	col := make([]float64, s.height)
	for i := range col {
		col[i] = math.NaN()
	}
	return s.appendColumn(col)
}

func (s *Store) appendColumn(col []float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns = append(s.columns, col)
	return len(s.columns) - 1
}

// RemoveColumn releases the values of column col.
func (s *Store) RemoveColumn(col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col >= 0 && col < len(s.columns) {
		s.columns[col] = nil
	}
}

// Get returns the value at row and col; removed columns read as NaN.
func (s *Store) Get(row, col int) float64 {
	s.mu.RLock()
	c := s.columns[col]
	s.mu.RUnlock()
	if c == nil {
		return math.NaN()
	}
	return c[row]
}

// Set stores v at row and col; writes to removed columns are dropped.
func (s *Store) Set(row, col int, v float64) {
	s.mu.RLock()
	c := s.columns[col]
	s.mu.RUnlock()
	if c != nil {
		c[row] = v
	}
}

// RowCount returns the number of rows.
func (s *Store) RowCount() int {
	return s.height
}

// ColumnCount returns the number of column slots, including removed ones.
func (s *Store) ColumnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.columns)
}

// Column returns the values of col by reference, or nil if removed.
func (s *Store) Column(col int) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if col < 0 || col >= len(s.columns) {
		return nil
	}
	return s.columns[col]
}

// columnsRef returns the column slice headers for merging.
func (s *Store) columnsRef() [][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]float64, len(s.columns))
	copy(out, s.columns)
	return out
}

// MemoryUsage returns an estimate of the bytes held by column values.
func (s *Store) MemoryUsage() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, c := range s.columns {
		total += int64(len(c) * 8)
	}
	return total
}
