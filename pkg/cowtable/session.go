package cowtable

// Session caches one cursor per source column for a single caller, which
// makes sequential row access cheaper than Table.Get. A session must not be
// used by more than one goroutine at a time; different sessions of the same
// table may be used concurrently.
type Session struct {
	table *Table
	acc   *accessor
}

// Session returns the session registered under token, creating it if
// needed. token must be comparable.
func (t *Table) Session(token interface{}) *Session {
	if s, ok := t.sessions.Load(token); ok {
		return s.(*Session)
	}
	s, _ := t.sessions.LoadOrStore(token, &Session{table: t})
	return s.(*Session)
}

// ReleaseSession drops the session registered under token.
func (t *Table) ReleaseSession(token interface{}) {
	t.sessions.Delete(token)
}

// Get returns the legacy value at row and col.
func (s *Session) Get(row, col int) float64 {
	t := s.table
	if m := t.materialized(); m != nil {
		s.acc = nil
		return m.Get(row, col)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if m := t.materialized(); m != nil {
		s.acc = nil
		return m.Get(row, col)
	}
	if col >= t.width {
		return t.extension().Get(row, col-t.width)
	}
	// the cached cursors are only valid for the current source
	if s.acc == nil || s.acc.source != t.source {
		s.acc = newAccessor(t.source, t.zone)
	}
	return s.acc.value(row, col)
}

// Set stores v at row and col, see Table.Set.
func (s *Session) Set(row, col int, v float64) {
	s.table.Set(row, col, v)
}
