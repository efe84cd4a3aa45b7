package bridge

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/parallel"
	"github.com/ajitpratap0/tablebridge/pkg/pool"
)

// fill feeds the legacy values of attrs into sinks, sinks[i] receiving
// attrs[i]. Every strategy hands each sink the same values, so the built
// columns do not depend on the strategy.
func (c *Converter) fill(s Strategy, set *legacy.ExampleSet, attrs []*legacy.Attribute, sinks []columnSink) error {
	if len(attrs) == 0 {
		return nil
	}
	switch s {
	case Direct:
		if source, ok := set.Table().(legacy.ColumnSource); ok {
			return c.executor.Run(directTasks(source, set, attrs, sinks))
		}
		return c.executor.Run(rowTasks(set, attrs, sinks))
	case ParallelRow:
		return c.executor.Run(rowTasks(set, attrs, sinks))
	default:
		return parallel.Sequential{}.Run([]parallel.Task{func() error {
			sweep(set, attrs, sinks)
			return nil
		}})
	}
}

// directTasks reads the backing columns of attrs without the row API.
// Attributes without a backing column stay missing.
func directTasks(source legacy.ColumnSource, set *legacy.ExampleSet, attrs []*legacy.Attribute, sinks []columnSink) []parallel.Task {
	rows := set.TableRows()
	height := set.Size()
	tasks := make([]parallel.Task, len(attrs))
	for i, a := range attrs {
		tasks[i] = func() error {
			values, ok := source.ColumnValues(a.TableIndex())
			if !ok {
				return nil
			}
			sink := sinks[i]
			for r := 0; r < height; r++ {
				row := r
				if rows != nil {
					row = rows[r]
				}
				sink.set(r, a.Transform(values[row]))
			}
			return nil
		}
	}
	return tasks
}

func rowTasks(set *legacy.ExampleSet, attrs []*legacy.Attribute, sinks []columnSink) []parallel.Task {
	height := set.Size()
	tasks := make([]parallel.Task, len(attrs))
	for i, a := range attrs {
		tasks[i] = func() error {
			sink := sinks[i]
			for r := 0; r < height; r++ {
				sink.set(r, set.Get(r, a))
			}
			return nil
		}
	}
	return tasks
}

// sweep reads row after row, all attributes of a row at once.
func sweep(set *legacy.ExampleSet, attrs []*legacy.Attribute, sinks []columnSink) {
	buf := pool.GetFloat64s(len(attrs))
	defer pool.PutFloat64s(buf)
	values := *buf
	for r := 0; r < set.Size(); r++ {
		row := set.Row(r)
		for i, a := range attrs {
			values[i] = row.Get(a)
		}
		for i, v := range values {
			if !math.IsNaN(v) {
				sinks[i].set(r, v)
			}
		}
	}
}
