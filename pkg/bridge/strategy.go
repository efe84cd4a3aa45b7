package bridge

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
)

// Strategy is the way ToTable reads a legacy example set.
type Strategy int

const (
	// Direct reads whole columns from the backing table, one task per
	// column.
	Direct Strategy = iota
	// ParallelRow reads through the example set row API, one task per
	// column.
	ParallelRow
	// Sequential reads all attributes of a row together on the calling
	// goroutine.
	Sequential
)

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case ParallelRow:
		return "parallel_row"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// SelectStrategy classifies the backing table of set:
//   - Direct if it exposes its columns, declares concurrent reads, the set
//     is not a row-mapped view and no attribute carries a transformation
//   - ParallelRow if it declares concurrent reads and no attribute carries
//     a transformation
//   - Sequential otherwise, including when classification fails
func SelectStrategy(set *legacy.ExampleSet) Strategy {
	return selectStrategy(set, logger.Named("bridge"))
}

func selectStrategy(set *legacy.ExampleSet, log *zap.Logger) (s Strategy) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("strategy classification failed, reading sequentially",
				zap.Any("panic", r))
			s = Sequential
		}
	}()

	table := set.Table()
	if !legacy.IsConcurrentlyReadable(table) {
		return Sequential
	}
	for _, entry := range set.Attributes().All() {
		if entry.Attribute.HasTransformations() {
			return Sequential
		}
	}
	if _, ok := table.(legacy.ColumnSource); ok && !set.IsMapped() {
		return Direct
	}
	return ParallelRow
}

func (c *Converter) strategyFor(set *legacy.ExampleSet, log *zap.Logger) Strategy {
	if c.forced != nil {
		return *c.forced
	}
	s := selectStrategy(set, log)
	log.Debug("selected conversion strategy", zap.Stringer("strategy", s))
	return s
}
