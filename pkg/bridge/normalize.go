package bridge

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
)

// normalize returns table with every categorical column in the layout the
// legacy side expects: no dictionary gaps, and boolean dictionaries with
// the negative value at index 1 and the positive value after it. Rows keep
// their strings, only index numbers change. table itself is returned when
// nothing needs to change; otherwise the result shares all untouched
// columns with table.
func normalize(table *columnar.Table, log *zap.Logger) (*columnar.Table, error) {
	var b *columnar.TableBuilder
	for i := 0; i < table.Width(); i++ {
		cat, ok := table.Column(i).(*columnar.CategoricalColumn)
		if !ok {
			continue
		}
		dict, indexMap, reason := normalizedDictionary(cat.Dictionary())
		if dict == nil {
			continue
		}
		if b == nil {
			b = table.Builder()
		}
		label := table.Label(i)
		b.Replace(label, cat.WithDictionary(dict, indexMap))
		metrics.ObserveFallback(reason)
		log.Debug("normalized categorical column",
			zap.String("column", label),
			zap.String("reason", reason),
			zap.Int("size", cat.Dictionary().Size()),
			zap.Int("populated", dict.Size()))
	}
	if b == nil {
		return table, nil
	}
	return b.Build()
}

// normalizedDictionary returns the normalized form of dict and the index
// map from dict to it, or a nil dictionary if dict is already normalized.
func normalizedDictionary(dict *columnar.Dictionary) (*columnar.Dictionary, []int, string) {
	misordered := dict.IsBoolean() && dict.HasNegative() && dict.NegativeIndex() != 1
	if !dict.HasGaps() && !misordered {
		return nil, nil, ""
	}

	// old indices in their new order
	order := make([]int, 0, dict.Populated())
	if dict.IsBoolean() {
		if dict.HasNegative() {
			order = append(order, dict.NegativeIndex())
		}
		if dict.HasPositive() {
			order = append(order, dict.PositiveIndex())
		}
	} else {
		for i := 1; i <= dict.Size(); i++ {
			if _, ok := dict.Get(i); ok {
				order = append(order, i)
			}
		}
	}

	values := make([]string, len(order))
	indexMap := make([]int, dict.Size()+1)
	positive := 0
	for n, old := range order {
		values[n], _ = dict.Get(old)
		indexMap[old] = n + 1
		if dict.IsBoolean() && old == dict.PositiveIndex() {
			positive = n + 1
		}
	}

	var (
		normalized *columnar.Dictionary
		err        error
	)
	if dict.IsBoolean() {
		normalized, err = columnar.NewBooleanDictionary(values, positive)
	} else {
		normalized, err = columnar.NewDictionary(values...)
	}
	if err != nil {
		// values come from a valid dictionary and cannot collide
		return nil, nil, ""
	}
	reason := "dictionary_gaps"
	if misordered {
		reason = "boolean_order"
	}
	return normalized, indexMap, reason
}
