package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/array"
)

// CategoricalColumn stores dictionary indices. Indices are held either in an
// arrow Int32 array or, for dictionaries with at most three indices, packed
// two bits per row.
type CategoricalColumn struct {
	dict    *Dictionary
	indices *array.Int32
	packed  []byte
	size    int
}

// NewCategoricalColumn creates a column from indices into dict.
func NewCategoricalColumn(dict *Dictionary, indices []int32) *CategoricalColumn {
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues(indices, nil)
	return &CategoricalColumn{dict: dict, indices: b.NewInt32Array(), size: len(indices)}
}

func newPackedColumn(dict *Dictionary, packed []byte, size int) *CategoricalColumn {
	return &CategoricalColumn{dict: dict, packed: packed, size: size}
}

func (c *CategoricalColumn) Type() ColumnType { return TypeNominal }
func (c *CategoricalColumn) Size() int        { return c.size }

// Dictionary returns the backing dictionary.
func (c *CategoricalColumn) Dictionary() *Dictionary {
	return c.dict
}

// Packed reports whether indices are stored two bits per row.
func (c *CategoricalColumn) Packed() bool {
	return c.packed != nil
}

// Index returns the dictionary index at row i.
func (c *CategoricalColumn) Index(i int) int {
	if c.packed != nil {
		return packedGet(c.packed, i)
	}
	return int(c.indices.Value(i))
}

// String returns the category at row i; missing values report false.
func (c *CategoricalColumn) String(i int) (string, bool) {
	return c.dict.Get(c.Index(i))
}

// Map implements Column.
func (c *CategoricalColumn) Map(rows []int) Column {
	if c.packed != nil {
		out := make([]byte, packedLen(len(rows)))
		for i, r := range rows {
			if r >= 0 {
				packedSet(out, i, packedGet(c.packed, r))
			}
		}
		return newPackedColumn(c.dict, out, len(rows))
	}
	indices := make([]int32, len(rows))
	for i, r := range rows {
		if r >= 0 {
			indices[i] = c.indices.Value(r)
		}
	}
	return NewCategoricalColumn(c.dict, indices)
}

// WithDictionary returns a column reading the same rows through indexMap:
// old index i becomes indexMap[i]. The result uses dict.
func (c *CategoricalColumn) WithDictionary(dict *Dictionary, indexMap []int) *CategoricalColumn {
	if c.packed != nil && dict.Size() <= maxPackedIndex {
		out := make([]byte, len(c.packed))
		for i := 0; i < c.size; i++ {
			packedSet(out, i, indexMap[packedGet(c.packed, i)])
		}
		return newPackedColumn(dict, out, c.size)
	}
	indices := make([]int32, c.size)
	for i := range indices {
		indices[i] = int32(indexMap[c.Index(i)])
	}
	return NewCategoricalColumn(dict, indices)
}

const maxPackedIndex = 3

func packedLen(n int) int {
	return (n + 3) / 4
}

func packedGet(packed []byte, i int) int {
	return int(packed[i>>2]>>((i&3)<<1)) & 3
}

func packedSet(packed []byte, i, index int) {
	shift := uint((i & 3) << 1)
	packed[i>>2] = packed[i>>2]&^(3<<shift) | byte(index&3)<<shift
}
