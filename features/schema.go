package features

import (
	"fmt"
	"slices"
)

// Block identifies one of the four disjoint groups of feature columns.
type Block uint8

const (
	// BlockServiceType holds TF-IDF weights of service type terms.
	BlockServiceType Block = iota + 1
	// BlockSkill holds skill indicators.
	BlockSkill
	// BlockDay holds weekday indicators.
	BlockDay
	// BlockLocation holds the one-hot location indicator.
	BlockLocation
)

// Blocks lists the blocks in schema order.
var Blocks = []Block{BlockServiceType, BlockSkill, BlockDay, BlockLocation}

// Prefix returns the column name prefix of the block.
func (b Block) Prefix() string {
	switch b {
	case BlockServiceType:
		return "ServiceType_"
	case BlockSkill:
		return "Skill_"
	case BlockDay:
		return "Day_"
	case BlockLocation:
		return "Location_"
	default:
		return ""
	}
}

// Valid reports whether b is one of the known blocks.
func (b Block) Valid() bool {
	return b >= BlockServiceType && b <= BlockLocation
}

func (b Block) String() string {
	switch b {
	case BlockServiceType:
		return "service_type"
	case BlockSkill:
		return "skill"
	case BlockDay:
		return "day"
	case BlockLocation:
		return "location"
	default:
		return fmt.Sprintf("block(%d)", uint8(b))
	}
}

// Column is the logical identity of one feature: its block and token.
type Column struct {
	Block Block
	Token string
}

// Name renders the globally unique, prefixed column name,
// e.g. "Skill_Pipe Repair".
func (c Column) Name() string {
	return c.Block.Prefix() + c.Token
}

// Schema is the ordered set of feature columns shared by catalog rows and
// query vectors, with an explicit column → index mapping.
type Schema struct {
	columns []Column
	index   map[Column]int
}

// NewSchema builds a schema over columns in the given order.
func NewSchema(columns []Column) (*Schema, error) {
	index := make(map[Column]int, len(columns))
	for i, c := range columns {
		if !c.Block.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidBlock, c.Block)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name())
		}
		index[c] = i
	}
	return &Schema{
		columns: slices.Clone(columns),
		index:   index,
	}, nil
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the columns in schema order.
func (s *Schema) Columns() []Column {
	return slices.Clone(s.columns)
}

// Names returns the prefixed column names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name()
	}
	return names
}

// Index returns the position of c.
func (s *Schema) Index(c Column) (int, bool) {
	i, ok := s.index[c]
	return i, ok
}

// BlockLen returns how many columns belong to block b.
func (s *Schema) BlockLen(b Block) int {
	n := 0
	for _, c := range s.columns {
		if c.Block == b {
			n++
		}
	}
	return n
}

// Equal reports whether columns match the schema exactly, order included.
func (s *Schema) Equal(columns []Column) bool {
	return slices.Equal(s.columns, columns)
}

// Reindex places sparse feature values into a dense vector over the schema.
// Entries for columns outside the schema are ignored.
func (s *Schema) Reindex(sparse map[Column]float64, dst []float64) {
	clear(dst)
	for c, v := range sparse {
		if i, ok := s.index[c]; ok {
			dst[i] = v
		}
	}
}

// Reindex lays sparse feature values out over columns, filling every
// column absent from sparse with zero. It never adds a column that is not
// in columns.
func Reindex(sparse map[Column]float64, columns []Column) []float64 {
	dense := make([]float64, len(columns))
	for i, c := range columns {
		dense[i] = sparse[c]
	}
	return dense
}
