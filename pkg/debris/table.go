package debris

import (
	"iter"
	"slices"

	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
)

// DefaultMass is used when the source has no mass for a record (kg).
const DefaultMass = 350.0

type (
	Record struct {
		Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
		Elements orbit.Elements `json:"elements"       yaml:"elements"`
		Mass     float64        `json:"mass"           yaml:"mass"`

		// MassDefaulted is set when the source had no mass and Mass is DefaultMass.
		MassDefaulted bool `json:"massDefaulted,omitempty" yaml:"-"`
	}
	// Table is the read-only debris reference table. Row order is preserved
	// from the source and defines evaluation order.
	Table struct {
		records []Record
	}
)

// NewTable copies records into a new table.
func NewTable(records []Record) *Table {
	return &Table{records: slices.Clone(records)}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// All iterates the records in table order.
func (t *Table) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		if t == nil {
			return
		}
		for i, r := range t.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the records.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	return slices.Clone(t.records)
}
