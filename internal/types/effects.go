package types

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
)

// EffectID indexes a named effect inside an EffectTable.
type EffectID uint32

// NoEffectID marks an absent effect. ID 0 is a reserved sentinel so that
// the zero value of EffectID never aliases a real effect.
const NoEffectID EffectID = 0

// EffectTable interns effect names. Like the type interner it hands out
// stable integer IDs for the lifetime of one compilation.
type EffectTable struct {
	names []string
	index map[string]EffectID
}

// NewEffectTable constructs an empty table with the sentinel reserved.
func NewEffectTable() *EffectTable {
	return &EffectTable{
		names: []string{""},
		index: make(map[string]EffectID, 8),
	}
}

// Intern returns the stable ID for name, creating it on first use.
func (t *EffectTable) Intern(name string) EffectID {
	if id, ok := t.index[name]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(t.names))
	if err != nil {
		panic(fmt.Errorf("len(effects) overflow: %w", err))
	}
	id := EffectID(n)
	t.names = append(t.names, name)
	t.index[name] = id
	return id
}

// Lookup returns the ID for name without creating it.
func (t *EffectTable) Lookup(name string) (EffectID, bool) {
	id, ok := t.index[name]
	return id, ok
}

// Name returns the source name of an effect.
func (t *EffectTable) Name(id EffectID) string {
	if id == NoEffectID || int(id) >= len(t.names) {
		return "<bad effect>"
	}
	return t.names[id]
}

// Len reports how many effects have been interned, sentinel excluded.
func (t *EffectTable) Len() int {
	return len(t.names) - 1
}

// EffectRow is a set of effects stored as a sorted, deduplicated slice.
// The canonical representation makes rows comparable by simple iteration
// and keeps dumps deterministic.
type EffectRow []EffectID

// NewEffectRow builds a canonical row from arbitrary IDs.
func NewEffectRow(ids ...EffectID) EffectRow {
	if len(ids) == 0 {
		return nil
	}
	row := append(EffectRow(nil), ids...)
	sort.Slice(row, func(i, j int) bool { return row[i] < row[j] })
	out := row[:0]
	var prev EffectID
	for _, id := range row {
		if id == NoEffectID || id == prev {
			continue
		}
		out = append(out, id)
		prev = id
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Empty reports whether the row carries no effects.
func (r EffectRow) Empty() bool {
	return len(r) == 0
}

// Contains reports whether id is in the row.
func (r EffectRow) Contains(id EffectID) bool {
	for _, e := range r {
		if e == id {
			return true
		}
		if e > id {
			return false
		}
	}
	return false
}

// SubsetOf reports whether every effect of r appears in other.
func (r EffectRow) SubsetOf(other EffectRow) bool {
	i := 0
	for _, e := range r {
		for i < len(other) && other[i] < e {
			i++
		}
		if i >= len(other) || other[i] != e {
			return false
		}
	}
	return true
}

// Union merges two rows into a new canonical row.
func (r EffectRow) Union(other EffectRow) EffectRow {
	if len(other) == 0 {
		return r
	}
	if len(r) == 0 {
		return other
	}
	return NewEffectRow(append(append(EffectRow(nil), r...), other...)...)
}

// Missing returns the effects of r that other lacks, in row order.
func (r EffectRow) Missing(other EffectRow) EffectRow {
	var out EffectRow
	for _, e := range r {
		if !other.Contains(e) {
			out = append(out, e)
		}
	}
	return out
}

// Equal reports whether two canonical rows are identical.
func (r EffectRow) Equal(other EffectRow) bool {
	if len(r) != len(other) {
		return false
	}
	for i, e := range r {
		if other[i] != e {
			return false
		}
	}
	return true
}

// Format renders the row as `{io, net}` using the table's names.
func (r EffectRow) Format(t *EffectTable) string {
	names := make([]string, len(r))
	for i, id := range r {
		names[i] = t.Name(id)
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// key renders the row for use in interner map keys.
func (r EffectRow) key() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	b.WriteByte('}')
	return b.String()
}
