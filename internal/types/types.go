// Package types owns the interned type table and the effect table shared by
// the checker, the lowerer and the IR builder. TypeIDs and EffectIDs are
// stable for the lifetime of one Interner, so downstream stages can carry
// plain integers instead of pointers.
package types

// TypeID indexes a descriptor inside an Interner.
// ID 0 is always the Unknown type.
type TypeID uint32

// Unknown is the TypeID every value starts with until the checker
// assigns something better. It is a real type, not an error marker.
const Unknown TypeID = 0

// Kind discriminates Type descriptors.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnit
	KindBool
	KindInt
	KindFloat
	KindString
	KindRecord
	KindEnum
	KindTuple
	KindFn
	KindChan
	KindRef
	KindTask
)

var kindNames = map[Kind]string{
	KindUnknown: "unknown",
	KindUnit:    "unit",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindRecord:  "record",
	KindEnum:    "enum",
	KindTuple:   "tuple",
	KindFn:      "fn",
	KindChan:    "chan",
	KindRef:     "ref",
	KindTask:    "task",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Type is a structural descriptor. Aggregate kinds keep their detail in a
// side table and point at it through Payload.
type Type struct {
	Kind Kind

	// Elem is the element type for chan, ref and task.
	Elem TypeID

	// Mutable is set for &mut references.
	Mutable bool

	// Payload indexes the per-kind side table for record, enum, tuple
	// and fn descriptors.
	Payload uint32
}

// Field is one named slot of a record type.
type Field struct {
	Name string
	Type TypeID
}

// RecordInfo describes a nominal record type.
type RecordInfo struct {
	Name   string
	Fields []Field
}

// FieldIndex returns the position of a field or -1.
func (r *RecordInfo) FieldIndex(name string) int {
	for i, f := range r.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// VariantInfo is one constructor of an enum type.
type VariantInfo struct {
	Name   string
	Fields []TypeID
}

// EnumInfo describes a nominal sum type. Variants keep declaration order,
// which diagnostics rely on.
type EnumInfo struct {
	Name     string
	Variants []VariantInfo
}

// VariantIndex returns the position of a variant or -1.
func (e *EnumInfo) VariantIndex(name string) int {
	for i, v := range e.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// TupleInfo describes a positional aggregate.
type TupleInfo struct {
	Elems []TypeID
}

// FnInfo describes a function type, including its effect row.
type FnInfo struct {
	Params  []TypeID
	Return  TypeID
	Effects EffectRow
}
