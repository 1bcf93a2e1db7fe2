package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types every module uses.
type Builtins struct {
	Unknown TypeID
	Unit    TypeID
	Bool    TypeID
	Int     TypeID
	Float   TypeID
	String  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Records and enums are nominal: each declaration gets a fresh ID and the
// structural index never merges them.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	records []RecordInfo
	enums   []EnumInfo
	tuples  []TupleInfo
	fns     []FnInfo

	tupleIndex map[string]TypeID
	fnIndex    map[string]TypeID

	byName map[string]TypeID
}

// NewInterner constructs an interner seeded with Unknown at ID 0 and the
// built-in primitives right after it.
func NewInterner() *Interner {
	in := &Interner{
		index:      make(map[typeKey]TypeID, 64),
		tupleIndex: make(map[string]TypeID, 8),
		fnIndex:    make(map[string]TypeID, 8),
		byName:     make(map[string]TypeID, 16),
	}
	in.builtins.Unknown = in.internRaw(Type{Kind: KindUnknown})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.byName["Unit"] = in.builtins.Unit
	in.byName["Bool"] = in.builtins.Bool
	in.byName["Int"] = in.builtins.Int
	in.byName["Float"] = in.builtins.Float
	in.byName["String"] = in.builtins.String
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Len reports how many descriptors have been interned.
func (in *Interner) Len() int {
	return len(in.types)
}

// Intern ensures the provided structural descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	key := typeKey{Kind: t.Kind, Elem: t.Elem, Mutable: t.Mutable, Payload: t.Payload}
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[typeKey{Kind: t.Kind, Elem: t.Elem, Mutable: t.Mutable, Payload: t.Payload}] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is out of range.
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// InternChan interns a channel type carrying elem.
func (in *Interner) InternChan(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindChan, Elem: elem})
}

// InternRef interns a reference type.
func (in *Interner) InternRef(elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindRef, Elem: elem, Mutable: mutable})
}

// InternTask interns the handle type produced by spawn.
func (in *Interner) InternTask(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindTask, Elem: elem})
}

// InternTuple interns a positional aggregate, deduplicating by element list.
func (in *Interner) InternTuple(elems []TypeID) TypeID {
	key := idListKey(elems)
	if id, ok := in.tupleIndex[key]; ok {
		return id
	}
	payload, err := safecast.Conv[uint32](len(in.tuples))
	if err != nil {
		panic(fmt.Errorf("len(tuples) overflow: %w", err))
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: append([]TypeID(nil), elems...)})
	id := in.internRaw(Type{Kind: KindTuple, Payload: payload})
	in.tupleIndex[key] = id
	return id
}

// InternFn interns a function type, deduplicating by signature.
func (in *Interner) InternFn(params []TypeID, ret TypeID, effects EffectRow) TypeID {
	key := idListKey(params) + "->" + fmt.Sprint(ret) + "!" + effects.key()
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	payload, err := safecast.Conv[uint32](len(in.fns))
	if err != nil {
		panic(fmt.Errorf("len(fns) overflow: %w", err))
	}
	in.fns = append(in.fns, FnInfo{
		Params:  append([]TypeID(nil), params...),
		Return:  ret,
		Effects: effects,
	})
	id := in.internRaw(Type{Kind: KindFn, Payload: payload})
	in.fnIndex[key] = id
	return id
}

// AddRecord registers a nominal record type and returns a fresh TypeID.
func (in *Interner) AddRecord(info RecordInfo) TypeID {
	payload, err := safecast.Conv[uint32](len(in.records))
	if err != nil {
		panic(fmt.Errorf("len(records) overflow: %w", err))
	}
	in.records = append(in.records, info)
	id := in.internRaw(Type{Kind: KindRecord, Payload: payload})
	in.byName[info.Name] = id
	return id
}

// AddEnum registers a nominal sum type and returns a fresh TypeID.
func (in *Interner) AddEnum(info EnumInfo) TypeID {
	payload, err := safecast.Conv[uint32](len(in.enums))
	if err != nil {
		panic(fmt.Errorf("len(enums) overflow: %w", err))
	}
	in.enums = append(in.enums, info)
	id := in.internRaw(Type{Kind: KindEnum, Payload: payload})
	in.byName[info.Name] = id
	return id
}

// ByName resolves a primitive or declared nominal type by its source name.
func (in *Interner) ByName(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// Record returns the record side table entry for id.
func (in *Interner) Record(id TypeID) (*RecordInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindRecord {
		return nil, false
	}
	return &in.records[t.Payload], true
}

// Enum returns the enum side table entry for id.
func (in *Interner) Enum(id TypeID) (*EnumInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindEnum {
		return nil, false
	}
	return &in.enums[t.Payload], true
}

// Tuple returns the tuple side table entry for id.
func (in *Interner) Tuple(id TypeID) (*TupleInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindTuple {
		return nil, false
	}
	return &in.tuples[t.Payload], true
}

// Fn returns the fn side table entry for id.
func (in *Interner) Fn(id TypeID) (*FnInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindFn {
		return nil, false
	}
	return &in.fns[t.Payload], true
}

// Format renders a TypeID for diagnostics and dumps.
func (in *Interner) Format(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<bad type>"
	}
	switch t.Kind {
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindRecord:
		return in.records[t.Payload].Name
	case KindEnum:
		return in.enums[t.Payload].Name
	case KindTuple:
		parts := make([]string, len(in.tuples[t.Payload].Elems))
		for i, e := range in.tuples[t.Payload].Elems {
			parts[i] = in.Format(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindFn:
		info := in.fns[t.Payload]
		parts := make([]string, len(info.Params))
		for i, e := range info.Params {
			parts[i] = in.Format(e)
		}
		out := "fn(" + strings.Join(parts, ", ") + ") -> " + in.Format(info.Return)
		if !info.Effects.Empty() {
			out += " !" + info.Effects.key()
		}
		return out
	case KindChan:
		return "Chan[" + in.Format(t.Elem) + "]"
	case KindTask:
		return "Task[" + in.Format(t.Elem) + "]"
	case KindRef:
		if t.Mutable {
			return "&mut " + in.Format(t.Elem)
		}
		return "&" + in.Format(t.Elem)
	}
	return "<bad type>"
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Mutable bool
	Payload uint32
}

func idListKey(ids []TypeID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}
