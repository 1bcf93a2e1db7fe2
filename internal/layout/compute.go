package layout

import (
	"mica/internal/types"
)

const pointerSize = 8

func align(offset, alignment uint64) uint64 {
	if alignment <= 1 {
		return offset
	}
	rem := offset % alignment
	if rem == 0 {
		return offset
	}
	return offset + alignment - rem
}

func (e *Engine) compute(id types.TypeID) (TypeLayout, error) {
	if e.stack[id] {
		cycle := make([]types.TypeID, 0, len(e.stack))
		for t := range e.stack {
			cycle = append(cycle, t)
		}
		return TypeLayout{}, &Error{Kind: ErrRecursive, Type: id, Cycle: cycle}
	}
	t, ok := e.Types.Lookup(id)
	if !ok || t.Kind == types.KindUnknown {
		return TypeLayout{}, &Error{Kind: ErrUnknownType, Type: id}
	}

	switch t.Kind {
	case types.KindUnit:
		return TypeLayout{Size: 0, Align: 1}, nil
	case types.KindBool:
		return TypeLayout{Size: 1, Align: 1}, nil
	case types.KindInt, types.KindFloat:
		return TypeLayout{Size: 8, Align: 8}, nil
	case types.KindString:
		// Pointer plus length.
		return TypeLayout{Size: 16, Align: 8}, nil
	case types.KindChan, types.KindTask, types.KindRef, types.KindFn:
		return TypeLayout{Size: pointerSize, Align: pointerSize}, nil
	case types.KindRecord:
		info, _ := e.Types.Record(id)
		fields := make([]types.TypeID, len(info.Fields))
		for i, f := range info.Fields {
			fields[i] = f.Type
		}
		return e.aggregate(id, fields)
	case types.KindTuple:
		info, _ := e.Types.Tuple(id)
		return e.aggregate(id, info.Elems)
	case types.KindEnum:
		return e.enumLayout(id)
	}
	return TypeLayout{}, &Error{Kind: ErrUnknownType, Type: id}
}

// aggregate lays out fields in declaration order under natural alignment:
// each field starts at the next offset aligned to its own alignment, and
// the total size is rounded up to the aggregate's alignment.
func (e *Engine) aggregate(id types.TypeID, fields []types.TypeID) (TypeLayout, error) {
	e.stack[id] = true
	defer delete(e.stack, id)

	out := TypeLayout{Align: 1, FieldOffsets: make([]uint64, 0, len(fields))}
	offset := uint64(0)
	for _, f := range fields {
		fl, err := e.Of(f)
		if err != nil {
			return TypeLayout{}, err
		}
		offset = align(offset, fl.Align)
		out.FieldOffsets = append(out.FieldOffsets, offset)
		offset += fl.Size
		if fl.Align > out.Align {
			out.Align = fl.Align
		}
	}
	out.Size = align(offset, out.Align)
	return out, nil
}

// enumLayout reserves an 8-byte tag followed by the largest variant
// payload, laid out as if it were a tuple.
func (e *Engine) enumLayout(id types.TypeID) (TypeLayout, error) {
	e.stack[id] = true
	defer delete(e.stack, id)

	info, _ := e.Types.Enum(id)
	out := TypeLayout{Size: 8, Align: 8}
	maxPayload := uint64(0)
	for _, v := range info.Variants {
		payload := uint64(0)
		valign := uint64(1)
		for _, f := range v.Fields {
			fl, err := e.Of(f)
			if err != nil {
				return TypeLayout{}, err
			}
			payload = align(payload, fl.Align)
			payload += fl.Size
			if fl.Align > valign {
				valign = fl.Align
			}
		}
		payload = align(payload, valign)
		if payload > maxPayload {
			maxPayload = payload
		}
		if valign > out.Align {
			out.Align = valign
		}
	}
	out.Size = align(8+maxPayload, out.Align)
	return out, nil
}
