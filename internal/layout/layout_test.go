package layout_test

import (
	"errors"
	"testing"

	"mica/internal/layout"
	"mica/internal/types"
)

func TestPointLayout(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	point := in.AddRecord(types.RecordInfo{
		Name: "Point",
		Fields: []types.Field{
			{Name: "x", Type: b.Int},
			{Name: "y", Type: b.Int},
		},
	})

	e := layout.NewEngine(in)
	l, err := e.Of(point)
	if err != nil {
		t.Fatal(err)
	}
	if l.Size != 16 || l.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 16/8", l.Size, l.Align)
	}
	if len(l.FieldOffsets) != 2 || l.FieldOffsets[0] != 0 || l.FieldOffsets[1] != 8 {
		t.Fatalf("offsets = %v, want [0 8]", l.FieldOffsets)
	}
}

func TestPaddingBetweenFields(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	rec := in.AddRecord(types.RecordInfo{
		Name: "Flagged",
		Fields: []types.Field{
			{Name: "on", Type: b.Bool},
			{Name: "n", Type: b.Int},
			{Name: "tail", Type: b.Bool},
		},
	})

	l, err := layout.NewEngine(in).Of(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{0, 8, 16}
	for i, off := range l.FieldOffsets {
		if off != want[i] {
			t.Fatalf("offsets = %v, want %v", l.FieldOffsets, want)
		}
	}
	if l.Size != 24 || l.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 24/8", l.Size, l.Align)
	}
}

func TestPrimitives(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	e := layout.NewEngine(in)
	cases := []struct {
		id    types.TypeID
		size  uint64
		align uint64
	}{
		{b.Unit, 0, 1},
		{b.Bool, 1, 1},
		{b.Int, 8, 8},
		{b.Float, 8, 8},
		{b.String, 16, 8},
		{in.InternChan(b.Int), 8, 8},
		{in.InternTask(b.Int), 8, 8},
	}
	for _, tc := range cases {
		l, err := e.Of(tc.id)
		if err != nil {
			t.Fatalf("Of(%s): %v", in.Format(tc.id), err)
		}
		if l.Size != tc.size || l.Align != tc.align {
			t.Errorf("%s = %d/%d, want %d/%d", in.Format(tc.id), l.Size, l.Align, tc.size, tc.align)
		}
	}
}

func TestEnumLayout(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	id := in.AddEnum(types.EnumInfo{
		Name: "TaskResult",
		Variants: []types.VariantInfo{
			{Name: "Done", Fields: []types.TypeID{b.Int}},
			{Name: "Failed", Fields: []types.TypeID{b.String}},
		},
	})
	l, err := layout.NewEngine(in).Of(id)
	if err != nil {
		t.Fatal(err)
	}
	// 8-byte tag + 16-byte String payload.
	if l.Size != 24 || l.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 24/8", l.Size, l.Align)
	}
}

func TestUnknownTypeIsAnError(t *testing.T) {
	in := types.NewInterner()
	_, err := layout.NewEngine(in).Of(types.Unknown)
	var lerr *layout.Error
	if !errors.As(err, &lerr) || lerr.Kind != layout.ErrUnknownType {
		t.Fatalf("err = %v", err)
	}
}

func TestRecursiveRecordIsAnError(t *testing.T) {
	in := types.NewInterner()
	id := in.AddRecord(types.RecordInfo{Name: "Node"})
	rec, _ := in.Record(id)
	rec.Fields = append(rec.Fields, types.Field{Name: "next", Type: id})

	_, err := layout.NewEngine(in).Of(id)
	var lerr *layout.Error
	if !errors.As(err, &lerr) || lerr.Kind != layout.ErrRecursive {
		t.Fatalf("err = %v", err)
	}
}

func TestLayoutIsCachedAndStable(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	point := in.AddRecord(types.RecordInfo{
		Name:   "Point",
		Fields: []types.Field{{Name: "x", Type: b.Int}, {Name: "y", Type: b.Int}},
	})
	e := layout.NewEngine(in)
	first, err := e.Of(point)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Of(point)
	if err != nil {
		t.Fatal(err)
	}
	if first.Size != second.Size || first.Align != second.Align {
		t.Fatal("layout changed between queries")
	}
}
