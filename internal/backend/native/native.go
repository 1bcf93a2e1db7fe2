// Package native lowers a module into portable C and leaves machine code
// to the host C compiler. The generated source is self-contained apart
// from two runtime hooks that guard capability use at startup.
package native

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"mica/internal/ast"
	"mica/internal/backend"
	"mica/internal/mir"
	"mica/internal/types"
)

// Backend emits one C translation unit per module.
type Backend struct{}

func (Backend) Name() string { return "native" }

func (Backend) Emit(in backend.Input) ([]byte, error) {
	m := in.Module
	var b strings.Builder
	fmt.Fprintf(&b, "/* module %s */\n", m.Path)
	b.WriteString("#include <stdbool.h>\n")
	b.WriteString("#include <stdint.h>\n")
	b.WriteString("#include <stddef.h>\n\n")

	b.WriteString("void mica_runtime_initialize(void);\n")
	b.WriteString("void mica_runtime_require_capability(const char *name);\n\n")

	emitRecordDefs(&b, m)

	// Prototypes first so functions may call each other in any order.
	for _, fn := range m.Funcs {
		fmt.Fprintf(&b, "%s;\n", signature(m, fn))
	}
	b.WriteString("\n")

	for _, fn := range m.Funcs {
		if err := emitFunc(&b, m, fn); err != nil {
			return nil, err
		}
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// emitRecordDefs declares a typedef for every record type the module
// mentions, in TypeID order so output is deterministic.
func emitRecordDefs(b *strings.Builder, m *mir.Module) {
	seen := make(map[types.TypeID]bool)
	var ids []types.TypeID
	touch := func(id types.TypeID) {
		if seen[id] {
			return
		}
		if t, ok := m.Types.Lookup(id); ok && t.Kind == types.KindRecord {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, fn := range m.Funcs {
		touch(fn.Return)
		for _, p := range fn.Params {
			touch(p.Type)
		}
		for _, blk := range fn.Blocks {
			for _, in := range blk.Instrs {
				touch(in.Type)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		info, _ := m.Types.Record(id)
		name := sanitize(info.Name)
		fmt.Fprintf(b, "typedef struct %s {\n", name)
		for _, f := range info.Fields {
			fmt.Fprintf(b, "  %s %s;\n", cType(m, f.Type), sanitize(f.Name))
		}
		fmt.Fprintf(b, "} %s;\n\n", name)
	}
}

func signature(m *mir.Module, fn *mir.Func) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(", cReturn(m, fn.Return), mangle(fn.Name))
	if len(fn.Params) == 0 {
		b.WriteString("void")
	}
	for i, p := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s arg%d", cType(m, p.Type), i)
	}
	b.WriteString(")")
	return b.String()
}

func emitFunc(b *strings.Builder, m *mir.Module, fn *mir.Func) error {
	fmt.Fprintf(b, "%s {\n", signature(m, fn))

	if !fn.Effects.Empty() {
		b.WriteString("  mica_runtime_initialize();\n")
		for _, eff := range fn.Effects {
			fmt.Fprintf(b, "  mica_runtime_require_capability(%q);\n", m.Effects.Name(eff))
		}
	}

	multi := len(fn.Blocks) > 1
	for _, blk := range fn.Blocks {
		if multi {
			fmt.Fprintf(b, "bb%d:;\n", blk.ID)
		}
		for i := range blk.Instrs {
			if err := emitInstr(b, m, &blk.Instrs[i]); err != nil {
				return fmt.Errorf("fn %s: %w", fn.Name, err)
			}
		}
		emitTerm(b, m, fn, &blk.Term)
	}
	b.WriteString("}\n")
	return nil
}

func emitInstr(b *strings.Builder, m *mir.Module, in *mir.Instr) error {
	t := cType(m, in.Type)
	switch in.Kind {
	case mir.InstrParam:
		fmt.Fprintf(b, "  %s v%d = arg%d;\n", t, in.ID, in.Param.Index)
	case mir.InstrConst:
		fmt.Fprintf(b, "  %s v%d = %s;\n", t, in.ID, cLiteral(in.Const.Lit))
	case mir.InstrBin:
		fmt.Fprintf(b, "  %s v%d = v%d %s v%d;\n", t, in.ID, in.Bin.Lhs, in.Bin.Op, in.Bin.Rhs)
	case mir.InstrCall:
		args := make([]string, len(in.Call.Args))
		for i, a := range in.Call.Args {
			args[i] = fmt.Sprintf("v%d", a)
		}
		call := fmt.Sprintf("%s(%s)", mangle(in.Call.Callee), strings.Join(args, ", "))
		if isUnit(m, in.Type) {
			// C has no unit value; run the call and bind a zero.
			fmt.Fprintf(b, "  %s;\n", call)
			fmt.Fprintf(b, "  %s v%d = 0;\n", t, in.ID)
		} else {
			fmt.Fprintf(b, "  %s v%d = %s;\n", t, in.ID, call)
		}
	case mir.InstrRecord:
		info, ok := m.Types.Record(in.Type)
		if !ok {
			return fmt.Errorf("v%d: record instruction with non-record type#%d", in.ID, in.Type)
		}
		inits := make([]string, len(in.Record.Fields))
		for i, f := range in.Record.Fields {
			inits[i] = fmt.Sprintf("v%d", f)
		}
		name := sanitize(info.Name)
		if len(inits) == 0 {
			fmt.Fprintf(b, "  %s v%d = (%s){0};\n", name, in.ID, name)
		} else {
			fmt.Fprintf(b, "  %s v%d = (%s){ %s };\n", name, in.ID, name, strings.Join(inits, ", "))
		}
	default:
		return fmt.Errorf("v%d: unsupported instruction kind %d", in.ID, in.Kind)
	}
	return nil
}

func emitTerm(b *strings.Builder, m *mir.Module, fn *mir.Func, t *mir.Terminator) {
	switch t.Kind {
	case mir.TermReturn:
		if !t.Return.HasValue || isUnit(m, fn.Return) {
			b.WriteString("  return;\n")
			return
		}
		fmt.Fprintf(b, "  return v%d;\n", t.Return.Value)
	case mir.TermBranch:
		fmt.Fprintf(b, "  if (v%d) { goto bb%d; } else { goto bb%d; }\n",
			t.Branch.Cond, t.Branch.Then, t.Branch.Else)
	case mir.TermJump:
		fmt.Fprintf(b, "  goto bb%d;\n", t.Jump.Target)
	}
}

// cType is the value-position C type. Enums compile to their tag; the
// opaque runtime kinds travel as pointers. Unknown degrades to int64_t so
// partially typed modules still render, matching the text backend's
// tolerance rather than the llvm scaffold's strictness.
func cType(m *mir.Module, id types.TypeID) string {
	t, ok := m.Types.Lookup(id)
	if !ok {
		return "int64_t"
	}
	switch t.Kind {
	case types.KindBool:
		return "bool"
	case types.KindFloat:
		return "double"
	case types.KindString:
		return "const char *"
	case types.KindRecord:
		info, _ := m.Types.Record(id)
		return sanitize(info.Name)
	case types.KindChan, types.KindTask, types.KindRef, types.KindFn, types.KindTuple:
		return "void *"
	default:
		return "int64_t"
	}
}

func cReturn(m *mir.Module, id types.TypeID) string {
	if isUnit(m, id) {
		return "void"
	}
	return cType(m, id)
}

func isUnit(m *mir.Module, id types.TypeID) bool {
	t, ok := m.Types.Lookup(id)
	return ok && t.Kind == types.KindUnit
}

func cLiteral(lit *ast.Literal) string {
	if lit == nil {
		return "0"
	}
	switch lit.Kind {
	case ast.LitInt:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LitFloat:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case ast.LitBool:
		return strconv.FormatBool(lit.Bool)
	case ast.LitString:
		return strconv.Quote(lit.Str)
	default:
		return "0"
	}
}

func mangle(name string) string {
	return sanitize(strings.ReplaceAll(name, "::", "_"))
}

// sanitize keeps [A-Za-z0-9_] and guards against a leading digit, so any
// source spelling yields a legal C identifier.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	out := b.String()
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}
