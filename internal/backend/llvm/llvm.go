// Package llvm is a scaffold backend emitting LLVM-flavoured textual IR.
// It enforces the IR contract strictly: every value reaching it must carry
// a concrete type, so an unknown-typed value is a ContractError rather
// than silently mistyped output.
package llvm

import (
	"fmt"
	"strings"

	"mica/internal/ast"
	"mica/internal/backend"
	"mica/internal/mir"
	"mica/internal/types"
)

// ContractError reports a value the backend refuses to emit.
type ContractError struct {
	Func  string
	Value mir.ValueID
	Type  types.TypeID
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("llvm: fn %s: %%%d has no concrete type (type#%d)", e.Func, e.Value, e.Type)
}

// Backend emits one textual IR file per module.
type Backend struct{}

func (Backend) Name() string { return "llvm" }

func (Backend) Emit(in backend.Input) ([]byte, error) {
	m := in.Module
	var b strings.Builder
	fmt.Fprintf(&b, "; ModuleID = '%s'\n", m.Path)
	for _, fn := range m.Funcs {
		b.WriteString("\n")
		if err := emitFunc(&b, m, fn); err != nil {
			return nil, err
		}
	}
	return []byte(b.String()), nil
}

func emitFunc(b *strings.Builder, m *mir.Module, fn *mir.Func) error {
	ret, err := llType(m, fn.Name, mir.NoValueID, fn.Return)
	if err != nil {
		return err
	}

	// Params become %argN; the entry block's param instructions alias
	// them instead of producing instructions of their own.
	names := make(map[mir.ValueID]string, fn.NumValues())
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		pt, err := llType(m, fn.Name, mir.NoValueID, p.Type)
		if err != nil {
			return err
		}
		params[i] = fmt.Sprintf("%s %%arg%d", pt, i)
	}

	fmt.Fprintf(b, "define %s @%s(%s) {\n", ret, fn.Name, strings.Join(params, ", "))
	for _, blk := range fn.Blocks {
		fmt.Fprintf(b, "bb%d:\n", blk.ID)
		for i := range blk.Instrs {
			if err := emitInstr(b, m, fn, names, &blk.Instrs[i]); err != nil {
				return err
			}
		}
		if err := emitTerm(b, m, fn, names, &blk.Term); err != nil {
			return err
		}
	}
	b.WriteString("}\n")
	return nil
}

func operand(names map[mir.ValueID]string, id mir.ValueID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("%%%d", id)
}

func emitInstr(b *strings.Builder, m *mir.Module, fn *mir.Func, names map[mir.ValueID]string, in *mir.Instr) error {
	t, err := llType(m, fn.Name, in.ID, in.Type)
	if err != nil {
		return err
	}
	switch in.Kind {
	case mir.InstrParam:
		names[in.ID] = fmt.Sprintf("%%arg%d", in.Param.Index)
		return nil
	case mir.InstrConst:
		fmt.Fprintf(b, "  %%%d = literal %s %s\n", in.ID, t, mir.FmtLiteral(in.Const.Lit))
	case mir.InstrBin:
		fmt.Fprintf(b, "  %%%d = %s %s %s, %s\n", in.ID, binOp(in.Bin.Op), t,
			operand(names, in.Bin.Lhs), operand(names, in.Bin.Rhs))
	case mir.InstrCall:
		args := make([]string, len(in.Call.Args))
		for i, a := range in.Call.Args {
			args[i] = operand(names, a)
		}
		callee := strings.ReplaceAll(in.Call.Callee, "::", ".")
		fmt.Fprintf(b, "  %%%d = call %s @%s(%s)\n", in.ID, t, callee, strings.Join(args, ", "))
	case mir.InstrRecord:
		fields := make([]string, len(in.Record.Fields))
		for i, f := range in.Record.Fields {
			fields[i] = operand(names, f)
		}
		fmt.Fprintf(b, "  %%%d = insertvalue %%struct.%s %s\n", in.ID, in.Record.TypeName,
			strings.Join(fields, ", "))
	}
	return nil
}

func emitTerm(b *strings.Builder, m *mir.Module, fn *mir.Func, names map[mir.ValueID]string, t *mir.Terminator) error {
	switch t.Kind {
	case mir.TermReturn:
		if !t.Return.HasValue {
			b.WriteString("  ret void\n")
			return nil
		}
		rt, err := llType(m, fn.Name, t.Return.Value, fn.Return)
		if err != nil {
			return err
		}
		if rt == "void" {
			b.WriteString("  ret void\n")
			return nil
		}
		fmt.Fprintf(b, "  ret %s %s\n", rt, operand(names, t.Return.Value))
	case mir.TermBranch:
		fmt.Fprintf(b, "  br i1 %s, label %%bb%d, label %%bb%d\n",
			operand(names, t.Branch.Cond), t.Branch.Then, t.Branch.Else)
	case mir.TermJump:
		fmt.Fprintf(b, "  br label %%bb%d\n", t.Jump.Target)
	}
	return nil
}

func llType(m *mir.Module, fnName string, value mir.ValueID, id types.TypeID) (string, error) {
	t, ok := m.Types.Lookup(id)
	if !ok || t.Kind == types.KindUnknown {
		return "", &ContractError{Func: fnName, Value: value, Type: id}
	}
	switch t.Kind {
	case types.KindUnit:
		return "void", nil
	case types.KindBool:
		return "i1", nil
	case types.KindInt:
		return "i64", nil
	case types.KindFloat:
		return "double", nil
	case types.KindString, types.KindChan, types.KindTask, types.KindRef, types.KindFn:
		return "ptr", nil
	case types.KindRecord:
		info, _ := m.Types.Record(id)
		return "%struct." + info.Name, nil
	case types.KindEnum:
		info, _ := m.Types.Enum(id)
		return "%enum." + info.Name, nil
	case types.KindTuple:
		return "ptr", nil
	}
	return "", &ContractError{Func: fnName, Value: value, Type: id}
}

func binOp(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "add"
	case ast.BinSub:
		return "sub"
	case ast.BinMul:
		return "mul"
	case ast.BinDiv:
		return "sdiv"
	case ast.BinMod:
		return "srem"
	case ast.BinEq:
		return "icmp eq"
	case ast.BinNe:
		return "icmp ne"
	case ast.BinLt:
		return "icmp slt"
	case ast.BinLe:
		return "icmp sle"
	case ast.BinGt:
		return "icmp sgt"
	case ast.BinGe:
		return "icmp sge"
	case ast.BinAnd:
		return "and"
	case ast.BinOr:
		return "or"
	}
	return "bin"
}
