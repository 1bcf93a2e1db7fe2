package mir

import (
	"fmt"
	"strconv"
	"strings"

	"mica/internal/ast"
)

// DumpModule renders the module deterministically: functions and blocks in
// order, one instruction per line.
func DumpModule(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mir module %s\n", m.Path)
	for _, fn := range m.Funcs {
		b.WriteString("\n")
		m.dumpFunc(&b, fn)
	}
	return b.String()
}

func (m *Module) dumpFunc(b *strings.Builder, fn *Func) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name + ": " + m.Types.Format(p.Type)
	}
	fmt.Fprintf(b, "fn %s(%s) -> %s", fn.Name, strings.Join(params, ", "), m.Types.Format(fn.Return))
	if !fn.Effects.Empty() {
		fmt.Fprintf(b, " !%s", fn.Effects.Format(m.Effects))
	}
	b.WriteString("\n")
	for _, blk := range fn.Blocks {
		fmt.Fprintf(b, "bb%d:\n", blk.ID)
		for _, in := range blk.Instrs {
			fmt.Fprintf(b, "  %s\n", m.fmtInstr(&in))
		}
		fmt.Fprintf(b, "  %s\n", m.fmtTerm(&blk.Term))
	}
}

func (m *Module) fmtInstr(in *Instr) string {
	body := ""
	switch in.Kind {
	case InstrParam:
		body = "param " + in.Param.Name
	case InstrConst:
		body = "const " + FmtLiteral(in.Const.Lit)
	case InstrBin:
		body = fmt.Sprintf("bin %s %%%d, %%%d", in.Bin.Op, in.Bin.Lhs, in.Bin.Rhs)
	case InstrCall:
		args := make([]string, len(in.Call.Args))
		for i, a := range in.Call.Args {
			args[i] = fmt.Sprintf("%%%d", a)
		}
		body = fmt.Sprintf("call %s(%s)", in.Call.Callee, strings.Join(args, ", "))
		if in.Call.EffectsKnown {
			body += " !" + in.Call.Effects.Format(m.Effects)
		} else {
			body += " !?"
		}
	case InstrRecord:
		fields := make([]string, len(in.Record.Fields))
		for i, f := range in.Record.Fields {
			fields[i] = fmt.Sprintf("%%%d", f)
		}
		body = fmt.Sprintf("record %s{%s}", in.Record.TypeName, strings.Join(fields, ", "))
	default:
		body = "invalid"
	}
	return fmt.Sprintf("%%%d = %s : %s", in.ID, body, m.Types.Format(in.Type))
}

func (m *Module) fmtTerm(t *Terminator) string {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			return fmt.Sprintf("return %%%d", t.Return.Value)
		}
		return "return"
	case TermBranch:
		return fmt.Sprintf("branch %%%d, bb%d, bb%d", t.Branch.Cond, t.Branch.Then, t.Branch.Else)
	case TermJump:
		return fmt.Sprintf("jump bb%d", t.Jump.Target)
	default:
		return "<no terminator>"
	}
}

// FmtLiteral renders a constant operand; nil stands for unit.
func FmtLiteral(lit *ast.Literal) string {
	if lit == nil {
		return "()"
	}
	switch lit.Kind {
	case ast.LitInt:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LitFloat:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case ast.LitBool:
		return strconv.FormatBool(lit.Bool)
	case ast.LitString:
		return fmt.Sprintf("%q", lit.Str)
	default:
		return "()"
	}
}
