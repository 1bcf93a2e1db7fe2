package hir

import (
	"fmt"
	"strconv"
	"strings"

	"mica/internal/ast"
)

// DumpModule renders a lowered module as stable text for golden tests.
func DumpModule(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "hir module %s\n", m.Path)
	for _, fn := range m.Funcs {
		names := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			names[i] = p.Name
		}
		fmt.Fprintf(&b, "fn %s(%s)\n", fn.Name, strings.Join(names, ", "))
		for _, stmt := range fn.Body.Stmts {
			fmt.Fprintf(&b, "  %s\n", fmtStmt(stmt))
		}
	}
	return b.String()
}

func fmtStmt(s *Stmt) string {
	switch s.Kind {
	case StmtLet:
		return "let " + s.Name + " = " + FmtExpr(s.Value)
	case StmtReturn:
		if s.Value == nil {
			return "return"
		}
		return "return " + FmtExpr(s.Value)
	default:
		return FmtExpr(s.Value)
	}
}

// FmtExpr renders one lowered expression on one line.
func FmtExpr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ExprLit:
		return fmtLit(e.Lit)
	case ExprVar:
		return e.Var
	case ExprRecord:
		fields := make([]string, len(e.Record.Fields))
		for i, f := range e.Record.Fields {
			fields[i] = f.Name + ": " + FmtExpr(f.Value)
		}
		return e.Record.TypeName + " { " + strings.Join(fields, ", ") + " }"
	case ExprCall:
		args := make([]string, len(e.Call.Args))
		for i, a := range e.Call.Args {
			args[i] = FmtExpr(a)
		}
		return e.Call.Callee + "(" + strings.Join(args, ", ") + ")"
	case ExprBinary:
		return "(" + FmtExpr(e.Binary.Lhs) + " " + e.Binary.Op.String() + " " + FmtExpr(e.Binary.Rhs) + ")"
	case ExprBlock:
		parts := make([]string, len(e.Block.Stmts))
		for i, stmt := range e.Block.Stmts {
			parts[i] = fmtStmt(stmt) + ";"
		}
		return "{ " + strings.Join(parts, " ") + " }"
	default:
		return "<invalid>"
	}
}

func fmtLit(lit *ast.Literal) string {
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
