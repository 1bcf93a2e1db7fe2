// Package astprint renders an ast.Module back to canonical source text.
// The output is deterministic for identical input, which golden tests and
// `micac fmt` rely on.
package astprint

import (
	"fmt"
	"strconv"
	"strings"

	"mica/internal/ast"
)

const indentUnit = "  "

// Module renders a whole module.
func Module(m *ast.Module) string {
	var p printer
	p.buf.WriteString("module ")
	p.buf.WriteString(m.Path())
	p.buf.WriteString("\n")
	for _, item := range m.Items {
		p.buf.WriteString("\n")
		p.item(item)
	}
	return p.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) line(s string) {
	p.buf.WriteString(strings.Repeat(indentUnit, p.indent))
	p.buf.WriteString(s)
	p.buf.WriteString("\n")
}

func (p *printer) item(item *ast.Item) {
	switch item.Kind {
	case ast.ItemUse:
		alias := ""
		if item.Use.Alias != "" {
			alias = " as " + item.Use.Alias
		}
		p.line("use " + strings.Join(item.Use.Path, ".") + alias + ";")
	case ast.ItemTypeAlias:
		p.typeAlias(item.Type)
	case ast.ItemFunction:
		p.function(item.Fn)
	}
}

func (p *printer) typeAlias(alias *ast.TypeAlias) {
	head := "type "
	if alias.Public {
		head = "pub type "
	}
	head += alias.Name
	if len(alias.Params) > 0 {
		head += "[" + strings.Join(alias.Params, ", ") + "]"
	}
	p.line(head + " = " + TypeExpr(alias.Value))
}

func (p *printer) function(fn *ast.Function) {
	head := "fn "
	if fn.Public {
		head = "pub fn "
	}
	head += fn.Name
	if len(fn.Generics) > 0 {
		head += "[" + strings.Join(fn.Generics, ", ") + "]"
	}

	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		mut := ""
		if param.Mutable {
			mut = "mut "
		}
		params[i] = mut + param.Name + ": " + TypeExpr(param.Type)
	}
	head += "(" + strings.Join(params, ", ") + ")"

	if fn.Return != nil {
		head += " -> " + TypeExpr(fn.Return)
	}
	if len(fn.Effects) > 0 {
		head += " !{" + joinEffects(fn.Effects) + "}"
	}
	p.line(head + " {")
	p.indent++
	for _, stmt := range fn.Body.Stmts {
		p.stmt(stmt)
	}
	p.indent--
	p.line("}")
}

func (p *printer) stmt(stmt *ast.Stmt) {
	switch stmt.Kind {
	case ast.StmtLet:
		mut := ""
		if stmt.Let.Mutable {
			mut = "mut "
		}
		p.line("let " + mut + stmt.Let.Name + " = " + Expr(stmt.Let.Value) + ";")
	case ast.StmtReturn:
		if stmt.Expr == nil {
			p.line("return;")
			return
		}
		p.line("return " + Expr(stmt.Expr) + ";")
	case ast.StmtBreak:
		p.line("break;")
	case ast.StmtContinue:
		p.line("continue;")
	case ast.StmtExpr:
		p.line(Expr(stmt.Expr) + ";")
	}
}

func joinEffects(row []ast.EffectRef) string {
	names := make([]string, len(row))
	for i, e := range row {
		names[i] = e.Name
	}
	return strings.Join(names, ", ")
}

// TypeExpr renders a type expression on one line.
func TypeExpr(t *ast.TypeExpr) string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case ast.TypeName:
		return t.Name
	case ast.TypeGeneric:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = TypeExpr(a)
		}
		return t.Name + "[" + strings.Join(args, ", ") + "]"
	case ast.TypeUnit:
		return "()"
	case ast.TypeTuple:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = TypeExpr(a)
		}
		return "(" + strings.Join(args, ", ") + ")"
	case ast.TypeRecord:
		fields := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = f.Name + ": " + TypeExpr(f.Type)
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	case ast.TypeRef:
		if t.Mutable {
			return "&mut " + TypeExpr(t.Elem)
		}
		return "&" + TypeExpr(t.Elem)
	case ast.TypeFn:
		params := make([]string, len(t.Fn.Params))
		for i, param := range t.Fn.Params {
			params[i] = TypeExpr(param)
		}
		out := "fn(" + strings.Join(params, ", ") + ") -> " + TypeExpr(t.Fn.Return)
		if len(t.Fn.Effects) > 0 {
			out += " !{" + joinEffects(t.Fn.Effects) + "}"
		}
		return out
	case ast.TypeSum:
		variants := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			variants[i] = v.Name
			if len(v.Fields) > 0 {
				fields := make([]string, len(v.Fields))
				for j, f := range v.Fields {
					fields[j] = TypeExpr(f)
				}
				variants[i] += "(" + strings.Join(fields, ", ") + ")"
			}
		}
		return strings.Join(variants, " | ")
	default:
		return "<invalid>"
	}
}

// Expr renders an expression on one line.
func Expr(e *ast.Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ast.ExprLit:
		return literal(e.Lit)
	case ast.ExprPath:
		return e.Path.String()
	case ast.ExprUnary:
		return e.Unary.Op.String() + Expr(e.Unary.Expr)
	case ast.ExprBinary:
		return "(" + Expr(e.Binary.Lhs) + " " + e.Binary.Op.String() + " " + Expr(e.Binary.Rhs) + ")"
	case ast.ExprAssign:
		return Expr(e.Assign.Target) + " = " + Expr(e.Assign.Value)
	case ast.ExprCall:
		args := make([]string, len(e.Call.Args))
		for i, a := range e.Call.Args {
			args[i] = Expr(a)
		}
		return Expr(e.Call.Callee) + "(" + strings.Join(args, ", ") + ")"
	case ast.ExprField:
		return Expr(e.Field.Expr) + "." + e.Field.Name
	case ast.ExprIndex:
		return Expr(e.Index.Expr) + "[" + Expr(e.Index.Index) + "]"
	case ast.ExprIf:
		out := "if " + Expr(e.If.Cond) + " " + Expr(e.If.Then)
		if e.If.Else != nil {
			out += " else " + Expr(e.If.Else)
		}
		return out
	case ast.ExprWhile:
		return "while " + Expr(e.While.Cond) + " " + Expr(e.While.Body)
	case ast.ExprLoop:
		return "loop " + Expr(e.Loop.Body)
	case ast.ExprFor:
		return "for " + e.For.Binding + " in " + Expr(e.For.Iterable) + " " + Expr(e.For.Body)
	case ast.ExprMatch:
		arms := make([]string, len(e.Match.Arms))
		for i, arm := range e.Match.Arms {
			s := pattern(arm.Pattern)
			if arm.Guard != nil {
				s += " if " + Expr(arm.Guard)
			}
			arms[i] = s + " => " + Expr(arm.Body)
		}
		return "match " + Expr(e.Match.Scrutinee) + " { " + strings.Join(arms, ", ") + " }"
	case ast.ExprBlock:
		return blockString(e.Block)
	case ast.ExprSpawn:
		return "spawn " + Expr(e.Inner)
	case ast.ExprAwait:
		return "await " + Expr(e.Inner)
	case ast.ExprChan:
		out := "chan[" + TypeExpr(e.Chan.Elem) + "]"
		if e.Chan.Capacity != nil {
			out += "(" + Expr(e.Chan.Capacity) + ")"
		}
		return out
	case ast.ExprUsing:
		return "using " + Expr(e.Using.Acquire) + " " + blockString(e.Using.Body)
	case ast.ExprTry:
		return Expr(e.Inner) + "?"
	case ast.ExprRecord:
		fields := make([]string, len(e.Record.Fields))
		for i, f := range e.Record.Fields {
			fields[i] = f.Name + ": " + Expr(f.Value)
		}
		return e.Record.Type.String() + " { " + strings.Join(fields, ", ") + " }"
	default:
		return "<invalid>"
	}
}

func blockString(b *ast.Block) string {
	parts := make([]string, len(b.Stmts))
	for i, stmt := range b.Stmts {
		parts[i] = stmtString(stmt)
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func stmtString(stmt *ast.Stmt) string {
	switch stmt.Kind {
	case ast.StmtLet:
		mut := ""
		if stmt.Let.Mutable {
			mut = "mut "
		}
		return "let " + mut + stmt.Let.Name + " = " + Expr(stmt.Let.Value) + ";"
	case ast.StmtReturn:
		if stmt.Expr == nil {
			return "return;"
		}
		return "return " + Expr(stmt.Expr) + ";"
	case ast.StmtBreak:
		return "break;"
	case ast.StmtContinue:
		return "continue;"
	case ast.StmtExpr:
		return Expr(stmt.Expr) + ";"
	}
	return "<invalid>;"
}

func pattern(p *ast.Pattern) string {
	switch p.Kind {
	case ast.PatWildcard:
		return "_"
	case ast.PatBinding:
		return p.Name
	case ast.PatLiteral:
		return literal(p.Lit)
	case ast.PatVariant:
		out := p.Path.String()
		if len(p.Fields) > 0 {
			fields := make([]string, len(p.Fields))
			for i, f := range p.Fields {
				fields[i] = pattern(f)
			}
			out += "(" + strings.Join(fields, ", ") + ")"
		}
		return out
	default:
		return "<invalid>"
	}
}

func literal(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.LitInt:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LitFloat:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case ast.LitBool:
		return strconv.FormatBool(lit.Bool)
	case ast.LitString:
		return fmt.Sprintf("%q", lit.Str)
	case ast.LitUnit:
		return "()"
	}
	return "<lit>"
}
