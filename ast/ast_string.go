package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber renders integral numbers without a fractional part.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func TypeString(t Type) string {
	switch v := t.(type) {
	case nil:
		return ""
	case NumT:
		return "num"
	case BoolT:
		return "bool"
	case StringT:
		return "string"
	case UnitT:
		return "unit"
	case ErrorT:
		return v.Message
	case FuncT:
		var b strings.Builder
		b.WriteString("(")
		for _, arg := range v.Arguments {
			b.WriteString(TypeString(arg))
			b.WriteString(" ")
		}
		b.WriteString("-> ")
		b.WriteString(TypeString(v.Returns))
		b.WriteString(")")
		return b.String()
	case PairT:
		return fmt.Sprintf("(%s , %s)", TypeString(v.First), TypeString(v.Second))
	case ListT:
		return fmt.Sprintf("List<%s>", TypeString(v.Element))
	case RefT:
		return "Ref " + TypeString(v.Inner)
	}

	panic("unhandled")
}

func form(head string, args ...Expression) string {
	parts := []string{head}
	for _, arg := range args {
		parts = append(parts, ExprString(arg))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func bindingsString(bindings []Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, fmt.Sprintf("(%s : %s %s)", b.Name, TypeString(b.Kind), ExprString(b.Value)))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// ExprString renders an expression back to source form for diagnostics.
func ExprString(e Expression) string {
	switch expr := e.(type) {
	case nil:
		return ""
	case Unit:
		return "unit"
	case Num:
		return FormatNumber(float64(expr))
	case Bool:
		if expr {
			return "#t"
		}
		return "#f"
	case Str:
		return strconv.Quote(string(expr))
	case Var:
		return string(expr)
	case Arith:
		return form(expr.Op.String(), expr.Operands...)
	case Let:
		return fmt.Sprintf("(let %s %s)", bindingsString(expr.Bindings), ExprString(expr.Body))
	case Letrec:
		return fmt.Sprintf("(letrec %s %s)", bindingsString(expr.Bindings), ExprString(expr.Body))
	case Lambda:
		var parts []string
		for i, name := range expr.Formals {
			if i < len(expr.Types) {
				parts = append(parts, name+" : "+TypeString(expr.Types[i]))
			} else {
				parts = append(parts, name)
			}
		}
		return fmt.Sprintf("(lambda (%s) %s)", strings.Join(parts, " "), ExprString(expr.Body))
	case Call:
		return form(ExprString(expr.Operator), expr.Operands...)
	case If:
		return form("if", expr.Condition, expr.Then, expr.Else)
	case Compare:
		return form(expr.Op.String(), expr.Left, expr.Right)
	case Car:
		return form("car", expr.Arg)
	case Cdr:
		return form("cdr", expr.Arg)
	case Cons:
		return form("cons", expr.First, expr.Second)
	case List:
		return form("list : "+TypeString(expr.Element), expr.Elements...)
	case Null:
		return form("null?", expr.Arg)
	case Predicate:
		return form(expr.Kind.String(), expr.Arg)
	case Ref:
		return form("ref : "+TypeString(expr.Kind), expr.Value)
	case Deref:
		return form("deref", expr.Ref)
	case Assign:
		return form("set!", expr.Ref, expr.Value)
	case Free:
		return form("free", expr.Ref)
	case Read:
		return form("read", expr.File)
	case Eval:
		return form("eval", expr.Code)
	case Error:
		return form("error " + strconv.Quote(expr.Message))
	}

	panic("unhandled")
}

func (d Define) String() string {
	return fmt.Sprintf("(define %s : %s %s)", d.Name, TypeString(d.Kind), ExprString(d.Value))
}

func (p Program) String() string {
	var parts []string
	for _, d := range p.Decls {
		parts = append(parts, d.String())
	}
	if p.Body != nil {
		parts = append(parts, ExprString(p.Body))
	}
	return strings.Join(parts, "\n")
}
