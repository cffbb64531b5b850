// Package checker is the static pass. Every rule returns an ast.ErrorT
// the moment a sub-check fails and hands it upward untouched.
package checker

import (
	"fmt"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/env"
)

type Scope = env.Env[ast.Type]

func errorf(format string, args ...interface{}) ast.ErrorT {
	return ast.ErrorT{Message: fmt.Sprintf(format, args...)}
}

func show(e ast.Expression) string {
	return ast.ExprString(e)
}

func str(t ast.Type) string {
	return ast.TypeString(t)
}

// Check types a program against globals. The returned scope extends
// globals with every top-level define that was checked.
func Check(p *ast.Program, globals *Scope) (ast.Type, *Scope) {
	scope := globals

	for _, d := range p.Decls {
		t := Expr(d.Value, scope)
		if ast.IsError(t) {
			return t, scope
		}

		if !ast.TypeEqual(d.Kind, t) {
			return errorf("Expected %s found %s in %s", str(d.Kind), str(t), d), scope
		}

		scope = scope.Extend(d.Name, d.Kind)
	}

	if p.Body == nil {
		return ast.UnitT{}, scope
	}
	return Expr(p.Body, scope), scope
}

// Expr types one expression in scope.
func Expr(e ast.Expression, scope *Scope) ast.Type {
	switch expr := e.(type) {
	case ast.Unit:
		return ast.UnitT{}
	case ast.Num:
		return ast.NumT{}
	case ast.Str:
		return ast.StringT{}
	case ast.Bool:
		return ast.BoolT{}
	case ast.Arith:
		return arith(expr, scope)
	case ast.Var:
		t, err := scope.Lookup(string(expr))
		if err != nil {
			return errorf("Variable %s has not been declared in %s", string(expr), show(expr))
		}
		return t
	case ast.Let:
		return let(expr, scope)
	case ast.Letrec:
		return letrec(expr, scope)
	case ast.Lambda:
		return lambda(expr, scope)
	case ast.Call:
		return call(expr, scope)
	case ast.If:
		return ifExpr(expr, scope)
	case ast.Compare:
		return compare(expr, scope)
	case ast.Car:
		return carCdr(expr, expr.Arg, "car", scope)
	case ast.Cdr:
		return carCdr(expr, expr.Arg, "cdr", scope)
	case ast.Cons:
		first := Expr(expr.First, scope)
		if ast.IsError(first) {
			return first
		}
		second := Expr(expr.Second, scope)
		if ast.IsError(second) {
			return second
		}
		return ast.PairT{First: first, Second: second}
	case ast.List:
		return list(expr, scope)
	case ast.Null:
		t := Expr(expr.Arg, scope)
		if ast.IsError(t) {
			return t
		}
		if _, ok := t.(ast.ListT); ok {
			return ast.BoolT{}
		}
		return errorf("The null? expects an expression of type List, found %s in %s", str(t), show(expr))
	case ast.Predicate:
		t := Expr(expr.Arg, scope)
		if ast.IsError(t) {
			return t
		}
		return ast.BoolT{}
	case ast.Ref:
		t := Expr(expr.Value, scope)
		if ast.IsError(t) {
			return t
		}
		if ast.TypeEqual(t, expr.Kind) {
			return ast.RefT{Inner: expr.Kind}
		}
		return errorf("The Ref expression expects type %s found %s in %s", str(expr.Kind), str(t), show(expr))
	case ast.Deref:
		t := Expr(expr.Ref, scope)
		if ast.IsError(t) {
			return t
		}
		if ref, ok := t.(ast.RefT); ok {
			return ref.Inner
		}
		return errorf("The dereference expression expects a reference type found %s in %s", str(t), show(expr))
	case ast.Assign:
		return assign(expr, scope)
	case ast.Free:
		t := Expr(expr.Ref, scope)
		if ast.IsError(t) {
			return t
		}
		if _, ok := t.(ast.RefT); ok {
			return ast.UnitT{}
		}
		return errorf("The free expression expects a reference type found %s in %s", str(t), show(expr))
	case ast.Read, ast.Eval:
		// whatever these load is only known at run time
		return ast.UnitT{}
	case ast.Error:
		return errorf("Encountered an error type %s", show(expr))
	}

	panic(fmt.Sprintf("checker: unhandled expression %T", e))
}

func arith(e ast.Arith, scope *Scope) ast.Type {
	for _, operand := range e.Operands {
		t := Expr(operand, scope)
		if ast.IsError(t) {
			return t
		}
		if _, ok := t.(ast.NumT); !ok {
			return errorf("expected num found %s in %s", str(t), show(e))
		}
	}

	return ast.NumT{}
}

func let(e ast.Let, scope *Scope) ast.Type {
	for i, b := range e.Bindings {
		t := Expr(b.Value, scope)
		if ast.IsError(t) {
			return t
		}
		if !ast.TypeEqual(t, b.Kind) {
			return errorf("The declared type of the %d let variable and the actual type mismatch, expect %s found %s in %s", i, str(b.Kind), str(t), show(e))
		}
	}

	inner := scope
	for _, b := range e.Bindings {
		inner = inner.Extend(b.Name, b.Kind)
	}

	return Expr(e.Body, inner)
}

func letrec(e ast.Letrec, scope *Scope) ast.Type {
	inner := scope
	for _, b := range e.Bindings {
		inner = inner.Extend(b.Name, b.Kind)
	}

	for i, b := range e.Bindings {
		t := Expr(b.Value, inner)
		if ast.IsError(t) {
			return t
		}
		if !ast.Assignable(b.Kind, t) {
			return errorf("The expected type of the %d variable is %s found %s in %s", i, str(b.Kind), str(t), show(e))
		}
	}

	return Expr(e.Body, inner)
}

func lambda(e ast.Lambda, scope *Scope) ast.Type {
	if len(e.Formals) != len(e.Types) {
		return errorf("The number of formal parameters and the number of arguments in the function type do not match in %s", show(e))
	}

	inner := scope
	for i, name := range e.Formals {
		inner = inner.Extend(name, e.Types[i])
	}

	body := Expr(e.Body, inner)
	if ast.IsError(body) {
		return body
	}

	// the return type is never written down; it is whatever the body has
	return ast.FuncT{Arguments: e.Types, Returns: body}
}

func call(e ast.Call, scope *Scope) ast.Type {
	t := Expr(e.Operator, scope)
	if ast.IsError(t) {
		return t
	}

	fn, ok := t.(ast.FuncT)
	if !ok {
		return errorf("Expect a function type in the call expression, found %s in %s", str(t), show(e))
	}

	if len(e.Operands) != len(fn.Arguments) {
		return errorf("The number of arguments expected is %d found %d in %s", len(fn.Arguments), len(e.Operands), show(e))
	}

	for i, operand := range e.Operands {
		t := Expr(operand, scope)
		if ast.IsError(t) {
			return t
		}
		if !ast.Assignable(fn.Arguments[i], t) {
			return errorf("The expected type of the %d argument is %s found %s in %s", i, str(fn.Arguments[i]), str(t), show(e))
		}
	}

	return fn.Returns
}

func ifExpr(e ast.If, scope *Scope) ast.Type {
	cond := Expr(e.Condition, scope)
	if ast.IsError(cond) {
		return cond
	}
	if _, ok := cond.(ast.BoolT); !ok {
		return errorf("The condition should have boolean type, found %s in %s", str(cond), show(e))
	}

	then := Expr(e.Then, scope)
	if ast.IsError(then) {
		return then
	}
	els := Expr(e.Else, scope)
	if ast.IsError(els) {
		return els
	}

	if ast.TypeEqual(then, els) {
		return then
	}

	return errorf("The then and else expressions should have the same type, then has type %s else has type %s in %s", str(then), str(els), show(e))
}

func compare(e ast.Compare, scope *Scope) ast.Type {
	left := Expr(e.Left, scope)
	if ast.IsError(left) {
		return left
	}
	right := Expr(e.Right, scope)
	if ast.IsError(right) {
		return right
	}

	if _, ok := left.(ast.NumT); !ok {
		return errorf("The first argument of a binary expression should be num Type, found %s in %s", str(left), show(e))
	}
	if _, ok := right.(ast.NumT); !ok {
		return errorf("The second argument of a binary expression should be num Type, found %s in %s", str(right), show(e))
	}

	return ast.BoolT{}
}

func carCdr(e ast.Expression, arg ast.Expression, name string, scope *Scope) ast.Type {
	t := Expr(arg, scope)
	if ast.IsError(t) {
		return t
	}

	switch v := t.(type) {
	case ast.PairT:
		if name == "car" {
			return v.First
		}
		return v.Second
	case ast.ListT:
		if name == "car" {
			return v.Element
		}
		return v
	}

	return errorf("The %s expect an expression of type Pair, found %s in %s", name, str(t), show(e))
}

func list(e ast.List, scope *Scope) ast.Type {
	for i, elem := range e.Elements {
		t := Expr(elem, scope)
		if ast.IsError(t) {
			return t
		}
		if !ast.Assignable(e.Element, t) {
			return errorf("The %d expression should have type %s found %s in %s", i, str(e.Element), str(t), show(e))
		}
	}

	return ast.ListT{Element: e.Element}
}

func assign(e ast.Assign, scope *Scope) ast.Type {
	lhs := Expr(e.Ref, scope)
	if ast.IsError(lhs) {
		return lhs
	}

	ref, ok := lhs.(ast.RefT)
	if !ok {
		return errorf("The lhs of the assignment expression expects a reference type found %s in %s", str(lhs), show(e))
	}

	rhs := Expr(e.Value, scope)
	if ast.IsError(rhs) {
		return rhs
	}

	if ast.TypeEqual(rhs, ref.Inner) {
		return rhs
	}

	return errorf("The inner type of the reference type is %s the rhs type is %s in %s", str(ref.Inner), str(rhs), show(e))
}
