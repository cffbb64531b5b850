// Package evaluator runs checked programs. Failures are values.DynamicError
// results that travel back up unchanged; nothing here panics on user input.
package evaluator

import (
	"fmt"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/env"
	"github.com/pontaoski/typelang/store"
	"github.com/pontaoski/typelang/values"
)

type Scope = env.Env[values.Value]

type Heap = store.Store[values.Value]

// Host is what read and eval call back into.
type Host interface {
	// Load returns the source text found at path.
	Load(path string) (string, error)
	// Eval runs code as a fresh program against the global environment.
	Eval(code string) values.Value
}

type Evaluator struct {
	heap *Heap
	host Host
}

// New makes an evaluator over heap. host may be nil, in which case read
// and eval fail dynamically.
func New(heap *Heap, host Host) *Evaluator {
	return &Evaluator{heap: heap, host: host}
}

func errorf(format string, args ...interface{}) values.DynamicError {
	return values.DynamicError{Message: fmt.Sprintf(format, args...)}
}

func show(e ast.Expression) string {
	return ast.ExprString(e)
}

// Evaluate runs p's defines in order and then its body. The returned scope
// extends globals with every define that evaluated.
func (ev *Evaluator) Evaluate(p *ast.Program, globals *Scope) (values.Value, *Scope) {
	scope := globals

	for _, d := range p.Decls {
		v := ev.Expr(d.Value, scope)
		if values.IsError(v) {
			return v, scope
		}
		scope = scope.Extend(d.Name, v)
	}

	if p.Body == nil {
		return values.UnitVal{}, scope
	}
	return ev.Expr(p.Body, scope), scope
}

func (ev *Evaluator) Expr(e ast.Expression, scope *Scope) values.Value {
	switch expr := e.(type) {
	case ast.Unit:
		return values.UnitVal{}
	case ast.Num:
		return values.NumVal(expr)
	case ast.Str:
		return values.StringVal(expr)
	case ast.Bool:
		return values.BoolVal(expr)
	case ast.Arith:
		return ev.arith(expr, scope)
	case ast.Var:
		v, err := scope.Lookup(string(expr))
		if err != nil {
			return errorf("%s in %s", err, show(expr))
		}
		return v
	case ast.Let:
		return ev.let(expr, scope)
	case ast.Letrec:
		return ev.letrec(expr, scope)
	case ast.Lambda:
		return values.FunVal{Env: scope, Formals: expr.Formals, Body: expr.Body}
	case ast.Call:
		return ev.call(expr, scope)
	case ast.If:
		cond := ev.Expr(expr.Condition, scope)
		if values.IsError(cond) {
			return cond
		}
		b, ok := cond.(values.BoolVal)
		if !ok {
			return errorf("The condition evaluated to %s, not a boolean, in %s", values.Describe(cond), show(expr))
		}
		if b {
			return ev.Expr(expr.Then, scope)
		}
		return ev.Expr(expr.Else, scope)
	case ast.Compare:
		return ev.compare(expr, scope)
	case ast.Car:
		return ev.carCdr(expr, expr.Arg, true, scope)
	case ast.Cdr:
		return ev.carCdr(expr, expr.Arg, false, scope)
	case ast.Cons:
		first := ev.Expr(expr.First, scope)
		if values.IsError(first) {
			return first
		}
		second := ev.Expr(expr.Second, scope)
		if values.IsError(second) {
			return second
		}
		return values.PairVal{First: first, Second: second}
	case ast.List:
		items := make([]values.Value, 0, len(expr.Elements))
		for _, elem := range expr.Elements {
			v := ev.Expr(elem, scope)
			if values.IsError(v) {
				return v
			}
			items = append(items, v)
		}
		return values.FromSlice(items)
	case ast.Null:
		v := ev.Expr(expr.Arg, scope)
		if values.IsError(v) {
			return v
		}
		switch v.(type) {
		case values.Null:
			return values.BoolVal(true)
		case values.PairVal:
			return values.BoolVal(false)
		}
		return errorf("null? expects a list, found %s in %s", values.Describe(v), show(expr))
	case ast.Predicate:
		v := ev.Expr(expr.Arg, scope)
		if values.IsError(v) {
			return v
		}
		return values.BoolVal(is(expr.Kind, v))
	case ast.Ref:
		v := ev.Expr(expr.Value, scope)
		if values.IsError(v) {
			return v
		}
		return values.RefVal{Loc: ev.heap.Allocate(v)}
	case ast.Deref:
		ref, bad := ev.ref(expr.Ref, expr, scope)
		if bad != nil {
			return bad
		}
		v, err := ev.heap.Read(ref.Loc)
		if err != nil {
			return errorf("%s in %s", err, show(expr))
		}
		return v
	case ast.Assign:
		ref, bad := ev.ref(expr.Ref, expr, scope)
		if bad != nil {
			return bad
		}
		v := ev.Expr(expr.Value, scope)
		if values.IsError(v) {
			return v
		}
		if err := ev.heap.Write(ref.Loc, v); err != nil {
			return errorf("%s in %s", err, show(expr))
		}
		return v
	case ast.Free:
		ref, bad := ev.ref(expr.Ref, expr, scope)
		if bad != nil {
			return bad
		}
		if err := ev.heap.Free(ref.Loc); err != nil {
			return errorf("%s in %s", err, show(expr))
		}
		return values.UnitVal{}
	case ast.Read:
		return ev.read(expr, scope)
	case ast.Eval:
		return ev.eval(expr, scope)
	case ast.Error:
		return values.DynamicError{Message: expr.Message}
	}

	panic(fmt.Sprintf("evaluator: unhandled expression %T", e))
}

func (ev *Evaluator) arith(e ast.Arith, scope *Scope) values.Value {
	var acc float64
	for i, operand := range e.Operands {
		v := ev.Expr(operand, scope)
		if values.IsError(v) {
			return v
		}
		n, ok := v.(values.NumVal)
		if !ok {
			return errorf("expected a number found %s in %s", values.Describe(v), show(e))
		}

		if i == 0 {
			acc = float64(n)
			continue
		}

		switch e.Op {
		case ast.Add:
			acc += float64(n)
		case ast.Sub:
			acc -= float64(n)
		case ast.Mul:
			acc *= float64(n)
		case ast.Div:
			if n == 0 {
				return errorf("Division by zero in %s", show(e))
			}
			acc /= float64(n)
		}
	}

	return values.NumVal(acc)
}

func (ev *Evaluator) let(e ast.Let, scope *Scope) values.Value {
	vals := make([]values.Value, len(e.Bindings))
	for i, b := range e.Bindings {
		v := ev.Expr(b.Value, scope)
		if values.IsError(v) {
			return v
		}
		vals[i] = v
	}

	inner := scope
	for i, b := range e.Bindings {
		inner = inner.Extend(b.Name, vals[i])
	}

	return ev.Expr(e.Body, inner)
}

// letrec binds every name to an empty cell first, so the closures built by
// the right-hand sides capture a scope in which all of them resolve once
// the cells are filled.
func (ev *Evaluator) letrec(e ast.Letrec, scope *Scope) values.Value {
	inner := scope
	cells := make([]*env.Cell[values.Value], len(e.Bindings))
	for i, b := range e.Bindings {
		inner, cells[i] = inner.Reserve(b.Name)
	}

	for i, b := range e.Bindings {
		v := ev.Expr(b.Value, inner)
		if values.IsError(v) {
			return v
		}
		cells[i].Set(v)
	}

	return ev.Expr(e.Body, inner)
}

func (ev *Evaluator) call(e ast.Call, scope *Scope) values.Value {
	op := ev.Expr(e.Operator, scope)
	if values.IsError(op) {
		return op
	}
	fn, ok := op.(values.FunVal)
	if !ok {
		return errorf("Operator evaluated to %s, not a function, in %s", values.Describe(op), show(e))
	}

	args := make([]values.Value, 0, len(e.Operands))
	for _, operand := range e.Operands {
		v := ev.Expr(operand, scope)
		if values.IsError(v) {
			return v
		}
		args = append(args, v)
	}

	if len(args) != len(fn.Formals) {
		return errorf("The number of arguments expected is %d found %d in %s", len(fn.Formals), len(args), show(e))
	}

	inner := fn.Env
	for i, name := range fn.Formals {
		inner = inner.Extend(name, args[i])
	}

	return ev.Expr(fn.Body, inner)
}

func (ev *Evaluator) compare(e ast.Compare, scope *Scope) values.Value {
	left := ev.Expr(e.Left, scope)
	if values.IsError(left) {
		return left
	}
	right := ev.Expr(e.Right, scope)
	if values.IsError(right) {
		return right
	}

	l, lok := left.(values.NumVal)
	r, rok := right.(values.NumVal)
	if !lok || !rok {
		return errorf("Comparison expects numbers, found %s and %s in %s", values.Describe(left), values.Describe(right), show(e))
	}

	switch e.Op {
	case ast.Less:
		return values.BoolVal(l < r)
	case ast.Equal:
		return values.BoolVal(l == r)
	case ast.Greater:
		return values.BoolVal(l > r)
	}

	panic("unhandled")
}

func (ev *Evaluator) carCdr(e, arg ast.Expression, first bool, scope *Scope) values.Value {
	v := ev.Expr(arg, scope)
	if values.IsError(v) {
		return v
	}

	switch pair := v.(type) {
	case values.PairVal:
		if first {
			return pair.First
		}
		return pair.Second
	case values.Null:
		return errorf("%s of the empty list", show(e))
	}

	return errorf("Expected a pair found %s in %s", values.Describe(v), show(e))
}

func (ev *Evaluator) ref(arg, e ast.Expression, scope *Scope) (values.RefVal, values.Value) {
	v := ev.Expr(arg, scope)
	if values.IsError(v) {
		return values.RefVal{}, v
	}
	ref, ok := v.(values.RefVal)
	if !ok {
		return values.RefVal{}, errorf("Expected a reference found %s in %s", values.Describe(v), show(e))
	}
	return ref, nil
}

func (ev *Evaluator) text(arg, e ast.Expression, scope *Scope) (string, values.Value) {
	v := ev.Expr(arg, scope)
	if values.IsError(v) {
		return "", v
	}
	s, ok := v.(values.StringVal)
	if !ok {
		return "", errorf("Expected a string found %s in %s", values.Describe(v), show(e))
	}
	if ev.host == nil {
		return "", errorf("Nothing to load from in %s", show(e))
	}
	return string(s), nil
}

func (ev *Evaluator) read(e ast.Read, scope *Scope) values.Value {
	path, bad := ev.text(e.File, e, scope)
	if bad != nil {
		return bad
	}

	src, err := ev.host.Load(path)
	if err != nil {
		return errorf("Could not read %s: %s", path, err)
	}
	return values.StringVal(src)
}

func (ev *Evaluator) eval(e ast.Eval, scope *Scope) values.Value {
	code, bad := ev.text(e.Code, e, scope)
	if bad != nil {
		return bad
	}
	return ev.host.Eval(code)
}

func is(kind ast.PredicateKind, v values.Value) bool {
	switch kind {
	case ast.IsBoolean:
		_, ok := v.(values.BoolVal)
		return ok
	case ast.IsNumber:
		_, ok := v.(values.NumVal)
		return ok
	case ast.IsString:
		_, ok := v.(values.StringVal)
		return ok
	case ast.IsProcedure:
		_, ok := v.(values.FunVal)
		return ok
	case ast.IsList:
		_, ok := values.ToSlice(v)
		return ok
	case ast.IsPair:
		_, ok := v.(values.PairVal)
		return ok
	case ast.IsUnit:
		_, ok := v.(values.UnitVal)
		return ok
	case ast.IsNull:
		_, ok := v.(values.Null)
		return ok
	case ast.IsRef:
		_, ok := v.(values.RefVal)
		return ok
	}

	panic("unhandled")
}
