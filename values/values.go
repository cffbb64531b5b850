package values

//go:generate sh -c "cd ../tool && go run . ../values/sumtypes.adt ../values/sumtypes_gen.go values"

import (
	"strings"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/env"
	"github.com/pontaoski/typelang/store"
)

type NumVal float64

func (v NumVal) String() string {
	return ast.FormatNumber(float64(v))
}

type BoolVal bool

func (v BoolVal) String() string {
	if v {
		return "#t"
	}
	return "#f"
}

type StringVal string

func (v StringVal) String() string { return string(v) }

type UnitVal struct{}

func (v UnitVal) String() string { return "" }

// Null is the empty list.
type Null struct{}

func (v Null) String() string { return "()" }

// PairVal is a cons cell. A chain ending in Null prints as a flat list;
// any other pair prints its two halves side by side.
type PairVal struct {
	First  Value
	Second Value
}

func (v PairVal) String() string {
	items, ok := ToSlice(v)
	if !ok {
		return "(" + v.First.String() + " " + v.Second.String() + ")"
	}

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

type FunVal struct {
	Env     *env.Env[Value]
	Formals []string
	Body    ast.Expression
}

func (v FunVal) String() string {
	return "(lambda (" + strings.Join(v.Formals, " ") + ") " + ast.ExprString(v.Body) + ")"
}

type RefVal struct {
	Loc store.Location
}

func (v RefVal) String() string { return v.Loc.String() }

type DynamicError struct {
	Message string
}

func (v DynamicError) String() string { return v.Message }

func IsError(v Value) bool {
	_, ok := v.(DynamicError)
	return ok
}

// Describe renders v for error messages, where unit must not vanish.
func Describe(v Value) string {
	if _, ok := v.(UnitVal); ok {
		return "unit"
	}
	return v.String()
}

// FromSlice builds a proper list.
func FromSlice(items []Value) Value {
	var list Value = Null{}
	for i := len(items) - 1; i >= 0; i-- {
		list = PairVal{First: items[i], Second: list}
	}
	return list
}

// ToSlice flattens a proper list; ok is false for anything else.
func ToSlice(v Value) (items []Value, ok bool) {
	for {
		switch node := v.(type) {
		case Null:
			return items, true
		case PairVal:
			items = append(items, node.First)
			v = node.Second
		default:
			return nil, false
		}
	}
}
