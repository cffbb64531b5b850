package ast

//go:generate sh -c "cd ../tool && go run . ../ast/sumtypes.adt ../ast/sumtypes_gen.go ast"

type NumT struct{}
type BoolT struct{}
type StringT struct{}
type UnitT struct{}

// ErrorT is the result of every failed static check. It is never
// written by a user; it only flows upward out of the checker.
type ErrorT struct {
	Message string
}

type FuncT struct {
	Arguments []Type
	Returns   Type
}

type PairT struct {
	First  Type
	Second Type
}

type ListT struct {
	Element Type
}

type RefT struct {
	Inner Type
}

type Unit struct{}
type Num float64
type Bool bool
type Str string
type Var string

type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

func (o ArithOp) String() string {
	return [...]string{"+", "-", "*", "/"}[o]
}

type Arith struct {
	Op       ArithOp
	Operands []Expression
}

type Binding struct {
	Name  string
	Kind  Type
	Value Expression
}

type Let struct {
	Bindings []Binding
	Body     Expression
}

type Letrec struct {
	Bindings []Binding
	Body     Expression
}

// Lambda keeps names and types apart; the checker rejects a lambda whose
// two lists differ in length.
type Lambda struct {
	Formals []string
	Types   []Type
	Body    Expression
}

type Call struct {
	Operator Expression
	Operands []Expression
}

type If struct {
	Condition Expression
	Then      Expression
	Else      Expression
}

type CompareOp int

const (
	Less CompareOp = iota
	Equal
	Greater
)

func (o CompareOp) String() string {
	return [...]string{"<", "=", ">"}[o]
}

type Compare struct {
	Op    CompareOp
	Left  Expression
	Right Expression
}

type Car struct {
	Arg Expression
}

type Cdr struct {
	Arg Expression
}

type Cons struct {
	First  Expression
	Second Expression
}

type List struct {
	Element  Type
	Elements []Expression
}

// Null is (null? e): statically restricted to lists.
type Null struct {
	Arg Expression
}

type PredicateKind int

const (
	IsBoolean PredicateKind = iota
	IsNumber
	IsString
	IsProcedure
	IsList
	IsPair
	IsUnit
	IsNull
	IsRef
)

var predicateNames = [...]string{
	IsBoolean:   "boolean?",
	IsNumber:    "number?",
	IsString:    "string?",
	IsProcedure: "procedure?",
	IsList:      "list?",
	IsPair:      "pair?",
	IsUnit:      "unit?",
	IsNull:      "nil?",
	IsRef:       "ref?",
}

func (k PredicateKind) String() string {
	return predicateNames[k]
}

// PredicateNamed maps the surface name of a predicate form to its kind.
func PredicateNamed(name string) (PredicateKind, bool) {
	for k, n := range predicateNames {
		if n == name {
			return PredicateKind(k), true
		}
	}
	return 0, false
}

// Predicate is one of the runtime variant tests. Statically it only
// requires a well-typed operand.
type Predicate struct {
	Kind PredicateKind
	Arg  Expression
}

type Ref struct {
	Kind  Type
	Value Expression
}

type Deref struct {
	Ref Expression
}

type Assign struct {
	Ref   Expression
	Value Expression
}

type Free struct {
	Ref Expression
}

type Read struct {
	File Expression
}

type Eval struct {
	Code Expression
}

// Error marks a malformed form found by the parser.
type Error struct {
	Message string
}

type Define struct {
	Name  string
	Kind  Type
	Value Expression
}

type Program struct {
	Decls []Define
	Body  Expression
}
