package ast

// TypeEqual reports structural equality: same variant, recursively equal
// components.
func TypeEqual(a, b Type) bool {
	switch x := a.(type) {
	case NumT:
		_, ok := b.(NumT)
		return ok
	case BoolT:
		_, ok := b.(BoolT)
		return ok
	case StringT:
		_, ok := b.(StringT)
		return ok
	case UnitT:
		_, ok := b.(UnitT)
		return ok
	case ErrorT:
		y, ok := b.(ErrorT)
		return ok && x.Message == y.Message
	case FuncT:
		y, ok := b.(FuncT)
		if !ok || len(x.Arguments) != len(y.Arguments) {
			return false
		}
		for i := range x.Arguments {
			if !TypeEqual(x.Arguments[i], y.Arguments[i]) {
				return false
			}
		}
		return TypeEqual(x.Returns, y.Returns)
	case PairT:
		y, ok := b.(PairT)
		return ok && TypeEqual(x.First, y.First) && TypeEqual(x.Second, y.Second)
	case ListT:
		y, ok := b.(ListT)
		return ok && TypeEqual(x.Element, y.Element)
	case RefT:
		y, ok := b.(RefT)
		return ok && TypeEqual(x.Inner, y.Inner)
	}

	return false
}

// Assignable reports whether a value of type actual may stand where
// expected is required. A unit actual is accepted anywhere.
func Assignable(expected, actual Type) bool {
	if _, ok := actual.(UnitT); ok {
		return true
	}
	return TypeEqual(expected, actual)
}

func IsError(t Type) bool {
	_, ok := t.(ErrorT)
	return ok
}
