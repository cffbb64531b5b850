package errors

import (
	"fmt"

	"github.com/pontaoski/typelang/types"
)

type ExpectedKindGotKind struct {
	Expected types.TokenKind
	Got      types.TokenKind
	Location types.Span
}

func (e ExpectedKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected a %s. %s", e.Got, e.Expected, e.Location)
}

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected one of %s. %s", e.Got, e.Expected, e.Location)
}

type UnexpectedCharacter struct {
	Char     rune
	Location types.Span
}

func (e UnexpectedCharacter) Error() string {
	return fmt.Sprintf("unexpected character %q. %s", e.Char, e.Location)
}

type UnterminatedString struct {
	Location types.Span
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("string literal is not terminated. %s", e.Location)
}

type MalformedNumber struct {
	Literal  string
	Location types.Span
}

func (e MalformedNumber) Error() string {
	return fmt.Sprintf("malformed number %s. %s", e.Literal, e.Location)
}

type UnknownType struct {
	Name     string
	Location types.Span
}

func (e UnknownType) Error() string {
	return fmt.Sprintf("unknown type %s. %s", e.Name, e.Location)
}

type DuplicateName struct {
	Name     string
	Location types.Span
}

func (e DuplicateName) Error() string {
	return fmt.Sprintf("name %s bound more than once. %s", e.Name, e.Location)
}

// MisplacedDefine is raised for a define nested in an expression.
type MisplacedDefine struct {
	Location types.Span
}

func (e MisplacedDefine) Error() string {
	return fmt.Sprintf("define is only allowed before the body of a program. %s", e.Location)
}

type TrailingExpression struct {
	Location types.Span
}

func (e TrailingExpression) Error() string {
	return fmt.Sprintf("a program has exactly one body expression. %s", e.Location)
}
