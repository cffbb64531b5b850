package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/errors"
	"github.com/pontaoski/typelang/lexer"
	"github.com/pontaoski/typelang/types"
)

type Parser struct {
	l *lexer.Lexer
}

func NewParser(l *lexer.Lexer) Parser {
	return Parser{l}
}

func Parse(r io.Reader, filename string) (*ast.Program, error) {
	p := NewParser(lexer.NewLexer(r, filename))
	return p.Parse()
}

func ParseString(src, filename string) (*ast.Program, error) {
	return Parse(strings.NewReader(src), filename)
}

// Parse reads any number of defines followed by at most one body
// expression. A program without a body gets unit.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				prog = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	prog = &ast.Program{}
	for !p.l.PeekIs(types.EOF) {
		if prog.Body != nil {
			tok, _ := p.l.Peek()
			panic(errors.TrailingExpression{Location: tok.Location})
		}

		if !p.l.PeekIs(types.LPAREN) {
			prog.Body = p.parseExpression()
			continue
		}

		open, _ := p.l.Lex()
		if p.peekKeyword("define") {
			p.l.Lex()
			prog.Decls = append(prog.Decls, p.parseDefine())
			continue
		}
		prog.Body = p.parseForm(open)
	}

	if prog.Body == nil {
		prog.Body = ast.Unit{}
	}
	return prog, nil
}

func (p *Parser) peekKeyword(name string) bool {
	tok, lit := p.l.Peek()
	return tok.Kind == types.IDENT && lit == name
}

// parseDefine should be called when the parser is past "(define".
func (p *Parser) parseDefine() ast.Define {
	_, name := p.l.LexExpecting(types.IDENT)
	p.l.LexExpecting(types.COLON)
	kind := p.parseType()
	value := p.parseExpression()
	p.l.LexExpecting(types.RPAREN)

	return ast.Define{Name: name, Kind: kind, Value: value}
}

func (p *Parser) parseExpression() ast.Expression {
	tok, lit := p.l.LexExpecting(types.LPAREN, types.NUMBER, types.STRING, types.BOOL, types.IDENT)

	switch tok.Kind {
	case types.NUMBER:
		parsed, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			panic(errors.MalformedNumber{Literal: lit, Location: tok.Location})
		}
		return ast.Num(parsed)
	case types.STRING:
		return ast.Str(lit)
	case types.BOOL:
		return ast.Bool(lit == "#t")
	case types.IDENT:
		if lit == "unit" {
			return ast.Unit{}
		}
		return ast.Var(lit)
	case types.LPAREN:
		return p.parseForm(tok)
	}

	panic("unhandled")
}

// parseOperands reads expressions up to and including the closing paren.
func (p *Parser) parseOperands() []ast.Expression {
	var operands []ast.Expression
	for !p.l.PeekIs(types.RPAREN) {
		operands = append(operands, p.parseExpression())
	}
	p.l.LexExpecting(types.RPAREN)

	return operands
}

// fixed reads exactly n operands. A wrong count is not a syntax error; it
// becomes an error node so that checking reports it.
func (p *Parser) fixed(head string, n int) ([]ast.Expression, ast.Expression) {
	operands := p.parseOperands()
	if len(operands) == n {
		return operands, nil
	}

	noun := "operands"
	if n == 1 {
		noun = "operand"
	}
	return nil, ast.Error{Message: fmt.Sprintf("%s expects %d %s, found %d", head, n, noun, len(operands))}
}

var arithOps = map[string]ast.ArithOp{
	"+": ast.Add,
	"-": ast.Sub,
	"*": ast.Mul,
	"/": ast.Div,
}

var keywords = map[string]bool{
	"define": true, "let": true, "letrec": true, "lambda": true, "if": true,
	"=": true, "==": true, "car": true, "cdr": true, "cons": true, "list": true,
	"null?": true, "ref": true, "deref": true, "set!": true, "free": true,
	"read": true, "eval": true, "error": true,
}

func isKeyword(name string) bool {
	if _, ok := arithOps[name]; ok {
		return true
	}
	if _, ok := ast.PredicateNamed(name); ok {
		return true
	}
	return keywords[name]
}

// parseForm should be called when the parser is past an opening paren.
func (p *Parser) parseForm(open types.Token) ast.Expression {
	tok, lit := p.l.Peek()

	switch {
	case tok.Kind == types.LANGLE:
		p.l.Lex()
		return p.parseCompare(ast.Less, lit)
	case tok.Kind == types.RANGLE:
		p.l.Lex()
		return p.parseCompare(ast.Greater, lit)
	case tok.Kind == types.IDENT && isKeyword(lit):
		p.l.Lex()
		return p.parseKeyword(open, lit)
	}

	operator := p.parseExpression()
	return ast.Call{
		Operator: operator,
		Operands: p.parseOperands(),
	}
}

func (p *Parser) parseCompare(op ast.CompareOp, head string) ast.Expression {
	args, bad := p.fixed(head, 2)
	if bad != nil {
		return bad
	}
	return ast.Compare{Op: op, Left: args[0], Right: args[1]}
}

func (p *Parser) parseUnary(head string, build func(ast.Expression) ast.Expression) ast.Expression {
	args, bad := p.fixed(head, 1)
	if bad != nil {
		return bad
	}
	return build(args[0])
}

func (p *Parser) parseKeyword(open types.Token, head string) ast.Expression {
	if op, ok := arithOps[head]; ok {
		operands := p.parseOperands()
		if len(operands) == 0 {
			return ast.Error{Message: fmt.Sprintf("%s expects at least one operand", head)}
		}
		return ast.Arith{Op: op, Operands: operands}
	}

	if kind, ok := ast.PredicateNamed(head); ok {
		return p.parseUnary(head, func(e ast.Expression) ast.Expression {
			return ast.Predicate{Kind: kind, Arg: e}
		})
	}

	switch head {
	case "define":
		panic(errors.MisplacedDefine{Location: open.Location})
	case "=", "==":
		return p.parseCompare(ast.Equal, head)
	case "let":
		bindings, body := p.parseBindings()
		return ast.Let{Bindings: bindings, Body: body}
	case "letrec":
		bindings, body := p.parseBindings()
		return ast.Letrec{Bindings: bindings, Body: body}
	case "lambda":
		return p.parseLambda()
	case "if":
		args, bad := p.fixed(head, 3)
		if bad != nil {
			return bad
		}
		return ast.If{Condition: args[0], Then: args[1], Else: args[2]}
	case "car":
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Car{Arg: e} })
	case "cdr":
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Cdr{Arg: e} })
	case "null?":
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Null{Arg: e} })
	case "deref":
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Deref{Ref: e} })
	case "free":
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Free{Ref: e} })
	case "read":
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Read{File: e} })
	case "eval":
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Eval{Code: e} })
	case "cons":
		args, bad := p.fixed(head, 2)
		if bad != nil {
			return bad
		}
		return ast.Cons{First: args[0], Second: args[1]}
	case "set!":
		args, bad := p.fixed(head, 2)
		if bad != nil {
			return bad
		}
		return ast.Assign{Ref: args[0], Value: args[1]}
	case "list":
		p.l.LexExpecting(types.COLON)
		kind := p.parseType()
		return ast.List{Element: kind, Elements: p.parseOperands()}
	case "ref":
		p.l.LexExpecting(types.COLON)
		kind := p.parseType()
		return p.parseUnary(head, func(e ast.Expression) ast.Expression { return ast.Ref{Kind: kind, Value: e} })
	case "error":
		_, msg := p.l.LexExpecting(types.STRING)
		p.l.LexExpecting(types.RPAREN)
		return ast.Error{Message: msg}
	}

	panic("unhandled")
}

// parseBindings should be called when the parser is past "(let" or
// "(letrec". It consumes the body and the closing paren too.
func (p *Parser) parseBindings() ([]ast.Binding, ast.Expression) {
	var bindings []ast.Binding
	seen := map[string]bool{}

	p.l.LexExpecting(types.LPAREN)
	for !p.l.PeekIs(types.RPAREN) {
		p.l.LexExpecting(types.LPAREN)
		tok, name := p.l.LexExpecting(types.IDENT)
		if seen[name] {
			panic(errors.DuplicateName{Name: name, Location: tok.Location})
		}
		seen[name] = true

		p.l.LexExpecting(types.COLON)
		kind := p.parseType()
		value := p.parseExpression()
		p.l.LexExpecting(types.RPAREN)

		bindings = append(bindings, ast.Binding{Name: name, Kind: kind, Value: value})
	}
	p.l.LexExpecting(types.RPAREN)

	body := p.parseExpression()
	p.l.LexExpecting(types.RPAREN)

	return bindings, body
}

func (p *Parser) parseLambda() ast.Expression {
	lambda := ast.Lambda{Formals: []string{}, Types: []ast.Type{}}
	seen := map[string]bool{}

	p.l.LexExpecting(types.LPAREN)
	for !p.l.PeekIs(types.RPAREN) {
		tok, name := p.l.LexExpecting(types.IDENT)
		if seen[name] {
			panic(errors.DuplicateName{Name: name, Location: tok.Location})
		}
		seen[name] = true

		p.l.LexExpecting(types.COLON)
		lambda.Formals = append(lambda.Formals, name)
		lambda.Types = append(lambda.Types, p.parseType())
	}
	p.l.LexExpecting(types.RPAREN)

	lambda.Body = p.parseExpression()
	p.l.LexExpecting(types.RPAREN)

	return lambda
}

func (p *Parser) parseType() ast.Type {
	tok, lit := p.l.LexExpecting(types.IDENT, types.LPAREN)

	if tok.Kind == types.IDENT {
		switch lit {
		case "num":
			return ast.NumT{}
		case "bool":
			return ast.BoolT{}
		case "string":
			return ast.StringT{}
		case "unit":
			return ast.UnitT{}
		case "Ref":
			return ast.RefT{Inner: p.parseType()}
		case "List":
			p.l.LexExpecting(types.LANGLE)
			elem := p.parseType()
			p.l.LexExpecting(types.RANGLE)
			return ast.ListT{Element: elem}
		}
		panic(errors.UnknownType{Name: lit, Location: tok.Location})
	}

	// either (T , U) or (T* -> R)
	fn := ast.FuncT{Arguments: []ast.Type{}}
	if !p.l.PeekIs(types.ARROW) {
		first := p.parseType()
		if p.l.PeekIs(types.COMMA) {
			p.l.LexExpecting(types.COMMA)
			second := p.parseType()
			p.l.LexExpecting(types.RPAREN)
			return ast.PairT{First: first, Second: second}
		}

		fn.Arguments = append(fn.Arguments, first)
		for !p.l.PeekIs(types.ARROW) {
			fn.Arguments = append(fn.Arguments, p.parseType())
		}
	}
	p.l.LexExpecting(types.ARROW)
	fn.Returns = p.parseType()
	p.l.LexExpecting(types.RPAREN)

	return fn
}
