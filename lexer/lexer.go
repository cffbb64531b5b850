package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pontaoski/typelang/errors"
	"github.com/pontaoski/typelang/types"
)

type Lexer struct {
	pos          types.Position
	reader       *bufio.Reader
	peeked       *types.Token
	peekedString string
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// Pos is the position of the last rune consumed.
func (l *Lexer) Pos() types.Position {
	return l.pos
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) next() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}

	if r == '\n' {
		l.newline()
	} else {
		l.pos.Column++
	}

	return r, true
}

// peekRune never crosses a line, so it leaves the position alone.
func (l *Lexer) peekRune() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	return r, true
}

func (l *Lexer) kinded(t types.TokenKind) types.Token {
	return types.Token{
		Location: types.SingleCharSpan(l.pos),
		Kind:     t,
	}
}

func (l *Lexer) spanned(t types.TokenKind, from types.Position) types.Token {
	return types.Token{
		Location: types.Span{From: from, To: l.pos},
		Kind:     t,
	}
}

func symbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("+-*/!?=_%&$^~.", r)
}

func (l *Lexer) lexSymbol(first rune) (types.Token, string) {
	from := l.pos
	var lit strings.Builder
	lit.WriteRune(first)

	for {
		r, ok := l.peekRune()
		if !ok || !symbolChar(r) {
			return l.spanned(types.IDENT, from), lit.String()
		}
		l.next()
		lit.WriteRune(r)
	}
}

func (l *Lexer) lexNumber(first rune) (types.Token, string) {
	from := l.pos
	var lit strings.Builder
	lit.WriteRune(first)

	for {
		r, ok := l.peekRune()
		if !ok || !(unicode.IsDigit(r) || r == '.' || unicode.IsLetter(r)) {
			return l.spanned(types.NUMBER, from), lit.String()
		}
		l.next()
		lit.WriteRune(r)
	}
}

func (l *Lexer) lexString() (types.Token, string) {
	from := l.pos
	var lit strings.Builder

	for {
		r, ok := l.next()
		if !ok {
			panic(errors.UnterminatedString{Location: types.Span{From: from, To: l.pos}})
		}

		switch r {
		case '"':
			return l.spanned(types.STRING, from), lit.String()
		case '\\':
			esc, ok := l.next()
			if !ok {
				panic(errors.UnterminatedString{Location: types.Span{From: from, To: l.pos}})
			}
			switch esc {
			case 'n':
				lit.WriteRune('\n')
			case 't':
				lit.WriteRune('\t')
			default:
				lit.WriteRune(esc)
			}
		default:
			lit.WriteRune(r)
		}
	}
}

func (l *Lexer) skipComment() {
	for {
		r, ok := l.next()
		if !ok || r == '\n' {
			return
		}
	}
}

func (l *Lexer) Peek() (types.Token, string) {
	if l.peeked != nil {
		return *l.peeked, l.peekedString
	}

	tok, str := l.Lex()
	l.peeked = &tok
	l.peekedString = str

	return tok, str
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token, _ := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

func (l *Lexer) LexExpecting(k ...types.TokenKind) (types.Token, string) {
	token, lit := l.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token, lit
		}
	}

	if len(k) == 1 {
		panic(errors.ExpectedKindGotKind{
			Expected: k[0],
			Got:      token.Kind,
			Location: token.Location,
		})
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token.Kind,
		Location: token.Location,
	})
}

func (l *Lexer) Lex() (types.Token, string) {
	if l.peeked != nil {
		tok, str := *l.peeked, l.peekedString
		l.peeked = nil
		return tok, str
	}

	punctuation := map[rune]types.TokenKind{
		'(': types.LPAREN,
		')': types.RPAREN,
		':': types.COLON,
		',': types.COMMA,
		'<': types.LANGLE,
		'>': types.RANGLE,
	}

	for {
		r, ok := l.next()
		if !ok {
			return l.kinded(types.EOF), ""
		}

		if kind, ok := punctuation[r]; ok {
			return l.kinded(kind), string(r)
		}

		switch {
		case r == ';':
			l.skipComment()
			continue
		case unicode.IsSpace(r):
			continue
		case r == '"':
			return l.lexString()
		case r == '#':
			from := l.pos
			b, ok := l.next()
			if !ok || (b != 't' && b != 'f') {
				panic(errors.UnexpectedCharacter{Char: '#', Location: types.SingleCharSpan(from)})
			}
			return l.spanned(types.BOOL, from), "#" + string(b)
		case r == '-':
			n, ok := l.peekRune()
			if ok && n == '>' {
				from := l.pos
				l.next()
				return l.spanned(types.ARROW, from), "->"
			}
			if ok && unicode.IsDigit(n) {
				return l.lexNumber(r)
			}
			return l.lexSymbol(r)
		case unicode.IsDigit(r):
			return l.lexNumber(r)
		case symbolChar(r):
			return l.lexSymbol(r)
		}

		panic(errors.UnexpectedCharacter{Char: r, Location: types.SingleCharSpan(l.pos)})
	}
}

type testToken struct {
	t types.Token
	s string
}

func (l *Lexer) lexToEOF() (ret []testToken) {
	t, s := l.Lex()
	for t.Kind != types.EOF {
		ret = append(ret, testToken{
			t: t,
			s: s,
		})
		t, s = l.Lex()
	}
	return
}
