// Package repl reads programs a line at a time, runs each one once its
// parentheses balance and prints what it produced.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/lmorg/readline"
	"github.com/mattn/go-isatty"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/session"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/typelang", "repl")

const Banner = `typelang: type a program and press enter, e.g.
  ((lambda (x : num y : num z : num) (+ x (+ y z))) 1 2 3)
  (let ((x : num 2)) x)
  (car (list : num 1 2 8))
  (let ((a : Ref num (ref : num 2))) (set! a (deref a)))
Press Ctrl+D to exit.`

type Runner interface {
	Run(name, src string) (session.Result, error)
}

// Depth is how many parentheses in src are still open. Parentheses inside
// strings and comments do not count.
func Depth(src string) int {
	depth := 0
	inString, escaped, inComment := false, false, false

	for _, r := range src {
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
			}
		case inString:
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
		case r == ';':
			inComment = true
		case r == '"':
			inString = true
		case r == '(':
			depth++
		case r == ')':
			depth--
		}
	}

	return depth
}

// blank reports whether src holds nothing but whitespace and comments.
func blank(src string) bool {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, ";") {
			return false
		}
	}
	return true
}

type loop struct {
	runner Runner
	out    io.Writer
	buf    strings.Builder
	units  int
}

// feed adds one line and runs the buffer if it is complete.
func (l *loop) feed(line string) {
	l.buf.WriteString(line)
	l.buf.WriteString("\n")

	if Depth(l.buf.String()) > 0 {
		return
	}
	l.flush()
}

func (l *loop) pending() bool {
	return l.buf.Len() > 0
}

func (l *loop) flush() {
	src := l.buf.String()
	l.buf.Reset()

	if blank(src) {
		return
	}

	l.units++
	name := fmt.Sprintf("repl#%d", l.units)

	res, err := l.runner.Run(name, src)
	if err != nil {
		fmt.Fprintf(l.out, "Error: %s\n", tracerr.Unwrap(err))
		return
	}
	fmt.Fprintln(l.out, res)
}

// Run reads from in until it is exhausted. Whatever is left unbalanced at
// the end is run too, so that its syntax error gets reported.
func Run(r Runner, in io.Reader, out io.Writer) error {
	l := &loop{runner: r, out: out}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		l.feed(scanner.Text())
	}
	if l.pending() {
		l.flush()
	}

	if err := scanner.Err(); err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}

// lineSource is the part of a readline instance the loop needs.
type lineSource interface {
	SetPrompt(string)
	Readline() (string, error)
}

// interact reads from src until it fails. A unit still open at that point
// is run, so its syntax error gets reported.
func interact(r Runner, prompt string, src lineSource, out io.Writer) {
	l := &loop{runner: r, out: out}
	for {
		if l.pending() {
			src.SetPrompt(strings.Repeat(" ", len(prompt)))
		} else {
			src.SetPrompt(prompt)
		}

		line, err := src.Readline()
		if err != nil {
			plog.Debugf("leaving: %s", err)
			if l.pending() {
				l.flush()
			}
			return
		}

		l.feed(line)
	}
}

// Start runs an interactive loop with line editing when in is a terminal,
// and falls back to Run otherwise.
func Start(r Runner, prompt string, in *os.File, out io.Writer) error {
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		plog.Debugf("input is not a terminal, reading it plainly")
		return Run(r, in, out)
	}

	fmt.Fprintln(out, Banner)
	interact(r, prompt, readline.NewInstance(), out)
	return nil
}
