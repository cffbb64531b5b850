package repl

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pontaoski/typelang/reader"
	"github.com/pontaoski/typelang/session"
)

func TestDepth(t *testing.T) {
	cases := []struct {
		src      string
		expected int
	}{
		{"", 0},
		{"5", 0},
		{"(+ 1", 1},
		{"(let ((x : num 2))", 1},
		{"(let ((x : num 2)) x)", 0},
		{"(error \"(((\")", 0},
		{"(error \"\\\"(\")", 0},
		{"(+ 1 ; (((\n 2)", 0},
		{"())", -1},
	}

	for _, c := range cases {
		if got := Depth(c.src); got != c.expected {
			t.Errorf("%q: expected %d, got %d", c.src, c.expected, got)
		}
	}
}

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		"; a comment on its own",
		"(define x : num 2)",
		"(let ((y : num 3))",
		"  (* x y))",
		"",
		"(if #t 1 #f)",
		"(/ 1 0)",
		"(+ 1",
	}, "\n")

	var out bytes.Buffer
	s := session.New(reader.New(""))
	if err := Run(s, strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	expected := []string{
		" : unit",
		"6 : num",
		"Type error: The then and else expressions should have the same type, then has type num else has type bool in (if #t 1 #f)",
		"Error: Division by zero in (/ 1 0)",
	}
	if len(lines) != len(expected)+1 {
		t.Fatalf("expected %d lines, got %q", len(expected)+1, lines)
	}
	for i, line := range expected {
		if lines[i] != line {
			t.Errorf("line %d: expected %q, got %q", i, line, lines[i])
		}
	}
	if !strings.HasPrefix(lines[len(lines)-1], "Error: ") {
		t.Errorf("the unbalanced tail should report a syntax error, got %q", lines[len(lines)-1])
	}
}

type scriptedLines struct {
	lines   []string
	prompts []string
}

func (s *scriptedLines) SetPrompt(p string) {
	s.prompts = append(s.prompts, p)
}

func (s *scriptedLines) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestInteractFlushesOnExit(t *testing.T) {
	src := &scriptedLines{lines: []string{"(+ 1", "2)", "(let ((x : num 1))"}}

	var out bytes.Buffer
	interact(session.New(reader.New("")), "> ", src, &out)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
	if lines[0] != "3 : num" {
		t.Errorf("got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Error: ") {
		t.Errorf("the open unit left at exit should report a syntax error, got %q", lines[1])
	}

	expected := []string{"> ", "  ", "> ", "  "}
	if len(src.prompts) != len(expected) {
		t.Fatalf("got prompts %q", src.prompts)
	}
	for i, p := range expected {
		if src.prompts[i] != p {
			t.Errorf("prompt %d: expected %q, got %q", i, p, src.prompts[i])
		}
	}
}
