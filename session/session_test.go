package session

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/reader"
	"github.com/pontaoski/typelang/values"
)

func run(t *testing.T, s *Session, src string) Result {
	t.Helper()

	res, err := s.Run("test", src)
	if err != nil {
		t.Fatalf("%q: %s", src, tracerr.Unwrap(err))
	}
	return res
}

func TestResultString(t *testing.T) {
	s := New(reader.New(""))

	cases := []struct {
		src      string
		expected string
	}{
		{"5", "5 : num"},
		{"(list : num 1 2 3)", "(1 2 3) : List<num>"},
		{"(if #t 1 #f)", "Type error: The then and else expressions should have the same type, then has type num else has type bool in (if #t 1 #f)"},
		{"(/ 1 0)", "Error: Division by zero in (/ 1 0)"},
		{"(lambda (x : num) x)", "(lambda (x) x) : (num -> num)"},
	}

	for _, c := range cases {
		if got := run(t, s, c.src).String(); got != c.expected {
			t.Errorf("%q: expected %q, got %q", c.src, c.expected, got)
		}
	}
}

func TestDefinesPersist(t *testing.T) {
	s := New(reader.New(""))

	run(t, s, "(define x : num 2)")
	run(t, s, "(define sq : (num -> num) (lambda (n : num) (* n n)))")

	res := run(t, s, "(sq x)")
	if res.Failed() || res.Value != values.NumVal(4) {
		t.Errorf("got %s", res)
	}

	names := s.Globals()
	if len(names) != 2 || names[0] != "sq" || names[1] != "x" {
		t.Errorf("got globals %v", names)
	}

	typ, v, err := s.Lookup("x")
	if err != nil || !ast.TypeEqual(typ, ast.NumT{}) || v != values.NumVal(2) {
		t.Errorf("got %s, %s, %v", repr.String(typ), repr.String(v), err)
	}
}

func TestFailuresDoNotCommit(t *testing.T) {
	s := New(reader.New(""))

	if res := run(t, s, "(define x : num #t)"); !res.Failed() {
		t.Errorf("expected a type error, got %s", res)
	}
	if res := run(t, s, "(define y : num (/ 1 0))"); !res.Failed() {
		t.Errorf("expected a dynamic error, got %s", res)
	}

	if len(s.Globals()) != 0 {
		t.Errorf("nothing should be defined, got %v", s.Globals())
	}
}

func TestCheckDoesNotCommit(t *testing.T) {
	s := New(reader.New(""))

	prog, err := reader.New("").Parse("test", "(define x : num 1) x")
	if err != nil {
		t.Fatal(tracerr.Unwrap(err))
	}

	if typ := s.Check(prog); !ast.TypeEqual(typ, ast.NumT{}) {
		t.Errorf("got %s", ast.TypeString(typ))
	}
	if len(s.Globals()) != 0 {
		t.Errorf("check must not define anything, got %v", s.Globals())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a := New(reader.New(""))
	b := New(reader.New(""))

	run(t, a, "(define x : num 1)")
	if res := run(t, b, "x"); !res.Failed() {
		t.Errorf("x leaked between sessions: %s", res)
	}
	if a.ID == b.ID {
		t.Error("sessions share an id")
	}
}

func TestEval(t *testing.T) {
	s := New(reader.New(""))

	res := run(t, s, "(eval \"(define z : num 9)\")")
	if res.Failed() {
		t.Fatalf("got %s", res)
	}

	res = run(t, s, "(+ z 1)")
	if res.Value != values.NumVal(10) {
		t.Errorf("expected z to be committed by eval, got %s", res)
	}

	res = run(t, s, "(eval \"(+ 1 #t)\")")
	dyn, ok := res.Value.(values.DynamicError)
	if !ok || !strings.Contains(dyn.Message, "expected num found bool") {
		t.Errorf("a type error inside eval becomes a dynamic error, got %s", res)
	}

	res = run(t, s, "(eval \"(+ 1\")")
	if !res.Failed() {
		t.Errorf("a syntax error inside eval fails, got %s", res)
	}
}

func TestNestedEvalCommitSurvives(t *testing.T) {
	s := New(reader.New(""))

	run(t, s, "(define a : num 1) (eval \"(define b : num 2)\")")

	for _, name := range []string{"a", "b"} {
		if _, _, err := s.Lookup(name); err != nil {
			t.Errorf("%s: %s", name, err)
		}
	}
}

func TestReadAndPrelude(t *testing.T) {
	dir, err := ioutil.TempDir("", "typelang")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	files := map[string]string{
		"base.tl":   "(define one : num 1)",
		"double.tl": "(define double : (num -> num) (lambda (n : num) (* 2 n)))",
		"expr.tl":   "(double one)",
		"broken.tl": "(define bad : num #f)",
	}
	for name, src := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}

	s := New(reader.New(dir))
	if err := s.Prelude([]string{"base", "double.tl"}); err != nil {
		t.Fatal(tracerr.Unwrap(err))
	}

	res := run(t, s, "(eval (read \"expr\"))")
	if res.Value != values.NumVal(2) {
		t.Errorf("got %s", res)
	}

	res = run(t, s, "(read \"nowhere\")")
	if !res.Failed() {
		t.Errorf("reading a missing file fails, got %s", res)
	}

	if err := s.Prelude([]string{"broken"}); err == nil {
		t.Error("a prelude with a type error should fail")
	}
}

func TestRefsShareOneHeap(t *testing.T) {
	s := New(reader.New(""))

	run(t, s, "(define r : Ref num (ref : num 1))")
	run(t, s, "(set! r 5)")

	if res := run(t, s, "(deref r)"); res.Value != values.NumVal(5) {
		t.Errorf("got %s", res)
	}

	run(t, s, "(free r)")
	if res := run(t, s, "(deref r)"); !res.Failed() {
		t.Errorf("expected use after free, got %s", res)
	}

	if live, allocated := s.Stats(); live != 0 || allocated != 1 {
		t.Errorf("got live=%d allocated=%d", live, allocated)
	}
}

func TestTypeErrorSkipsEvaluation(t *testing.T) {
	s := New(reader.New(""))

	res := run(t, s, "(let ((u : unit (eval \"(define q : num 1)\"))) (+ 1 #t))")
	if !ast.IsError(res.Type) || res.Value != nil {
		t.Fatalf("expected a type error and no value, got %s", res)
	}

	if _, _, err := s.Lookup("q"); err == nil {
		t.Error("the eval inside a program that failed to check must not run")
	}

	res = run(t, s, "(let ((r : Ref num (ref : num 1))) (+ (deref r) #f))")
	if !res.Failed() {
		t.Fatalf("expected a type error, got %s", res)
	}
	if _, allocated := s.Stats(); allocated != 0 {
		t.Errorf("no cell may be allocated, got %d", allocated)
	}
}
