package reader

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/errors"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		root     string
		path     string
		expected string
	}{
		{"", "prog", "prog.tl"},
		{"", "prog.scm", "prog.scm"},
		{"lib", "prog.tl", filepath.Join("lib", "prog.tl")},
		{"lib", "/abs/prog.tl", "/abs/prog.tl"},
		{"lib", "nested/prog", filepath.Join("lib", "nested", "prog.tl")},
	}

	for _, c := range cases {
		if got := New(c.root).Resolve(c.path); got != c.expected {
			t.Errorf("%q in %q: expected %q, got %q", c.path, c.root, c.expected, got)
		}
	}
}

func TestReadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "typelang")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	good := "(define x : num 1) (+ x 1)"
	if err := ioutil.WriteFile(filepath.Join(dir, "good.tl"), []byte(good), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "bad.tl"), []byte("(+ 1"), 0644); err != nil {
		t.Fatal(err)
	}

	r := New(dir)

	prog, err := r.ReadFile("good")
	if err != nil {
		t.Fatal(tracerr.Unwrap(err))
	}
	if len(prog.Decls) != 1 || ast.ExprString(prog.Body) != "(+ x 1)" {
		t.Errorf("got %s", prog)
	}

	src, err := r.Load("good.tl")
	if err != nil || src != good {
		t.Errorf("expected the source back, got %q, %v", src, err)
	}

	if _, err := r.Load("bad"); err == nil {
		t.Error("a file that does not parse must not load")
	} else if _, ok := tracerr.Unwrap(err).(errors.ExpectedOneOfKindGotKind); !ok {
		t.Errorf("unexpected error %#v", tracerr.Unwrap(err))
	}

	if _, err := r.ReadSource("missing"); err == nil || !os.IsNotExist(tracerr.Unwrap(err)) {
		t.Errorf("expected a missing file error, got %v", err)
	}
}
