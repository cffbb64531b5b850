package typeinfo

import (
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/parser"
)

func TestRoundTrip(t *testing.T) {
	prog, err := parser.ParseString(`
		(define x : num 1)
		(define pick : (bool -> List<string>) (lambda (b : bool) (list : string "a")))
		x
	`, "test")
	if err != nil {
		t.Fatal(tracerr.Unwrap(err))
	}

	info := FromProgram(prog, ast.NumT{})
	m, err := info.Module("test.tl")
	if err != nil {
		t.Fatal(err)
	}

	text := m.String()
	if !strings.Contains(text, "@"+GlobalName) {
		t.Fatalf("no global in\n%s", text)
	}

	back, err := Parse("test.ll", text)
	if err != nil {
		t.Fatal(tracerr.Unwrap(err))
	}

	expected := Info{
		Definitions: map[string]string{
			"x":    "num",
			"pick": "(bool -> List<string>)",
		},
		Body: "num",
	}
	if !reflect.DeepEqual(back, expected) {
		t.Errorf("expected %s, got %s", repr.String(expected), repr.String(back))
	}

	if names := back.Names(); len(names) != 2 || names[0] != "pick" || names[1] != "x" {
		t.Errorf("got %v", names)
	}
}

func TestMissingGlobal(t *testing.T) {
	_, err := Parse("empty.ll", "@other = constant [2 x i8] c\"a\\00\"\n")
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := tracerr.Unwrap(err).(MissingGlobal); !ok {
		t.Errorf("unexpected error %#v", tracerr.Unwrap(err))
	}
}
