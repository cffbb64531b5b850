package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle"
)

func TestGenerateDecls(t *testing.T) {
	src := `
		type Shape = | Circle | Square of Side ;
		type Side = float64 ;
	`

	decls := TypeDecls{}
	if err := participle.MustBuild(&TypeDecls{}).ParseString(src, &decls); err != nil {
		t.Fatal(err)
	}

	out := GenerateDecls("shapes", &decls)

	for _, want := range []string{
		"// Code generated by adtgen. DO NOT EDIT.",
		"type Shape interface",
		"func (v Circle) is_Shape() {}",
		"type Square Side",
		"func (v Square) is_Shape() {}",
		"type Side float64",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	if strings.Contains(out, "type Circle") {
		t.Errorf("a bare variant must not get a type declaration:\n%s", out)
	}
}

func TestGenerateEmbeds(t *testing.T) {
	src := `type Value embeds fmt.Stringer, Sized = | Box | Crate ;`

	decls := TypeDecls{}
	if err := participle.MustBuild(&TypeDecls{}).ParseString(src, &decls); err != nil {
		t.Fatal(err)
	}

	out := GenerateDecls("values", &decls)

	for _, want := range []string{
		`import "fmt"`,
		"is_Value()",
		"fmt.Stringer",
		"Sized",
		"func (v Box) is_Value() {}",
		"func (v Crate) is_Value() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}
