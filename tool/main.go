package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

// TCase is one variant. Without "of" the variant type is written by hand
// and only gets its marker method here.
type TCase struct {
	Name string `@Ident`
	Kind string `("of" (@Ident | @String | @RawString))?`
}

// Declaration is either a plain alias or a sum type. A sum type may embed
// other interfaces, qualified ones as pkg.Name.
type Declaration struct {
	Name   string   `"type" @Ident`
	Embeds []string `("embeds" @(Ident ("." Ident)?) ("," @(Ident ("." Ident)?))*)? "="`
	Plain  *string  `(  (@Ident | @String | @RawString)`
	Many   *[]TCase ` | ("|" (@@))*)`
	I      struct{} `";"`
}

func embedded(name string) Code {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return Qual(name[:i], name[i+1:])
	}
	return Id(name)
}

func (t *TypeDecls) IsSumType(name string) bool {
	for _, decls := range t.Declarations {
		if decls.Name == name && decls.Many != nil {
			return true
		}
	}
	return false
}

func GenerateDecls(pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtgen. DO NOT EDIT.")

	for _, decl := range t.Declarations {

		if decl.Plain != nil {
			f.Type().Id(decl.Name).Id(*decl.Plain)
		} else if decl.Many != nil {
			methods := []Code{Id("is_" + decl.Name).Params()}
			for _, embed := range decl.Embeds {
				methods = append(methods, embedded(embed))
			}
			f.Type().Id(decl.Name).Interface(methods...)

			for _, it := range *decl.Many {
				switch {
				case it.Kind == "":
				case t.IsSumType(it.Kind):
					f.Type().Id(it.Name).Struct(Id(it.Kind))
				default:
					f.Type().Id(it.Name).Id(it.Kind)
				}

				f.Func().Params(Id("v").Id(it.Name)).Id("is_" + decl.Name).Params().Block()
			}
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtgen <in.adt> <out.go> <package>")
		os.Exit(2)
	}

	parser := participle.MustBuild(&TypeDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	ast := TypeDecls{}
	err = parser.ParseBytes(inData, &ast)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(pkgname, &ast)), 0644)
	if err != nil {
		panic(err)
	}
}
