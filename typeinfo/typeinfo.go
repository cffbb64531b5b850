// Package typeinfo records the declared types of a program's defines in an
// LLVM IR module, as a constant string global, and reads them back.
package typeinfo

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
)

const GlobalName = "__typelang_types"

type Info struct {
	Definitions map[string]string `json:"definitions"`
	Body        string            `json:"body,omitempty"`
}

type MissingGlobal struct {
	File string
}

func (e MissingGlobal) Error() string {
	return fmt.Sprintf("%s has no %s global", e.File, GlobalName)
}

// FromProgram collects the declared types of p's defines. body is the type
// the checker gave p, if any.
func FromProgram(p *ast.Program, body ast.Type) Info {
	info := Info{Definitions: map[string]string{}}
	for _, d := range p.Decls {
		info.Definitions[d.Name] = ast.TypeString(d.Kind)
	}
	if body != nil {
		info.Body = ast.TypeString(body)
	}
	return info
}

// Names lists the defined names in order.
func (i Info) Names() []string {
	names := make([]string, 0, len(i.Definitions))
	for name := range i.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (i Info) Register(m *ir.Module) error {
	data, err := json.Marshal(i)
	if err != nil {
		return tracerr.Wrap(err)
	}

	g := m.NewGlobalDef(GlobalName, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
	return nil
}

func (i Info) Module(source string) (*ir.Module, error) {
	m := ir.NewModule()
	m.SourceFilename = source
	if err := i.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func Read(path string) (Info, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Info{}, tracerr.Wrap(err)
	}
	return Parse(path, string(data))
}

// Parse extracts the info from textual LLVM IR.
func Parse(name, content string) (Info, error) {
	m, err := asm.ParseString(name, content)
	if err != nil {
		return Info{}, tracerr.Wrap(err)
	}

	for _, g := range m.Globals {
		if g.Name() != GlobalName {
			continue
		}

		arr, ok := g.Init.(*constant.CharArray)
		if !ok {
			return Info{}, tracerr.Errorf("%s: %s is not a string", name, GlobalName)
		}

		data := arr.X
		if len(data) > 0 && data[len(data)-1] == 0 {
			data = data[:len(data)-1]
		}

		var info Info
		if err := json.Unmarshal(data, &info); err != nil {
			return Info{}, tracerr.Wrap(err)
		}
		return info, nil
	}

	return Info{}, tracerr.Wrap(MissingGlobal{File: name})
}
