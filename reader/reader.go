// Package reader turns file paths and source strings into programs.
package reader

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/parser"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/typelang", "reader")

// Extension is appended to paths given without one.
const Extension = ".tl"

type Reader struct {
	// Root is where relative paths are resolved from. Empty means the
	// working directory.
	Root string
}

func New(root string) *Reader {
	return &Reader{Root: root}
}

func (r *Reader) Resolve(path string) string {
	if filepath.Ext(path) == "" {
		path += Extension
	}
	if filepath.IsAbs(path) || r.Root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(r.Root, path)
}

// ReadSource returns the text of the file at path.
func (r *Reader) ReadSource(path string) (string, error) {
	resolved := r.Resolve(path)
	plog.Debugf("reading %s", resolved)

	data, err := ioutil.ReadFile(resolved)
	if err != nil {
		return "", tracerr.Wrap(err)
	}
	return string(data), nil
}

// Load returns the text of the file at path after making sure it parses.
func (r *Reader) Load(path string) (string, error) {
	src, err := r.ReadSource(path)
	if err != nil {
		return "", err
	}
	if _, err := r.Parse(r.Resolve(path), src); err != nil {
		return "", err
	}
	return src, nil
}

func (r *Reader) ReadFile(path string) (*ast.Program, error) {
	src, err := r.ReadSource(path)
	if err != nil {
		return nil, err
	}
	return r.Parse(r.Resolve(path), src)
}

func (r *Reader) Parse(name, src string) (*ast.Program, error) {
	prog, err := parser.Parse(strings.NewReader(src), name)
	if err != nil {
		plog.Debugf("%s does not parse: %s", name, tracerr.Unwrap(err))
		return nil, err
	}
	return prog, nil
}
