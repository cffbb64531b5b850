// Package session holds the state one program load runs against: the
// global type and value environments built up by defines, and the heap
// behind every reference created along the way.
package session

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/google/uuid"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/checker"
	"github.com/pontaoski/typelang/env"
	"github.com/pontaoski/typelang/evaluator"
	"github.com/pontaoski/typelang/reader"
	"github.com/pontaoski/typelang/store"
	"github.com/pontaoski/typelang/values"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/typelang", "session")

type Session struct {
	ID string

	reader  *reader.Reader
	heap    *evaluator.Heap
	ev      *evaluator.Evaluator
	types   *checker.Scope
	globals *evaluator.Scope

	evals int
}

func New(r *reader.Reader) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		reader:  r,
		heap:    store.New[values.Value](),
		types:   env.Empty[ast.Type](),
		globals: env.Empty[values.Value](),
	}
	s.ev = evaluator.New(s.heap, s)

	plog.Debugf("session %s started", s.ID)
	return s
}

// Result is what running one program produced. Value is nil when the
// program failed to check.
type Result struct {
	Type  ast.Type
	Value values.Value
}

func (r Result) Failed() bool {
	return ast.IsError(r.Type) || (r.Value != nil && values.IsError(r.Value))
}

func (r Result) String() string {
	if ast.IsError(r.Type) {
		return "Type error: " + ast.TypeString(r.Type)
	}
	if r.Value == nil {
		return ast.TypeString(r.Type)
	}
	if values.IsError(r.Value) {
		return "Error: " + r.Value.String()
	}
	return fmt.Sprintf("%s : %s", r.Value, ast.TypeString(r.Type))
}

// Check types p against the session's globals without evaluating or
// committing anything.
func (s *Session) Check(p *ast.Program) ast.Type {
	t, _ := checker.Check(p, s.types)
	return t
}

// Execute checks p and, only if that succeeds, evaluates it. The defines
// of a program that evaluates without error become globals.
func (s *Session) Execute(p *ast.Program) Result {
	t, _ := checker.Check(p, s.types)
	if ast.IsError(t) {
		plog.Debugf("session %s: type error: %s", s.ID, ast.TypeString(t))
		return Result{Type: t}
	}

	v, scope := s.ev.Evaluate(p, s.globals)
	if values.IsError(v) {
		plog.Debugf("session %s: dynamic error: %s", s.ID, v)
		return Result{Type: t, Value: v}
	}

	s.commit(p, scope)

	live, allocated := s.heap.Stats()
	plog.Debugf("session %s: %d of %d cells live", s.ID, live, allocated)

	return Result{Type: t, Value: v}
}

// commit extends the current globals rather than replacing them with
// scope, so defines made by a nested eval while p ran stay visible.
func (s *Session) commit(p *ast.Program, scope *evaluator.Scope) {
	for _, d := range p.Decls {
		v, err := scope.Lookup(d.Name)
		if err != nil {
			panic(fmt.Sprintf("session: evaluated define %s is missing: %s", d.Name, err))
		}
		s.types = s.types.Extend(d.Name, d.Kind)
		s.globals = s.globals.Extend(d.Name, v)
		plog.Debugf("session %s: defined %s : %s", s.ID, d.Name, ast.TypeString(d.Kind))
	}
}

// Run parses src and executes it. The error is only for syntax errors;
// type and dynamic errors are in the result.
func (s *Session) Run(name, src string) (Result, error) {
	p, err := s.reader.Parse(name, src)
	if err != nil {
		return Result{}, err
	}
	return s.Execute(p), nil
}

func (s *Session) RunFile(path string) (Result, error) {
	p, err := s.reader.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return s.Execute(p), nil
}

// Prelude runs every file in paths, stopping at the first one that fails.
func (s *Session) Prelude(paths []string) error {
	for _, path := range paths {
		plog.Infof("loading prelude %s", path)

		res, err := s.RunFile(path)
		if err != nil {
			return err
		}
		if res.Failed() {
			return tracerr.Errorf("prelude %s: %s", path, res)
		}
	}
	return nil
}

// Globals lists the names defined so far, most recent first.
func (s *Session) Globals() []string {
	return s.types.Names()
}

// Lookup returns the type and value of a global.
func (s *Session) Lookup(name string) (ast.Type, values.Value, error) {
	t, err := s.types.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.globals.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	return t, v, nil
}

func (s *Session) Stats() (live, allocated int) {
	return s.heap.Stats()
}

// Load serves read.
func (s *Session) Load(path string) (string, error) {
	src, err := s.reader.Load(path)
	if err != nil {
		return "", tracerr.Unwrap(err)
	}
	return src, nil
}

// Eval serves eval: code is checked against the globals as they are now,
// and a type error stops it from running.
func (s *Session) Eval(code string) values.Value {
	s.evals++
	name := fmt.Sprintf("eval#%d", s.evals)

	res, err := s.Run(name, code)
	if err != nil {
		return values.DynamicError{Message: tracerr.Unwrap(err).Error()}
	}
	if ast.IsError(res.Type) {
		return values.DynamicError{Message: ast.TypeString(res.Type)}
	}
	return res.Value
}
