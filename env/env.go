// Package env implements persistent environments: immutable chains of
// frames, each binding one name. Extending never touches an existing
// frame, so closures may hold on to any environment they captured.
package env

import "fmt"

type LookupError struct {
	Name string
}

func (e LookupError) Error() string {
	return fmt.Sprintf("no binding for %s", e.Name)
}

// UninitializedError is returned when a reserved cell is read before it
// has been filled in.
type UninitializedError struct {
	Name string
}

func (e UninitializedError) Error() string {
	return fmt.Sprintf("%s is used before its definition is complete", e.Name)
}

// Cell is the payload slot of one frame. Cells created by Extend are
// filled at once; cells created by Reserve are filled exactly once later.
type Cell[T any] struct {
	value  T
	filled bool
}

func (c *Cell[T]) Get() (T, bool) {
	return c.value, c.filled
}

func (c *Cell[T]) Set(v T) {
	if c.filled {
		panic("env: cell written twice")
	}
	c.value = v
	c.filled = true
}

type Env[T any] struct {
	name   string
	cell   *Cell[T]
	parent *Env[T]
}

// Empty returns the terminal frame.
func Empty[T any]() *Env[T] {
	return &Env[T]{}
}

func (e *Env[T]) IsEmpty() bool {
	return e == nil || e.cell == nil
}

func (e *Env[T]) Extend(name string, value T) *Env[T] {
	return &Env[T]{name: name, cell: &Cell[T]{value: value, filled: true}, parent: e}
}

// Reserve binds name to an empty cell that the caller fills in later.
func (e *Env[T]) Reserve(name string) (*Env[T], *Cell[T]) {
	cell := &Cell[T]{}
	return &Env[T]{name: name, cell: cell, parent: e}, cell
}

// Lookup finds the nearest binding of name.
func (e *Env[T]) Lookup(name string) (T, error) {
	for frame := e; !frame.IsEmpty(); frame = frame.parent {
		if frame.name != name {
			continue
		}
		value, ok := frame.cell.Get()
		if !ok {
			var zero T
			return zero, UninitializedError{Name: name}
		}
		return value, nil
	}

	var zero T
	return zero, LookupError{Name: name}
}

// Names lists the visible bindings, nearest first, without shadowed ones.
func (e *Env[T]) Names() []string {
	seen := map[string]bool{}
	var names []string
	for frame := e; !frame.IsEmpty(); frame = frame.parent {
		if seen[frame.name] {
			continue
		}
		seen[frame.name] = true
		names = append(names, frame.name)
	}
	return names
}
