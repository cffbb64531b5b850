// Package store is the heap behind reference cells. Every allocation takes
// a fresh slot stamped with a new generation; freeing a slot restamps it,
// so any location still carrying the old stamp fails on its next use.
package store

import "fmt"

type Location struct {
	Slot       int
	Generation uint64
}

func (l Location) String() string {
	return fmt.Sprintf("loc:%d", l.Slot)
}

type UseAfterFree struct {
	Location Location
}

func (e UseAfterFree) Error() string {
	return fmt.Sprintf("use of %s after it was freed", e.Location)
}

type DoubleFree struct {
	Location Location
}

func (e DoubleFree) Error() string {
	return fmt.Sprintf("%s was already freed", e.Location)
}

type InvalidLocation struct {
	Location Location
}

func (e InvalidLocation) Error() string {
	return fmt.Sprintf("%s was never allocated", e.Location)
}

type slot[T any] struct {
	value      T
	generation uint64
}

type Store[T any] struct {
	slots      []slot[T]
	generation uint64
	live       int
}

func New[T any]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) stamp() uint64 {
	s.generation++
	return s.generation
}

func (s *Store[T]) Allocate(v T) Location {
	gen := s.stamp()
	s.slots = append(s.slots, slot[T]{value: v, generation: gen})
	s.live++
	return Location{Slot: len(s.slots) - 1, Generation: gen}
}

func (s *Store[T]) cell(loc Location) (*slot[T], error) {
	if loc.Slot < 0 || loc.Slot >= len(s.slots) {
		return nil, InvalidLocation{Location: loc}
	}
	return &s.slots[loc.Slot], nil
}

func (s *Store[T]) Read(loc Location) (T, error) {
	var zero T
	sl, err := s.cell(loc)
	if err != nil {
		return zero, err
	}
	if sl.generation != loc.Generation {
		return zero, UseAfterFree{Location: loc}
	}
	return sl.value, nil
}

func (s *Store[T]) Write(loc Location, v T) error {
	sl, err := s.cell(loc)
	if err != nil {
		return err
	}
	if sl.generation != loc.Generation {
		return UseAfterFree{Location: loc}
	}
	sl.value = v
	return nil
}

func (s *Store[T]) Free(loc Location) error {
	sl, err := s.cell(loc)
	if err != nil {
		return err
	}
	if sl.generation != loc.Generation {
		return DoubleFree{Location: loc}
	}

	var zero T
	sl.value = zero
	sl.generation = s.stamp()
	s.live--
	return nil
}

// Stats reports how many cells are live and how many were ever allocated.
func (s *Store[T]) Stats() (live, allocated int) {
	return s.live, len(s.slots)
}
