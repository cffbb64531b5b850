package env

import (
	"errors"
	"reflect"
	"testing"
)

func TestLookupShadowing(t *testing.T) {
	base := Empty[int]().Extend("x", 1).Extend("y", 2)
	inner := base.Extend("x", 3)

	if v, err := inner.Lookup("x"); err != nil || v != 3 {
		t.Errorf("inner x: got %d, %v", v, err)
	}
	if v, err := base.Lookup("x"); err != nil || v != 1 {
		t.Errorf("extending must not change the parent chain, got %d, %v", v, err)
	}
	if v, err := inner.Lookup("y"); err != nil || v != 2 {
		t.Errorf("y: got %d, %v", v, err)
	}
}

func TestLookupMissing(t *testing.T) {
	_, err := Empty[string]().Extend("a", "b").Lookup("c")

	var lookup LookupError
	if !errors.As(err, &lookup) || lookup.Name != "c" {
		t.Fatalf("expected a lookup error for c, got %v", err)
	}
}

func TestReserve(t *testing.T) {
	scope, cell := Empty[int]().Reserve("f")

	_, err := scope.Lookup("f")
	var uninit UninitializedError
	if !errors.As(err, &uninit) {
		t.Fatalf("expected an uninitialized error, got %v", err)
	}

	captured := scope.Extend("g", 10)
	cell.Set(42)

	if v, err := captured.Lookup("f"); err != nil || v != 42 {
		t.Errorf("frames extended before the cell was filled should see it, got %d, %v", v, err)
	}
}

func TestCellWrittenOnce(t *testing.T) {
	_, cell := Empty[int]().Reserve("f")
	cell.Set(1)

	defer func() {
		if recover() == nil {
			t.Error("a second write should panic")
		}
	}()
	cell.Set(2)
}

func TestNames(t *testing.T) {
	scope := Empty[int]().Extend("a", 1).Extend("b", 2).Extend("a", 3)
	if got := scope.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}
	if !Empty[int]().IsEmpty() {
		t.Error("the empty environment should report empty")
	}
}
