package domain

import (
	"errors"
	"testing"
)

func TestCheckedAdd(t *testing.T) {
	got, err := CheckedAdd(40, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("sum = %d, want 42", got)
	}
}

func TestCheckedAddOverflow(t *testing.T) {
	_, err := CheckedAdd(MaxCost, 1)
	if err == nil {
		t.Fatal("expected overflow error, got nil")
	}

	var internalErr *InternalError
	if !errors.As(err, &internalErr) {
		t.Fatalf("expected InternalError, got %T: %v", err, err)
	}
}

func TestCheckedAddAtLimit(t *testing.T) {
	got, err := CheckedAdd(MaxCost-1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MaxCost {
		t.Fatalf("sum = %d, want %d", got, MaxCost)
	}
}

func TestNewMatrix(t *testing.T) {
	m := NewMatrix(3)
	if m.Size() != 3 {
		t.Fatalf("size = %d, want 3", m.Size())
	}
	for i := range m {
		if len(m[i]) != 3 {
			t.Fatalf("row %d has length %d, want 3", i, len(m[i]))
		}
	}
}
