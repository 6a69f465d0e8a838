package domain

import "math"

// Cost is an unsigned matrix entry, seconds or meters depending on the
// backend. The representation is deliberately narrow; CheckedAdd guards
// every accumulation that could exceed it.
type Cost uint32

const MaxCost = Cost(math.MaxUint32)

// CheckedAdd returns a+b, or an InternalError when the sum would exceed
// the cost representation's range.
func CheckedAdd(a, b Cost) (Cost, error) {
	if a > MaxCost-b {
		return 0, NewInternalError("Excessive cost bound while adding %d and %d.", a, b)
	}
	return a + b, nil
}

// Matrix is a square table of costs indexed by matrix index. Only the
// entries for indices actually referenced by jobs and vehicles are read.
type Matrix [][]Cost

// NewMatrix returns a zero-filled n by n matrix backed by one allocation.
func NewMatrix(n int) Matrix {
	backing := make([]Cost, n*n)
	m := make(Matrix, n)
	for i := range m {
		m[i] = backing[i*n : (i+1)*n]
	}
	return m
}

func (m Matrix) Size() int { return len(m) }
