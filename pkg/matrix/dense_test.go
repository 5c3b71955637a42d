package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewDense_ComputesNnz counts non-zero cells.
func TestNewDense_ComputesNnz(t *testing.T) {
	b := NewDense(2, 2, []float64{1, 0, 0, 4})
	require.EqualValues(t, 2, b.Nnz)
}

// TestDenseBlock_Equal_SameData reports equal for identical content.
func TestDenseBlock_Equal_SameData(t *testing.T) {
	a := NewDense(2, 2, []float64{1, 2, 3, 4})
	b := NewDense(2, 2, []float64{1, 2, 3, 4})
	require.True(t, a.Equal(b))
}

// TestDenseBlock_Equal_DifferentData reports not equal.
func TestDenseBlock_Equal_DifferentData(t *testing.T) {
	a := NewDense(2, 2, []float64{1, 2, 3, 4})
	b := NewDense(2, 2, []float64{1, 2, 3, 5})
	require.False(t, a.Equal(b))
}

// TestIsSparseShape_PicksSmallerEncoding.
func TestIsSparseShape_PicksSmallerEncoding(t *testing.T) {
	// A mostly-empty 1000x1000 matrix should prefer sparse encoding.
	require.True(t, IsSparseShape(1000, 1000, 10))
	// A fully dense 10x10 matrix should prefer dense encoding.
	require.False(t, IsSparseShape(10, 10, 100))
}
