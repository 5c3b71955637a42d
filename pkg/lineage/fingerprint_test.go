package lineage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNew_SameOpcodeSameInputs produces equal fingerprints.
func TestNew_SameOpcodeSameInputs(t *testing.T) {
	a := New("rightIndex")
	b := New("rightIndex")
	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())
}

// TestNew_DifferentOpcode produces different fingerprints.
func TestNew_DifferentOpcode(t *testing.T) {
	a := New("rightIndex")
	b := New("leftIndex")
	require.False(t, a.Equal(b))
}

// TestNew_InputsParticipateInHash distinguishes same opcode over different inputs.
func TestNew_InputsParticipateInHash(t *testing.T) {
	x := New("x")
	y := New("y")
	a := New("op", x)
	b := New("op", y)
	require.False(t, a.Equal(b))
}

// TestNew_IDsAreUnique assigns a distinct id per fingerprint, even for equal keys.
func TestNew_IDsAreUnique(t *testing.T) {
	a := New("same")
	b := New("same")
	require.NotEqual(t, a.ID(), b.ID())
}

// TestNewNamed_OutputIndexDistinguishesOutputs matches the "name+index" opcode
// scheme used for multi-output reuse.
func TestNewNamed_OutputIndexDistinguishesOutputs(t *testing.T) {
	in := New("in")
	o1 := NewNamed("f", 0, in)
	o2 := NewNamed("f", 1, in)
	require.False(t, o1.Equal(o2))
}
