package help

import (
	"github.com/Borislavv/lineage-cache/pkg/execctx"
	"github.com/Borislavv/lineage-cache/pkg/lineage"
)

// Instruction is a minimal execctx.Instruction fixture for scenario
// tests: a single named output, reuse-eligible and marked-for-caching
// by default.
type Instruction struct {
	Item        lineage.Item
	Output      string
	Matrix      bool
	NotEligible bool
	NotMarked   bool
}

func (i *Instruction) Reusable(execctx.ExecutionContext) bool               { return !i.NotEligible }
func (i *Instruction) LineageItems(execctx.ExecutionContext) []lineage.Item { return []lineage.Item{i.Item} }
func (i *Instruction) OutputName() string                                  { return i.Output }
func (i *Instruction) IsMatrixOutput() bool                                 { return i.Matrix }
func (i *Instruction) MarkedForCaching(execctx.ExecutionContext) bool       { return !i.NotMarked }

// MatrixInstr builds a cacheable, reuse-eligible matrix-output
// instruction over key, bound to name.
func MatrixInstr(name string, key lineage.Item) *Instruction {
	return &Instruction{Item: key, Output: name, Matrix: true}
}

// ScalarInstr is MatrixInstr's scalar counterpart.
func ScalarInstr(name string, key lineage.Item) *Instruction {
	return &Instruction{Item: key, Output: name, Matrix: false}
}
