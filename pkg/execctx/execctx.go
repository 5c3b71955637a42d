// Package execctx defines the collaborator contracts spec.md §6
// enumerates as external to the cache: the execution context that binds
// variables and lineage, the instruction being considered for reuse, the
// partial-reuse rewriter hook, and the taint predicate used to gate
// multi-output commit.
package execctx

import (
	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

// ExecutionContext is the host runtime's variable/lineage binding table.
type ExecutionContext interface {
	// GetVariable returns the named variable's current value, if any.
	GetVariable(name string) (any, bool)
	// SetVariable binds name to value, replacing and cleaning up any
	// prior binding.
	SetVariable(name string, value any)
	// RemoveVariable unbinds name and returns its prior value, if any.
	RemoveVariable(name string) (any, bool)
	// CleanupDataObject releases a data object displaced by a rebind
	// (e.g. decrementing a pin count on the host's buffer pool).
	CleanupDataObject(value any)

	// SetMatrixOutput binds name to a matrix.Block output.
	SetMatrixOutput(name string, block matrix.Block)
	// SetScalarOutput binds name to a matrix.Scalar output.
	SetScalarOutput(name string, scalar matrix.Scalar)

	// Lineage returns the lineage item currently attached to name, if
	// any.
	Lineage(name string) (lineage.Item, bool)
	// SetLineage attaches a lineage item to name (used to rewire a
	// bound variable's lineage to the original producer's key after a
	// multi-output hit, spec.md §4.7).
	SetLineage(name string, item lineage.Item)
}

// Instruction is one deterministic computation the runtime is about to
// execute.
type Instruction interface {
	// Reusable reports whether this instruction is eligible for lookup
	// against the cache at all (spec.md §4.1 step 2).
	Reusable(ctx ExecutionContext) bool
	// LineageItems returns the lineage item(s) identifying this
	// instruction's output(s); single-output instructions return a
	// one-element slice.
	LineageItems(ctx ExecutionContext) []lineage.Item
	// OutputName returns the bound variable name this instruction
	// writes to.
	OutputName() string
	// IsMatrixOutput reports whether the instruction's output is a
	// matrix (vs. a scalar).
	IsMatrixOutput() bool
	// MarkedForCaching reports whether the instruction's output object
	// has been externally marked as admissible (spec.md §4.8,
	// comp_assume_read_write).
	MarkedForCaching(ctx ExecutionContext) bool
}

// Rewriter synthesizes a cheaper instruction whose lineage might already
// be cached (the "partial reuse" compensation-plan rewriter, out of
// scope per spec.md §1 beyond this boolean hook).
type Rewriter interface {
	ExecuteRewrites(inst Instruction, ctx ExecutionContext) bool
}

// TaintChecker answers whether the lineage reachable from root through
// inputs is tainted by a random/data-generator source, which disqualifies
// a multi-output commit (spec.md §4.7).
type TaintChecker interface {
	ContainsRandDataGen(inputs []lineage.Item, root lineage.Item) bool
}

// TaintCheckerFunc adapts a function to TaintChecker.
type TaintCheckerFunc func(inputs []lineage.Item, root lineage.Item) bool

func (f TaintCheckerFunc) ContainsRandDataGen(inputs []lineage.Item, root lineage.Item) bool {
	return f(inputs, root)
}

// NoTaint is a TaintChecker that never taints, for callers with no
// random-data-generator concept.
var NoTaint TaintChecker = TaintCheckerFunc(func([]lineage.Item, lineage.Item) bool { return false })
