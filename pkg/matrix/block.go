// Package matrix defines the matrix/scalar value contract the cache
// stores and sizes, plus a reference in-memory implementation.
package matrix

// Block is the "matrix block" collaborator of spec.md §6: an
// in-memory-sized, disk-sizeable, sparsity-aware payload. Real host
// runtimes supply their own implementation; Block only specifies what
// the cache needs from it.
type Block interface {
	// InMemorySize is the resident footprint in bytes, used for the
	// cache_bytes accounting (spec.md §3, invariant 4).
	InMemorySize() int64
	// Dims returns the logical shape used for on-disk sizing.
	Dims() (rows, cols, nnz int64)
	// OnDiskSize estimates the serialized footprint in bytes for the
	// given shape (spec.md §4.6).
	OnDiskSize(rows, cols, nnz int64) int64
	// IsSparseOnDisk reports whether the given shape would be written
	// in sparse format (spec.md §4.6).
	IsSparseOnDisk(rows, cols, nnz int64) bool
	// AcquireRead pins the block for a zero-copy read (spec.md §6):
	// callers that hand the block's backing storage to another
	// subsystem (e.g. the spill writer) without copying it must pin it
	// first so a concurrent mutation cannot race the read. Reports
	// whether the pin was acquired.
	AcquireRead() bool
	// Release releases a pin acquired by AcquireRead.
	Release()
}

// Scalar is the minimal scalar-value contract; scalars are never spilled
// (spec.md §4.5) so they need no disk-sizing methods.
type Scalar interface {
	InMemorySize() int64
}

const (
	denseCellBytes  = 8  // one float64 per cell
	sparseCellBytes = 16 // value (8) + row/col index (4+4)
	onDiskHeader    = 64 // conservative fixed header allowance
)

// EstimateOnDiskSize approximates the serialized size of a rows×cols
// matrix with nnz non-zeros, picking the smaller of dense and sparse
// encodings. This is a conventional CSR-like estimate; the exact formula
// used by the runtime this spec was distilled from was not retrieved
// (see DESIGN.md).
func EstimateOnDiskSize(rows, cols, nnz int64) int64 {
	dense := rows*cols*denseCellBytes + onDiskHeader
	if IsSparseShape(rows, cols, nnz) {
		return nnz*sparseCellBytes + onDiskHeader
	}
	return dense
}

// IsSparseShape reports whether a rows×cols matrix with nnz non-zeros is
// cheaper to store in sparse format than dense format.
func IsSparseShape(rows, cols, nnz int64) bool {
	dense := rows*cols*denseCellBytes + onDiskHeader
	sparse := nnz*sparseCellBytes + onDiskHeader
	return sparse < dense
}
