package matrix

import (
	"sync/atomic"
	"unsafe"

	sharedbytes "github.com/Borislavv/lineage-cache/internal/shared/bytes"
)

// DenseBlock is the reference Block implementation: a row-major float64
// matrix. It is exported (gob-encodable) so internal/store's spill
// writer can serialize it without any third-party codec.
type DenseBlock struct {
	Rows int64
	Cols int64
	Nnz  int64
	Data []float64

	// pins counts in-flight AcquireRead callers; unexported, so gob
	// never serializes it (a reloaded block always starts unpinned).
	pins atomic.Int32
}

// NewDense builds a DenseBlock from row-major data, computing Nnz.
func NewDense(rows, cols int64, data []float64) *DenseBlock {
	var nnz int64
	for _, v := range data {
		if v != 0 {
			nnz++
		}
	}
	return &DenseBlock{Rows: rows, Cols: cols, Nnz: nnz, Data: data}
}

func (b *DenseBlock) InMemorySize() int64 {
	return int64(len(b.Data))*denseCellBytes + 32 // + struct overhead allowance
}

func (b *DenseBlock) Dims() (rows, cols, nnz int64) { return b.Rows, b.Cols, b.Nnz }

func (b *DenseBlock) OnDiskSize(rows, cols, nnz int64) int64 { return EstimateOnDiskSize(rows, cols, nnz) }

func (b *DenseBlock) IsSparseOnDisk(rows, cols, nnz int64) bool { return IsSparseShape(rows, cols, nnz) }

// AcquireRead pins Data against concurrent replacement for the duration
// of a zero-copy read (e.g. a spill write reading Data's bytes
// directly). DenseBlock never replaces Data in place, so this always
// succeeds; the pin exists for host Block implementations that do.
func (b *DenseBlock) AcquireRead() bool {
	b.pins.Add(1)
	return true
}

// Release releases a pin acquired by AcquireRead.
func (b *DenseBlock) Release() { b.pins.Add(-1) }

// Equal compares shape and content, used by round-trip tests (spec.md
// §8). It reinterprets Data as raw bytes and defers to
// internal/shared/bytes.IsBytesAreEquals: below 32 bytes the whole
// slice is compared; from 32 bytes on only three 8-byte windows (start,
// middle, end) are hashed and compared, so a difference outside those
// windows is not detected.
func (b *DenseBlock) Equal(other *DenseBlock) bool {
	if other == nil || b.Rows != other.Rows || b.Cols != other.Cols || len(b.Data) != len(other.Data) {
		return false
	}
	if len(b.Data) == 0 {
		return true
	}
	return sharedbytes.IsBytesAreEquals(float64sAsBytes(b.Data), float64sAsBytes(other.Data))
}

func float64sAsBytes(data []float64) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*8)
}

// ScalarValue is the reference Scalar implementation.
type ScalarValue float64

func (ScalarValue) InMemorySize() int64 { return 16 }
