package lineage

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/zeebo/xxh3"
)

// Fingerprint is a reference Item implementation: an opcode string plus
// the fingerprints of its transitive inputs, reduced to a 64-bit map key
// with a 128-bit pair kept alongside to disambiguate hash collisions.
type Fingerprint struct {
	v  uint64
	hi uint64
	lo uint64
	id int64
}

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

var idSeq atomic.Int64

// New builds a Fingerprint from an opcode and the fingerprints of its
// inputs, in order. Inputs participate in the hash so that the same
// opcode over different inputs never collides by construction.
func New(opcode string, inputs ...Item) *Fingerprint {
	var sb strings.Builder
	sb.WriteString(opcode)
	for _, in := range inputs {
		sb.WriteByte(0) // separator, avoids "ab"+"c" == "a"+"bc" collisions
		var b [8]byte
		h := in.Hash()
		for i := range b {
			b[i] = byte(h >> (8 * i))
		}
		sb.Write(b[:])
	}
	return build(sb.String())
}

func build(s string) *Fingerprint {
	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()
	_, _ = hasher.Write(unsafe.Slice(unsafe.StringData(s), len(s)))
	u128 := hasher.Sum128()
	fp := &Fingerprint{
		v:  hasher.Sum64(),
		hi: u128.Hi,
		lo: u128.Lo,
		id: idSeq.Add(1),
	}
	hasherPool.Put(hasher)
	return fp
}

// NewNamed is a convenience for multi-output lineage items (spec.md
// §4.7): the output index is folded into the opcode, mirroring
// LineageCache.java's `name + String.valueOf(i+1)` scheme.
func NewNamed(funcName string, outputIndex int, inputs ...Item) *Fingerprint {
	var sb strings.Builder
	sb.WriteString(funcName)
	sb.WriteByte('#')
	sb.WriteString(strconv.Itoa(outputIndex + 1))
	return New(sb.String(), inputs...)
}

func (f *Fingerprint) Equal(other Item) bool {
	o, ok := other.(*Fingerprint)
	if !ok {
		return false
	}
	return f.v == o.v && f.hi == o.hi && f.lo == o.lo
}

func (f *Fingerprint) Hash() uint64 { return f.v }
func (f *Fingerprint) ID() int64    { return f.id }
