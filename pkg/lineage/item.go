// Package lineage defines the lineage-item contract the cache keys on.
//
// Construction of real lineage items (tracing an instruction's operator
// identity and transitive inputs) belongs to the host runtime; this
// package only specifies the contract the cache relies on, plus a
// concrete Fingerprint implementation so the cache is testable without a
// host runtime wired in.
package lineage

// Item is a content-addressed identifier for one deterministic
// computation. Two equal items denote the same computation.
type Item interface {
	// Equal reports whether other denotes the same computation.
	Equal(other Item) bool
	// Hash returns a 64-bit digest used to bucket the item in the cache's
	// key map. Equal items must return the same hash.
	Hash() uint64
	// ID returns an integer identity suitable for use in a spill file
	// name. It need not be globally unique, only unique among live
	// entries of the same cache instance.
	ID() int64
}
