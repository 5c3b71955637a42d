package config

// ReuseMode selects which of the cache's lookup paths participate in
// try_reuse (spec.md §4.8).
type ReuseMode string

const (
	// ReuseModeNone disables the cache entirely: try_reuse always
	// returns false and put_* are no-ops.
	ReuseModeNone ReuseMode = "none"
	// ReuseModeFull enables the §4.1 exact-lineage hit path only.
	ReuseModeFull ReuseMode = "full"
	// ReuseModePartial enables the compensation-rewriter hook only:
	// full-lineage probing is skipped and only a rewritten instruction
	// is probed.
	ReuseModePartial ReuseMode = "partial"
	// ReuseModeMultilevel enables the §4.7 multi-output function-reuse
	// protocol in addition to full reuse.
	ReuseModeMultilevel ReuseMode = "multilevel"
	// ReuseModeFullPartial enables both the full-hit path and the
	// partial-reuse rewriter.
	ReuseModeFullPartial ReuseMode = "full_partial"
)
