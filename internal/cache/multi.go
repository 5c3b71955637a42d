package cache

import (
	"github.com/Borislavv/lineage-cache/internal/store"
	"github.com/Borislavv/lineage-cache/pkg/execctx"
	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

// OutputParam describes one named output of a multi-output function
// call: the bound variable name and whether it is matrix- or
// scalar-valued. Folds spec.md §6's out_names/out_params/k triple into
// a single slice, the idiomatic Go shape for "k parallel arrays".
type OutputParam struct {
	Name   string
	Matrix bool
}

// TryReuseMulti is the Multi-Output Reuse Coordinator's probe phase
// (spec.md §4.7, §6 try_reuse_multi): every output is probed once under
// the cache lock; a miss on any output installs a placeholder for it and
// the whole call is reported as a miss (the function must execute). Only
// when every output hits are the cached values bound and each bound
// name's lineage rewired to its original producer.
func (c *Cache) TryReuseMulti(outParams []OutputParam, liInputs []lineage.Item, funcName string, ctx execctx.ExecutionContext) bool {
	if !c.cfg.MultilevelEnabled() || len(outParams) == 0 {
		return false
	}

	keys := make([]lineage.Item, len(outParams))
	entries := make([]*store.Entry, len(outParams))
	allHit := true
	for i, p := range outParams {
		keys[i] = lineage.NewNamed(funcName, i, liInputs...)
		e, hit := c.store.Lookup(keys[i])
		if !hit {
			e, hit = c.store.Install(keys[i], kindOf(p.Matrix))
		}
		entries[i] = e
		if !hit {
			allHit = false
		}
	}

	if !allHit {
		c.counters.RecordMiss()
		return false
	}

	values := make([]any, len(outParams))
	for i, p := range outParams {
		e := entries[i]
		if p.Matrix {
			v, ok := e.GetMatrix()
			if !ok {
				// The placeholder was failed (rejected admission or a
				// rolled-back commit): report a miss rather than
				// partially bind.
				return false
			}
			values[i] = v
		} else {
			v, ok := e.GetScalar()
			if !ok {
				return false
			}
			values[i] = v
		}
	}
	for i, p := range outParams {
		if p.Matrix {
			ctx.SetMatrixOutput(p.Name, values[i].(matrix.Block))
		} else {
			ctx.SetScalarOutput(p.Name, values[i].(matrix.Scalar))
		}
		ctx.SetLineage(p.Name, entries[i].RewireKey())
	}

	c.counters.RecordHit()
	return true
}

// PutValueMulti is the Multi-Output Reuse Coordinator's commit phase
// (spec.md §4.7, §6 put_value_multi): all-or-nothing. If every output's
// bound variable exists, its lineage item is present in the cache
// (i.e. a placeholder was installed for it by TryReuseMulti), and none
// of them is tainted by a random/data-generator lineage, every output is
// moved into its placeholder. Otherwise every placeholder installed for
// this call is removed — never a partial commit.
func (c *Cache) PutValueMulti(outParams []OutputParam, liInputs []lineage.Item, funcName string, ctx execctx.ExecutionContext, computeTimeNs int64) {
	if !c.cfg.MultilevelEnabled() || len(outParams) == 0 {
		return
	}

	keys := make([]lineage.Item, len(outParams))
	for i := range outParams {
		keys[i] = lineage.NewNamed(funcName, i, liInputs...)
	}

	values := make([]any, len(outParams))
	origins := make([]lineage.Item, len(outParams))
	commit := true
	for i, p := range outParams {
		v, ok := ctx.GetVariable(p.Name)
		if !ok {
			commit = false
			break
		}
		if !c.store.Reserved(keys[i]) {
			commit = false
			break
		}
		origin, _ := ctx.Lineage(p.Name)
		if origin != nil && c.taint.ContainsRandDataGen(liInputs, origin) {
			commit = false
			break
		}
		values[i] = v
		origins[i] = origin
	}

	if !commit {
		for _, k := range keys {
			c.store.RemovePlaceholder(k)
		}
		return
	}

	for i, p := range outParams {
		origin := keys[i]
		if origins[i] != nil {
			origin = origins[i]
		}
		if p.Matrix {
			block, ok := values[i].(matrix.Block)
			if !ok {
				continue
			}
			if err := c.store.MoveMatrixInto(keys[i], origin, block, computeTimeNs); err != nil {
				c.log.Warn().Err(err).Str("output", p.Name).Msg("put_value_multi: move failed")
			}
		} else {
			scalar, ok := values[i].(matrix.Scalar)
			if !ok {
				continue
			}
			if err := c.store.MoveScalarInto(keys[i], origin, scalar, computeTimeNs); err != nil {
				c.log.Warn().Err(err).Str("output", p.Name).Msg("put_value_multi: move failed")
			}
		}
	}
}
