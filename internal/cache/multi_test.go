package cache

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Borislavv/lineage-cache/config"
	"github.com/Borislavv/lineage-cache/pkg/execctx"
	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

func newMultiTestCache(t *testing.T) *Cache {
	t.Helper()
	cfg := &config.Cache{ReuseMode: config.ReuseModeMultilevel, CacheLimitBytes: 10 << 20}
	return New(cfg, nil, nil, zerolog.Nop())
}

// scenario 4: function f returns two outputs. First call misses both;
// both placeholders install; computation produces v1, v2; commit caches
// both. Second call hits both, binding v1, v2 and rewiring their
// lineage to the original keys.
func TestMultiOutput_MissThenCommitThenHit(t *testing.T) {
	c := newMultiTestCache(t)
	inputs := []lineage.Item{lineage.New("x"), lineage.New("y")}
	outParams := []OutputParam{{Name: "o1", Matrix: true}, {Name: "o2", Matrix: true}}

	ctx := execctx.NewMapContext()
	require.False(t, c.TryReuseMulti(outParams, inputs, "f", ctx))

	v1 := matrix.NewDense(1, 2, []float64{1, 2})
	v2 := matrix.NewDense(1, 2, []float64{3, 4})
	ctx.SetMatrixOutput("o1", v1)
	ctx.SetMatrixOutput("o2", v2)
	ctx.SetLineage("o1", lineage.New("f-o1-fresh"))
	ctx.SetLineage("o2", lineage.New("f-o2-fresh"))

	c.PutValueMulti(outParams, inputs, "f", ctx, 42)

	ctx2 := execctx.NewMapContext()
	require.True(t, c.TryReuseMulti(outParams, inputs, "f", ctx2))

	got1, ok := ctx2.GetVariable("o1")
	require.True(t, ok)
	require.True(t, got1.(*matrix.DenseBlock).Equal(v1))

	got2, ok := ctx2.GetVariable("o2")
	require.True(t, ok)
	require.True(t, got2.(*matrix.DenseBlock).Equal(v2))

	lin1, ok := ctx2.Lineage("o1")
	require.True(t, ok)
	require.False(t, lin1.Equal(lineage.NewNamed("f", 0, inputs...)))
}

// scenario 5: same as scenario 4 but o2's lineage is tainted by a random
// generator: commit removes both placeholders, neither output is
// cached, and a second call re-executes (misses again).
func TestMultiOutput_TaintedCommitRemovesAllPlaceholders(t *testing.T) {
	taintedRoot := lineage.New("rand-source")
	taint := execctx.TaintCheckerFunc(func(inputs []lineage.Item, root lineage.Item) bool {
		return root.Equal(taintedRoot)
	})
	cfg := &config.Cache{ReuseMode: config.ReuseModeMultilevel, CacheLimitBytes: 10 << 20}
	c := New(cfg, nil, taint, zerolog.Nop())

	inputs := []lineage.Item{lineage.New("x")}
	outParams := []OutputParam{{Name: "o1", Matrix: true}, {Name: "o2", Matrix: true}}

	ctx := execctx.NewMapContext()
	require.False(t, c.TryReuseMulti(outParams, inputs, "g", ctx))

	ctx.SetMatrixOutput("o1", matrix.NewDense(1, 2, []float64{1, 2}))
	ctx.SetMatrixOutput("o2", matrix.NewDense(1, 2, []float64{3, 4}))
	ctx.SetLineage("o1", lineage.New("g-o1-fresh"))
	ctx.SetLineage("o2", taintedRoot)

	c.PutValueMulti(outParams, inputs, "g", ctx, 42)

	k1 := lineage.NewNamed("g", 0, inputs...)
	k2 := lineage.NewNamed("g", 1, inputs...)
	require.False(t, c.Probe(k1))
	require.False(t, c.Probe(k2))

	ctx2 := execctx.NewMapContext()
	require.False(t, c.TryReuseMulti(outParams, inputs, "g", ctx2))
}

func TestTryReuseMulti_DisabledWhenNotMultilevel(t *testing.T) {
	cfg := &config.Cache{ReuseMode: config.ReuseModeFull, CacheLimitBytes: 1 << 20}
	c := New(cfg, nil, nil, zerolog.Nop())
	ctx := execctx.NewMapContext()

	require.False(t, c.TryReuseMulti([]OutputParam{{Name: "o1", Matrix: true}}, nil, "f", ctx))
}
