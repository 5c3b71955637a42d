// Package tests holds top-level scenario/integration tests exercising
// the public lineagecache.Cache facade end-to-end, mirroring the
// teacher's tests/cache_test.go split from the narrower per-package
// _test.go files.
package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	lineagecache "github.com/Borislavv/lineage-cache"
	"github.com/Borislavv/lineage-cache/pkg/execctx"
	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
	"github.com/Borislavv/lineage-cache/tests/help"
)

// scenario 1 (spec.md §8): two threads race the same lineage item for a
// 500ms matrix computation. Exactly one computes; the other blocks and
// both observe the same value; stats report 1 miss, 1 hit.
func TestScenario_ConcurrentProducersBlockOnPlaceholder(t *testing.T) {
	c := lineagecache.New(context.Background(), help.Cfg(10<<20), nil, nil, help.Logger())
	defer c.Close()

	key := lineage.New("scenario1")
	result := matrix.NewDense(2, 2, []float64{1, 2, 3, 4})

	var wg sync.WaitGroup
	var computed, waited int32
	var mu sync.Mutex

	race := func() {
		defer wg.Done()
		ctx := execctx.NewMapContext()
		instr := help.MatrixInstr("out", key)
		if c.TryReuseSingle(instr, ctx) {
			mu.Lock()
			waited++
			mu.Unlock()
			v, _ := ctx.GetVariable("out")
			require.True(t, v.(*matrix.DenseBlock).Equal(result))
			return
		}
		mu.Lock()
		computed++
		mu.Unlock()
		ctx.SetMatrixOutput("out", result)
		c.PutMatrixSingle(instr, ctx, int64(500*time.Millisecond))
	}

	wg.Add(2)
	go race()
	go race()
	wg.Wait()

	require.EqualValues(t, 1, computed)
	require.EqualValues(t, 1, waited)

	hits, misses, _, _, _ := c.Counters().Snapshot()
	require.EqualValues(t, 1, hits)
	require.EqualValues(t, 1, misses)
}

// scenario 2: cache limit 100 MiB; three sequential 50 MiB matrices
// admitted with spill disabled. After the third admission, cache_bytes
// is exactly 100 MiB and the oldest entry was deleted.
func TestScenario_SequentialAdmissionNoSpillEvictsOldest(t *testing.T) {
	cfg := help.Cfg(100 << 20)
	c := lineagecache.New(context.Background(), cfg, nil, nil, help.Logger())
	defer c.Close()

	put := func(name string) lineage.Item {
		key := lineage.New(name)
		instr := help.MatrixInstr("out", key)
		ctx := execctx.NewMapContext()
		require.False(t, c.TryReuseSingle(instr, ctx))
		// n is chosen so InMemorySize (len(Data)*8 + 32 struct overhead)
		// lands on exactly 50 MiB.
		n := ((50 << 20) - 32) / 8
		ctx.SetMatrixOutput("out", matrix.NewDense(1, int64(n), make([]float64, n)))
		c.PutMatrixSingle(instr, ctx, int64(50*time.Millisecond))
		return key
	}

	k1 := put("m1")
	put("m2")
	put("m3")

	require.EqualValues(t, 100<<20, c.CacheBytes())
	require.False(t, c.Probe(k1))
}

// scenario 6: admitting a 2 GiB matrix into a 100 MiB cache is rejected
// outright; no placeholder remains and cache_bytes is unchanged.
func TestScenario_OversizedAdmissionRejectedOutright(t *testing.T) {
	cfg := help.Cfg(100 << 20)
	c := lineagecache.New(context.Background(), cfg, nil, nil, help.Logger())
	defer c.Close()

	key := lineage.New("scenario6")
	instr := help.MatrixInstr("out", key)
	ctx := execctx.NewMapContext()
	require.False(t, c.TryReuseSingle(instr, ctx))

	n := (2 << 30) / 8
	ctx.SetMatrixOutput("out", matrix.NewDense(1, int64(n), make([]float64, n)))
	c.PutMatrixSingle(instr, ctx, 1)

	require.False(t, c.Probe(key))
	require.Zero(t, c.CacheBytes())
}

func TestScenario_IneligibleInstructionNeverTouchesCache(t *testing.T) {
	c := lineagecache.New(context.Background(), help.Cfg(1<<20), nil, nil, help.Logger())
	defer c.Close()

	key := lineage.New("ineligible")
	instr := &help.Instruction{Item: key, Output: "out", Matrix: true, NotEligible: true}
	ctx := execctx.NewMapContext()

	require.False(t, c.TryReuseSingle(instr, ctx))
	require.False(t, c.Probe(key))
}
