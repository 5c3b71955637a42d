package store

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

func newTestStore(t *testing.T, limitBytes int64, spill bool) *Store {
	t.Helper()
	return New(Config{
		CacheLimitBytes: limitBytes,
		SpillEnabled:    spill,
		MinSpillTimeMs:  100,
		MinSpillDataMB:  1,
		WorkDir:         t.TempDir(),
	}, nil, zerolog.Nop())
}

// denseOfSize builds a DenseBlock whose InMemorySize is exactly mb
// mebibytes, accounting for DenseBlock's 32-byte struct-overhead
// allowance so size-exact eviction assertions land precisely.
func denseOfSize(mb int) *matrix.DenseBlock {
	n := (int64(mb)*1024*1024 - 32) / 8
	return matrix.NewDense(1, n, make([]float64, n))
}

// scenario 2: three sequential 50 MiB matrices into a 100 MiB cache,
// spill disabled; the oldest is deleted outright.
func TestEvict_SequentialNoSpill(t *testing.T) {
	s := newTestStore(t, 100*1024*1024, false)

	put := func(name string) *Entry {
		key := lineage.New(name)
		e, hit := s.LookupOrInstall(key, KindMatrix)
		require.False(t, hit)
		require.NoError(t, s.FillMatrix(key, denseOfSize(50), 50))
		return e
	}

	m1 := put("m1")
	put("m2")
	put("m3")

	require.EqualValues(t, 100*1024*1024, s.CacheBytes())
	require.Equal(t, StatusToRemove, m1.Status)
}

// scenario 6: a value far larger than CACHE_LIMIT is rejected outright.
func TestFillMatrix_OversizedRejected(t *testing.T) {
	s := newTestStore(t, 100*1024*1024, true)
	key := lineage.New("huge")
	_, hit := s.LookupOrInstall(key, KindMatrix)
	require.False(t, hit)

	err := s.FillMatrix(key, denseOfSize(2048), 10)
	require.ErrorIs(t, err, ErrNegativeAdmission)
	require.EqualValues(t, 0, s.CacheBytes())
	require.False(t, s.Probe(key))
}

func TestSpillAndReload_RoundTrip(t *testing.T) {
	s := newTestStore(t, 10*1024*1024, true)

	k1 := lineage.New("a")
	_, _ = s.LookupOrInstall(k1, KindMatrix)
	original := denseOfSize(4)
	require.NoError(t, s.FillMatrix(k1, original, int64(5000*time.Millisecond)))

	k2 := lineage.New("b")
	_, _ = s.LookupOrInstall(k2, KindMatrix)
	require.NoError(t, s.FillMatrix(k2, denseOfSize(8), int64(5000*time.Millisecond)))

	got, err := s.GetMatrix(k1)
	require.NoError(t, err)
	dense, ok := got.(*matrix.DenseBlock)
	require.True(t, ok)
	require.True(t, dense.Equal(original))
}

func TestReset_Idempotent(t *testing.T) {
	s := newTestStore(t, 1024*1024, true)
	key := lineage.New("x")
	_, _ = s.LookupOrInstall(key, KindMatrix)
	require.NoError(t, s.FillMatrix(key, denseOfSize(1), 1))

	s.Reset()
	require.EqualValues(t, 0, s.CacheBytes())
	s.Reset()
	require.EqualValues(t, 0, s.CacheBytes())
	require.False(t, s.Probe(key))
}

func TestProbe_PureOnMiss(t *testing.T) {
	s := newTestStore(t, 1024*1024, true)
	require.False(t, s.Probe(lineage.New("nope")))
	require.False(t, s.Probe(lineage.New("nope")))
}

func TestRemovePlaceholder_WakesWaitersWithFailure(t *testing.T) {
	s := newTestStore(t, 1024*1024, true)
	key := lineage.New("aborted")
	entry, hit := s.LookupOrInstall(key, KindMatrix)
	require.False(t, hit)

	done := make(chan bool, 1)
	go func() {
		_, ok := entry.GetMatrix()
		done <- ok
	}()

	s.RemovePlaceholder(key)
	require.False(t, <-done)
}
