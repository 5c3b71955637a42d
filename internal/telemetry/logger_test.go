package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSource struct{ hits, misses, fsWrites, fsReads, deletedHits int64 }

func (f *fakeSource) Snapshot() (int64, int64, int64, int64, int64) {
	return f.hits, f.misses, f.fsWrites, f.fsReads, f.deletedHits
}

type fakeSizer struct{ bytes, limit int64 }

func (f *fakeSizer) CacheBytes() int64 { return f.bytes }
func (f *fakeSizer) CacheLimit() int64 { return f.limit }

func TestDeltaSnapshot_Monotonic(t *testing.T) {
	prev := snapshot{hits: 2, misses: 1}
	cur := snapshot{hits: 5, misses: 1}
	d := deltaSnapshot(prev, cur)
	require.EqualValues(t, 3, d.hits)
	require.EqualValues(t, 0, d.misses)
}

func TestDeltaSnapshot_ResetTreatsCurrentAsDelta(t *testing.T) {
	prev := snapshot{hits: 10}
	cur := snapshot{hits: 2}
	d := deltaSnapshot(prev, cur)
	require.EqualValues(t, 2, d.hits)
}

func TestLogger_ClosesCleanly(t *testing.T) {
	l := New(context.Background(), zerolog.Nop(), &fakeSource{}, &fakeSizer{limit: 100}, 5*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	require.NoError(t, l.Close())
}

func TestLogger_DisabledWithZeroInterval(t *testing.T) {
	l := New(context.Background(), zerolog.Nop(), &fakeSource{}, &fakeSizer{}, 0)
	require.NoError(t, l.Close())
}
