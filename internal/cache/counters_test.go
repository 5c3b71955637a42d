package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounters_Snapshot(t *testing.T) {
	c := NewCounters()
	c.RecordHit()
	c.RecordHit()
	c.RecordMiss()
	c.RecordFSWrite()
	c.RecordFSRead()
	c.RecordDeletedHit()

	hits, misses, fsWrites, fsReads, deletedHits := c.Snapshot()
	require.EqualValues(t, 2, hits)
	require.EqualValues(t, 1, misses)
	require.EqualValues(t, 1, fsWrites)
	require.EqualValues(t, 1, fsReads)
	require.EqualValues(t, 1, deletedHits)
}
