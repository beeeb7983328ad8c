package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jukebox/internal/resolver"
)

func track(id string) resolver.Track {
	return resolver.Track{ID: id, Title: "Track " + id}
}

func TestQueueOrdering(t *testing.T) {
	q := NewQueue()

	assert.Equal(t, 1, q.Enqueue(track("a")))
	assert.Equal(t, 2, q.Enqueue(track("b")))
	assert.Equal(t, 3, q.Enqueue(track("c")))

	head, ok := q.PeekNext()
	require.True(t, ok)
	assert.Equal(t, "a", head.ID)
	assert.Equal(t, 3, q.Len())

	popped, ok := q.PopNext()
	require.True(t, ok)
	assert.Equal(t, "a", popped.ID)
	assert.Equal(t, 2, q.Len())
}

func TestQueuePopEmpty(t *testing.T) {
	q := NewQueue()
	_, ok := q.PopNext()
	assert.False(t, ok)
}

func TestQueueConcurrentEnqueueLosesNothing(t *testing.T) {
	const writers = 50
	const perWriter = 20

	q := NewQueue()
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				q.Enqueue(track(fmt.Sprintf("%d-%d", w, i)))
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, writers*perWriter, q.Len())

	seen := make(map[string]bool)
	for _, tr := range q.Snapshot() {
		assert.False(t, seen[tr.ID], "track %s duplicated", tr.ID)
		seen[tr.ID] = true
	}
	assert.Len(t, seen, writers*perWriter)
}

func TestQueueRemoveAt(t *testing.T) {
	q := NewQueue()
	q.Enqueue(track("a"))
	q.Enqueue(track("b"))
	q.Enqueue(track("c"))

	removed, err := q.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.ID)

	snapshot := q.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "a", snapshot[0].ID)
	assert.Equal(t, "c", snapshot[1].ID)

	_, err = q.RemoveAt(5)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = q.RemoveAt(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestQueueMoveTo(t *testing.T) {
	q := NewQueue()
	q.Enqueue(track("a"))
	q.Enqueue(track("b"))
	q.Enqueue(track("c"))

	require.NoError(t, q.MoveTo(2, 0))
	snapshot := q.Snapshot()
	assert.Equal(t, "c", snapshot[0].ID)
	assert.Equal(t, "a", snapshot[1].ID)
	assert.Equal(t, "b", snapshot[2].ID)

	assert.ErrorIs(t, q.MoveTo(0, 9), ErrOutOfRange)
	assert.ErrorIs(t, q.MoveTo(9, 0), ErrOutOfRange)
}

func TestQueueShufflePreservesTracks(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	identity := func(snapshot []resolver.Track) bool {
		for i, tr := range snapshot {
			if tr.ID != ids[i] {
				return false
			}
		}
		return true
	}

	q := NewQueue()
	for _, id := range ids {
		q.Enqueue(track(id))
	}

	permuted := false
	for trial := 0; trial < 50; trial++ {
		q.Shuffle()

		snapshot := q.Snapshot()
		require.Len(t, snapshot, len(ids))
		seen := make(map[string]bool)
		for _, tr := range snapshot {
			seen[tr.ID] = true
		}
		for _, id := range ids {
			assert.True(t, seen[id], "track %s lost in shuffle", id)
		}

		if !identity(snapshot) {
			permuted = true
		}
	}
	assert.True(t, permuted, "50 shuffles never left the identity permutation")
}

func TestQueueSnapshotIsACopy(t *testing.T) {
	q := NewQueue()
	q.Enqueue(track("a"))

	snapshot := q.Snapshot()
	snapshot[0].ID = "mutated"

	head, ok := q.PeekNext()
	require.True(t, ok)
	assert.Equal(t, "a", head.ID)
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(track("a"))
	q.Enqueue(track("b"))
	q.Clear()
	assert.Equal(t, 0, q.Len())
}
