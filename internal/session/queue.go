package session

import (
	"math/rand"
	"slices"
	"sync"

	"jukebox/internal/resolver"
)

// Queue is one guild's ordered list of pending tracks, excluding whatever is
// currently playing. All mutations are serialized behind its mutex;
// Snapshot hands out copies so readers never see a half-applied change.
type Queue struct {
	mu     sync.Mutex
	tracks []resolver.Track
}

func NewQueue() *Queue {
	return &Queue{tracks: make([]resolver.Track, 0)}
}

// Enqueue appends a track and returns the new queue length.
func (q *Queue) Enqueue(track resolver.Track) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append(q.tracks, track)
	return len(q.tracks)
}

// PushFront puts a track at the head, ahead of everything queued.
func (q *Queue) PushFront(track resolver.Track) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append([]resolver.Track{track}, q.tracks...)
	return len(q.tracks)
}

// PopNext removes and returns the head of the queue.
func (q *Queue) PopNext() (resolver.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tracks) == 0 {
		return resolver.Track{}, false
	}
	head := q.tracks[0]
	q.tracks = q.tracks[1:]
	return head, true
}

// PeekNext returns the head without removing it.
func (q *Queue) PeekNext() (resolver.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tracks) == 0 {
		return resolver.Track{}, false
	}
	return q.tracks[0], true
}

// RemoveAt removes and returns the track at index (0-based).
func (q *Queue) RemoveAt(index int) (resolver.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.tracks) {
		return resolver.Track{}, ErrOutOfRange
	}
	removed := q.tracks[index]
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)
	return removed, nil
}

// MoveTo relocates the track at index to newIndex, shifting the rest.
func (q *Queue) MoveTo(index, newIndex int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.tracks) || newIndex < 0 || newIndex >= len(q.tracks) {
		return ErrOutOfRange
	}
	track := q.tracks[index]
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)
	q.tracks = slices.Insert(q.tracks, newIndex, track)
	return nil
}

// Shuffle applies a uniformly random permutation to the queued tracks.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = q.tracks[:0]
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Snapshot returns a point-in-time copy for display.
func (q *Queue) Snapshot() []resolver.Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.tracks)
}
