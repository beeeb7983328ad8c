package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jukebox/internal/resolver"
)

// fakeSink records calls and never emits events on its own; tests drive the
// session's Handle* methods directly, the way the real sink's goroutines do.
type fakeSink struct {
	mu           sync.Mutex
	connectErr   error
	connectDelay time.Duration
	playErrs     []error
	played       []resolver.Track
	connects     int
	stops        int
	disconnects  int
	pauses       int
	resumes      int
	volume       int
}

func (f *fakeSink) Connect(ctx context.Context, guildID, channelID string) error {
	f.mu.Lock()
	f.connects++
	delay := f.connectDelay
	err := f.connectErr
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

func (f *fakeSink) Play(guildID string, track resolver.Track) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.playErrs) > 0 {
		err := f.playErrs[0]
		f.playErrs = f.playErrs[1:]
		if err != nil {
			return err
		}
	}
	f.played = append(f.played, track)
	return nil
}

func (f *fakeSink) Pause(guildID string) error  { f.mu.Lock(); defer f.mu.Unlock(); f.pauses++; return nil }
func (f *fakeSink) Resume(guildID string) error { f.mu.Lock(); defer f.mu.Unlock(); f.resumes++; return nil }
func (f *fakeSink) Stop(guildID string) error   { f.mu.Lock(); defer f.mu.Unlock(); f.stops++; return nil }
func (f *fakeSink) Disconnect(guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	return nil
}
func (f *fakeSink) SetVolume(guildID string, percent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = percent
	return nil
}

func (f *fakeSink) playedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.played))
	for i, tr := range f.played {
		ids[i] = tr.ID
	}
	return ids
}

func newTestSession(t *testing.T, snk *fakeSink) *Session {
	t.Helper()
	registry := NewRegistry(snk, Config{ConnectTimeout: 100 * time.Millisecond}, nil, zerolog.Nop())
	return registry.GetOrCreate("guild-1")
}

func TestPlayStartsQueueHead(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))

	require.NoError(t, s.Play("voice-1"))

	assert.Equal(t, StatePlaying, s.State())
	require.NotNil(t, s.Current())
	assert.Equal(t, "a", s.Current().ID)
	assert.Equal(t, 1, s.Queue().Len())
	assert.Equal(t, []string{"a"}, snk.playedIDs())
}

func TestPlayEmptyQueue(t *testing.T) {
	s := newTestSession(t, &fakeSink{})
	assert.ErrorIs(t, s.Play("voice-1"), ErrQueueEmpty)
	assert.Equal(t, StateIdle, s.State())
}

func TestPlayConnectDenied(t *testing.T) {
	snk := &fakeSink{connectErr: errors.New("missing permission")}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))

	err := s.Play("voice-1")
	assert.ErrorIs(t, err, ErrConnectionDenied)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Current())
}

func TestPlayConnectTimeout(t *testing.T) {
	snk := &fakeSink{connectDelay: time.Second}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))

	err := s.Play("voice-1")
	assert.ErrorIs(t, err, ErrConnectTimeout)
	assert.Equal(t, StateIdle, s.State())
}

func TestPlayWhileActiveIsNoop(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	require.NoError(t, s.Play("voice-1"))

	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))

	assert.Equal(t, []string{"a"}, snk.playedIDs())
	assert.Equal(t, 1, snk.connects)
}

func TestSkipAdvances(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))

	next, err := s.Skip()
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "b", next.ID)
	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, 0, s.Queue().Len())
}

func TestSkipLastTrackGoesIdle(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	require.NoError(t, s.Play("voice-1"))

	next, err := s.Skip()
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Current())
}

func TestSkipWhileIdle(t *testing.T) {
	s := newTestSession(t, &fakeSink{})
	_, err := s.Skip()
	assert.ErrorIs(t, err, ErrNothingPlaying)
}

func TestFinishCascadeToIdle(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))

	s.HandleTrackFinished()
	assert.Equal(t, StatePlaying, s.State())
	require.NotNil(t, s.Current())
	assert.Equal(t, "b", s.Current().ID)
	assert.Equal(t, 0, s.Queue().Len())

	s.HandleTrackFinished()
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Current())
}

func TestRepeatTrackReplaysSameTrack(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))
	s.SetRepeat(RepeatTrack)

	s.HandleTrackFinished()

	assert.Equal(t, StatePlaying, s.State())
	require.NotNil(t, s.Current())
	assert.Equal(t, "a", s.Current().ID)
	// The repeated track never touched the queue.
	assert.Equal(t, 1, s.Queue().Len())
	assert.Equal(t, []string{"a", "a"}, snk.playedIDs())
}

func TestRepeatQueueReEnqueuesAtTail(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))
	s.SetRepeat(RepeatQueue)

	s.HandleTrackFinished()

	require.NotNil(t, s.Current())
	assert.Equal(t, "b", s.Current().ID)
	snapshot := s.Queue().Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "a", snapshot[0].ID)
}

func TestTrackErrorRetriesOnceThenAdvances(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))

	failing := *s.Current()

	// First failure: the same track is retried.
	s.HandleTrackError(failing, errors.New("stream hiccup"))
	assert.Equal(t, []string{"a", "a"}, snk.playedIDs())
	assert.Equal(t, StatePlaying, s.State())

	// Second failure: move on, do not retry again.
	s.HandleTrackError(failing, errors.New("stream hiccup"))
	assert.Equal(t, []string{"a", "a", "b"}, snk.playedIDs())
	require.NotNil(t, s.Current())
	assert.Equal(t, "b", s.Current().ID)
}

func TestTrackErrorWithEmptyQueueGoesIdle(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	require.NoError(t, s.Play("voice-1"))

	failing := *s.Current()
	s.HandleTrackError(failing, errors.New("boom"))
	s.HandleTrackError(failing, errors.New("boom"))

	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Current())
}

func TestConnectionLostKeepsQueue(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))

	s.HandleConnectionLost()

	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Current())
	assert.Equal(t, 1, s.Queue().Len())
}

func TestPauseResume(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)

	assert.ErrorIs(t, s.Pause(), ErrNothingPlaying)
	assert.ErrorIs(t, s.Resume(), ErrNothingPlaying)

	s.Enqueue(track("a"))
	require.NoError(t, s.Play("voice-1"))

	require.NoError(t, s.Pause())
	assert.Equal(t, StatePaused, s.State())
	require.NotNil(t, s.Current())

	// Pausing twice is rejected, the track is already paused.
	assert.ErrorIs(t, s.Pause(), ErrNothingPlaying)

	require.NoError(t, s.Resume())
	assert.Equal(t, StatePlaying, s.State())
}

func TestStopClearsEverything(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))

	require.NoError(t, s.Stop())

	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Current())
	assert.Equal(t, 0, s.Queue().Len())
	assert.Equal(t, 1, snk.disconnects)
}

func TestStaleFinishAfterStopIsDropped(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	require.NoError(t, s.Play("voice-1"))
	require.NoError(t, s.Stop())

	s.HandleTrackFinished()

	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Queue().Snapshot())
}

func TestSetVolumeClamps(t *testing.T) {
	snk := &fakeSink{}
	s := newTestSession(t, snk)

	assert.Equal(t, 150, s.SetVolume(400))
	assert.Equal(t, 0, s.SetVolume(-10))
	assert.Equal(t, 75, s.SetVolume(75))
	assert.Equal(t, 75, s.Volume())
	assert.Equal(t, 75, snk.volume)
}

func TestSkippedUnplayableTracks(t *testing.T) {
	snk := &fakeSink{playErrs: []error{errors.New("bad format")}}
	s := newTestSession(t, snk)
	s.Enqueue(track("broken"))
	s.Enqueue(track("good"))

	require.NoError(t, s.Play("voice-1"))

	require.NotNil(t, s.Current())
	assert.Equal(t, "good", s.Current().ID)
}
