package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"jukebox/internal/resolver"
	"jukebox/internal/sink"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultIdleGrace      = 2 * time.Minute

	MinVolume = 0
	MaxVolume = 150
)

// Session is the full in-memory playback context for one guild: its state
// machine, queue and pending selections. State only changes inside methods
// of this type, under mu. Guilds never share a session, so no call path
// ever holds two sessions' locks.
type Session struct {
	guildID  string
	sink     sink.Sink
	log      zerolog.Logger
	announce func(channelID string, reply Reply)
	onIdle   func(guildID string)

	queue      *Queue
	selections *SelectionBroker

	mu             sync.Mutex
	state          State
	current        *resolver.Track
	boundChannel   string
	repeat         RepeatMode
	volume         int
	retried        map[string]bool
	idleTimer      *time.Timer
	connectTimeout time.Duration
	idleGrace      time.Duration
}

// Bind records the text channel that issued the latest command. Async
// announcements (now playing, stream errors) land there.
func (s *Session) Bind(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundChannel = channelID
}

func (s *Session) GuildID() string { return s.guildID }

func (s *Session) Queue() *Queue { return s.queue }

func (s *Session) Selections() *SelectionBroker { return s.selections }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the track presently streaming, nil when idle.
func (s *Session) Current() *resolver.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	track := *s.current
	return &track
}

func (s *Session) Repeat() RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repeat
}

func (s *Session) SetRepeat(mode RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = mode
}

func (s *Session) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume clamps to [MinVolume, MaxVolume] and returns the applied value.
func (s *Session) SetVolume(percent int) int {
	if percent < MinVolume {
		percent = MinVolume
	}
	if percent > MaxVolume {
		percent = MaxVolume
	}
	s.mu.Lock()
	s.volume = percent
	s.mu.Unlock()
	_ = s.sink.SetVolume(s.guildID, percent)
	return percent
}

// Enqueue appends a track and returns the new queue length.
func (s *Session) Enqueue(track resolver.Track) int {
	return s.queue.Enqueue(track)
}

// Play connects to the given voice channel if needed and starts streaming
// the queue head. A no-op when playback is already active.
func (s *Session) Play(voiceChannelID string) error {
	s.mu.Lock()
	switch s.state {
	case StatePlaying, StatePaused, StateConnecting, StateStopping:
		s.mu.Unlock()
		return nil
	}
	if s.queue.Len() == 0 {
		s.mu.Unlock()
		return ErrQueueEmpty
	}
	s.state = StateConnecting
	timeout := s.connectTimeout
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := s.sink.Connect(ctx, s.guildID, voiceChannelID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.toIdleLocked()
		s.log.Warn().Err(err).Str("channel_id", voiceChannelID).Msg("voice connect failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrConnectTimeout
		}
		return fmt.Errorf("%w: %v", ErrConnectionDenied, err)
	}

	_ = s.sink.SetVolume(s.guildID, s.volume)
	return s.startNextLocked()
}

// Skip stops the current track and advances. Returns the new current track,
// or nil when the queue ran out and the session went idle.
func (s *Session) Skip() (*resolver.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying && s.state != StatePaused {
		return nil, ErrNothingPlaying
	}
	_ = s.sink.Stop(s.guildID)
	s.current = nil
	if err := s.startNextLocked(); err != nil {
		return nil, nil
	}
	track := *s.current
	return &track, nil
}

// Stop clears the queue, halts playback and leaves the voice channel.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateStopping
	s.queue.Clear()
	s.current = nil
	_ = s.sink.Stop(s.guildID)
	_ = s.sink.Disconnect(s.guildID)
	s.toIdleLocked()
	return nil
}

func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return ErrNothingPlaying
	}
	if err := s.sink.Pause(s.guildID); err != nil {
		return err
	}
	s.state = StatePaused
	return nil
}

func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return ErrNothingPlaying
	}
	if err := s.sink.Resume(s.guildID); err != nil {
		return err
	}
	s.state = StatePlaying
	return nil
}

// HandleTrackStarted announces the track to the bound channel.
func (s *Session) HandleTrackStarted(track resolver.Track) {
	s.mu.Lock()
	channel := s.boundChannel
	s.mu.Unlock()
	s.log.Info().Str("title", track.Title).Msg("track started")
	s.say(channel, Info("Now Playing", track.Title))
}

// HandleTrackFinished applies the repeat mode and advances the queue.
func (s *Session) HandleTrackFinished() {
	s.mu.Lock()
	if s.state != StatePlaying && s.state != StatePaused {
		s.mu.Unlock()
		return
	}

	finished := s.current
	if finished != nil {
		delete(s.retried, finished.ID)
		switch s.repeat {
		case RepeatTrack:
			if err := s.sink.Play(s.guildID, *finished); err == nil {
				s.state = StatePlaying
				s.mu.Unlock()
				return
			}
		case RepeatQueue:
			s.queue.Enqueue(*finished)
		}
	}

	s.current = nil
	_ = s.startNextLocked()
	s.mu.Unlock()
}

// HandleTrackError retries the failing track once, then advances past it.
// Errors move the queue forward instead of stalling the whole session.
func (s *Session) HandleTrackError(track resolver.Track, cause error) {
	s.mu.Lock()
	if s.state != StatePlaying && s.state != StatePaused {
		s.mu.Unlock()
		return
	}
	channel := s.boundChannel
	s.log.Warn().Err(cause).Str("title", track.Title).Msg("stream error")

	if !s.retried[track.ID] {
		s.retried[track.ID] = true
		if err := s.sink.Play(s.guildID, track); err == nil {
			s.mu.Unlock()
			return
		}
	}

	delete(s.retried, track.ID)
	s.current = nil
	_ = s.startNextLocked()
	s.mu.Unlock()

	s.say(channel, Error("Playback Error", fmt.Sprintf("%s: %v", track.Title, cause)))
}

// HandleConnectionLost rolls the session back to idle while keeping the
// queue, so a reconnect picks up where it left off.
func (s *Session) HandleConnectionLost() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	channel := s.boundChannel
	// Release the dead connection so the next play makes a fresh join.
	_ = s.sink.Stop(s.guildID)
	_ = s.sink.Disconnect(s.guildID)
	s.toIdleLocked()
	s.mu.Unlock()

	s.log.Warn().Msg("voice connection lost")
	s.say(channel, Warn("Disconnected", "The voice connection dropped. Playback stopped."))
}

// startNextLocked pops tracks until one starts streaming. Empty queue or
// exhausted candidates roll the session back to idle.
func (s *Session) startNextLocked() error {
	for {
		track, ok := s.queue.PopNext()
		if !ok {
			s.toIdleLocked()
			return ErrQueueEmpty
		}
		if err := s.sink.Play(s.guildID, track); err != nil {
			s.log.Warn().Err(err).Str("title", track.Title).Msg("skipping unplayable track")
			continue
		}
		t := track
		s.current = &t
		s.state = StatePlaying
		s.cancelIdleTimerLocked()
		return nil
	}
}

func (s *Session) toIdleLocked() {
	s.state = StateIdle
	s.current = nil
	s.scheduleIdleTeardownLocked()
}

// scheduleIdleTeardownLocked arms the grace-period timer. If the session is
// still idle with an empty queue when it fires, the registry tears it down.
func (s *Session) scheduleIdleTeardownLocked() {
	if s.idleGrace <= 0 || s.onIdle == nil {
		return
	}
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(s.idleGrace, func() {
		s.mu.Lock()
		expired := s.state == StateIdle && s.queue.Len() == 0
		s.mu.Unlock()
		if expired {
			s.onIdle(s.guildID)
		}
	})
}

func (s *Session) cancelIdleTimerLocked() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
}

// teardown releases the voice connection. Called by the registry with the
// session already unlinked from the guild map.
func (s *Session) teardown() {
	s.mu.Lock()
	s.cancelIdleTimerLocked()
	s.state = StateStopping
	s.queue.Clear()
	s.current = nil
	s.mu.Unlock()
	_ = s.sink.Stop(s.guildID)
	_ = s.sink.Disconnect(s.guildID)
}

func (s *Session) say(channelID string, reply Reply) {
	if s.announce == nil || channelID == "" {
		return
	}
	s.announce(channelID, reply)
}
