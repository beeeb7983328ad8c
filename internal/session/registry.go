package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"jukebox/internal/resolver"
	"jukebox/internal/sink"
)

// Config carries the per-session tunables the registry seeds new sessions
// with.
type Config struct {
	ConnectTimeout time.Duration
	IdleGrace      time.Duration
	SelectTimeout  time.Duration
	DefaultVolume  int
}

func (c Config) withDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.SelectTimeout <= 0 {
		c.SelectTimeout = DefaultSelectTimeout
	}
	if c.DefaultVolume <= 0 {
		c.DefaultVolume = 100
	}
	return c
}

// Registry is the process-wide guild → session map. Creation is atomic:
// check and insert happen under one lock, so two concurrent first commands
// for a guild always observe the same session.
type Registry struct {
	sink     sink.Sink
	cfg      Config
	announce func(channelID string, reply Reply)
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(snk sink.Sink, cfg Config, announce func(channelID string, reply Reply), log zerolog.Logger) *Registry {
	return &Registry{
		sink:     snk,
		cfg:      cfg.withDefaults(),
		announce: announce,
		log:      log.With().Str("component", "session").Logger(),
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the guild's session, creating an idle one if absent.
func (r *Registry) GetOrCreate(guildID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[guildID]; ok {
		return s
	}
	s := &Session{
		guildID:        guildID,
		sink:           r.sink,
		log:            r.log.With().Str("guild_id", guildID).Logger(),
		announce:       r.announce,
		onIdle:         r.destroyIfIdle,
		queue:          NewQueue(),
		selections:     NewSelectionBroker(r.cfg.SelectTimeout),
		state:          StateIdle,
		volume:         r.cfg.DefaultVolume,
		retried:        make(map[string]bool),
		connectTimeout: r.cfg.ConnectTimeout,
		idleGrace:      r.cfg.IdleGrace,
	}
	r.sessions[guildID] = s
	r.log.Debug().Str("guild_id", guildID).Msg("session created")
	return s
}

// Get returns the guild's session without creating one.
func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// Destroy removes the guild's session and releases its voice connection.
// Idempotent: destroying an absent guild is a no-op.
func (r *Registry) Destroy(guildID string) {
	r.mu.Lock()
	s, ok := r.sessions[guildID]
	if ok {
		delete(r.sessions, guildID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	s.teardown()
	r.log.Debug().Str("guild_id", guildID).Msg("session destroyed")
}

// destroyIfIdle is the idle-grace callback wired into every session.
func (r *Registry) destroyIfIdle(guildID string) {
	r.log.Debug().Str("guild_id", guildID).Msg("idle grace expired")
	r.Destroy(guildID)
}

// The registry routes sink lifecycle events to their guild's session. A
// late event for a destroyed session is dropped.

func (r *Registry) TrackStarted(guildID string, track resolver.Track) {
	if s, ok := r.Get(guildID); ok {
		s.HandleTrackStarted(track)
	}
}

func (r *Registry) TrackFinished(guildID string) {
	if s, ok := r.Get(guildID); ok {
		s.HandleTrackFinished()
	}
}

func (r *Registry) TrackError(guildID string, track resolver.Track, err error) {
	if s, ok := r.Get(guildID); ok {
		s.HandleTrackError(track, err)
	}
}

func (r *Registry) ConnectionLost(guildID string) {
	if s, ok := r.Get(guildID); ok {
		s.HandleConnectionLost()
	}
}
