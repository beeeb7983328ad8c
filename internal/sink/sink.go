// Package sink streams resolved tracks into voice channels. The session
// layer only ever talks to the Sink interface; the discordgo implementation
// lives in discord.go.
package sink

import (
	"context"

	"jukebox/internal/resolver"
)

// Sink accepts tracks for one guild at a time and reports lifecycle events
// back through the Events handler it was built with.
type Sink interface {
	// Connect joins the given voice channel, reusing an existing connection
	// when it already points at the same channel. Honors ctx deadlines.
	Connect(ctx context.Context, guildID, channelID string) error

	// Play starts streaming the track. It returns once streaming has been
	// handed off; completion arrives via Events.TrackFinished.
	Play(guildID string, track resolver.Track) error

	Pause(guildID string) error
	Resume(guildID string) error

	// Stop halts the current stream without emitting TrackFinished.
	Stop(guildID string) error

	// Disconnect stops any stream and leaves the voice channel. Idempotent.
	Disconnect(guildID string) error

	SetVolume(guildID string, percent int) error
}

// Events is implemented by the session layer. All callbacks are scoped by
// guild and may arrive from streaming goroutines at any time.
type Events interface {
	TrackStarted(guildID string, track resolver.Track)
	TrackFinished(guildID string)
	TrackError(guildID string, track resolver.Track, err error)
	ConnectionLost(guildID string)
}
