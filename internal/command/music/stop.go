package music

import (
	"jukebox/internal/command"
	"jukebox/internal/session"
)

// StopCommand clears the queue, stops playback and leaves the voice
// channel. The session itself is torn down so the guild starts fresh.
type StopCommand struct{}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue" }
func (c *StopCommand) Aliases() []string   { return []string{"leave", "disconnect"} }
func (c *StopCommand) Category() string    { return "🎵 Music" }

func (c *StopCommand) Run(ctx *command.Context) session.Reply {
	sess, ok := ctx.Sessions.Get(ctx.GuildID)
	if !ok {
		return session.Warn("Nothing Playing", "There is no active playback here.")
	}
	_ = sess.Stop()
	ctx.Sessions.Destroy(ctx.GuildID)
	return session.Info("Playback Stopped", "Queue cleared, leaving the voice channel.")
}
