package music

import (
	"jukebox/internal/command"
	"jukebox/internal/session"
)

type PauseCommand struct{}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause the current track" }
func (c *PauseCommand) Aliases() []string   { return nil }
func (c *PauseCommand) Category() string    { return "🎵 Music" }

func (c *PauseCommand) Run(ctx *command.Context) session.Reply {
	if err := ctx.Session().Pause(); err != nil {
		return session.Warn("Nothing Playing", "There is no track to pause.")
	}
	return session.Info("Paused", "Playback paused.")
}
