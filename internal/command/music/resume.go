package music

import (
	"jukebox/internal/command"
	"jukebox/internal/session"
)

type ResumeCommand struct{}

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume paused playback" }
func (c *ResumeCommand) Aliases() []string   { return []string{"unpause"} }
func (c *ResumeCommand) Category() string    { return "🎵 Music" }

func (c *ResumeCommand) Run(ctx *command.Context) session.Reply {
	if err := ctx.Session().Resume(); err != nil {
		return session.Warn("Nothing Paused", "There is no paused track to resume.")
	}
	return session.Info("Resumed", "Playback resumed.")
}
