package music

import (
	"errors"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

// SkipCommand stops the current track and moves to the next queued one.
type SkipCommand struct{}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip the current track" }
func (c *SkipCommand) Aliases() []string   { return []string{"next", "n"} }
func (c *SkipCommand) Category() string    { return "🎵 Music" }

func (c *SkipCommand) Run(ctx *command.Context) session.Reply {
	sess := ctx.Session()
	next, err := sess.Skip()
	if err != nil {
		if errors.Is(err, session.ErrNothingPlaying) {
			return session.Warn("Nothing Playing", "There is no track to skip.")
		}
		return session.Error("Skip Failed", err.Error())
	}
	if next == nil {
		return session.Info("Queue Finished", "Skipped. Nothing left to play.")
	}
	return session.Info("Skipped", "Now playing "+formatTrack(*next))
}
