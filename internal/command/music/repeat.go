package music

import (
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

// RepeatCommand switches between off, track and queue repeat.
type RepeatCommand struct{}

func (c *RepeatCommand) Name() string        { return "repeat" }
func (c *RepeatCommand) Description() string { return "Set repeat mode: off, track or queue" }
func (c *RepeatCommand) Aliases() []string   { return []string{"loop"} }
func (c *RepeatCommand) Category() string    { return "🎵 Music" }

func (c *RepeatCommand) Run(ctx *command.Context) session.Reply {
	sess := ctx.Session()

	arg := strings.ToLower(strings.TrimSpace(ctx.Args))
	if arg == "" {
		return session.Info("Repeat Mode", "Current mode: **"+sess.Repeat().String()+"**")
	}

	mode, ok := session.ParseRepeatMode(arg)
	if !ok {
		return session.Warn("Invalid Mode", "Use `off`, `track` or `queue`.")
	}
	sess.SetRepeat(mode)
	return session.Info("Repeat Mode", "Repeat set to **"+mode.String()+"**")
}
