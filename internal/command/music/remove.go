package music

import (
	"errors"
	"strconv"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

// RemoveCommand drops a queued track by its 1-based position.
type RemoveCommand struct{}

func (c *RemoveCommand) Name() string        { return "remove" }
func (c *RemoveCommand) Description() string { return "Remove a track from the queue by position" }
func (c *RemoveCommand) Aliases() []string   { return []string{"rm"} }
func (c *RemoveCommand) Category() string    { return "🎵 Music" }

func (c *RemoveCommand) Run(ctx *command.Context) session.Reply {
	pos, err := strconv.Atoi(strings.TrimSpace(ctx.Args))
	if err != nil {
		return session.Warn("Invalid Position", "Give me the queue position to remove, e.g. `remove 2`.")
	}

	sess, ok := ctx.Sessions.Get(ctx.GuildID)
	if !ok {
		return session.Warn("Queue Empty", "There is nothing to remove.")
	}

	removed, err := sess.Queue().RemoveAt(pos - 1)
	if err != nil {
		if errors.Is(err, session.ErrOutOfRange) {
			return session.Warn("Out of Range", "There is no track at that position.")
		}
		return session.Error("Remove Failed", err.Error())
	}
	return session.Info("Track Removed", formatTrack(removed))
}
