package music

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

// MoveCommand relocates a queued track from one 1-based position to another.
type MoveCommand struct{}

func (c *MoveCommand) Name() string        { return "move" }
func (c *MoveCommand) Description() string { return "Move a queued track to another position" }
func (c *MoveCommand) Aliases() []string   { return []string{"mv"} }
func (c *MoveCommand) Category() string    { return "🎵 Music" }

func (c *MoveCommand) Run(ctx *command.Context) session.Reply {
	fields := strings.Fields(ctx.Args)
	if len(fields) != 2 {
		return session.Warn("Invalid Arguments", "Usage: `move <from> <to>`.")
	}
	from, err1 := strconv.Atoi(fields[0])
	to, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return session.Warn("Invalid Arguments", "Positions must be numbers.")
	}

	sess, ok := ctx.Sessions.Get(ctx.GuildID)
	if !ok {
		return session.Warn("Queue Empty", "There is nothing to move.")
	}

	if err := sess.Queue().MoveTo(from-1, to-1); err != nil {
		if errors.Is(err, session.ErrOutOfRange) {
			return session.Warn("Out of Range", "One of those positions does not exist.")
		}
		return session.Error("Move Failed", err.Error())
	}
	return session.Info("Track Moved", fmt.Sprintf("Moved position %d to %d.", from, to))
}
