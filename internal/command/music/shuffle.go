package music

import (
	"fmt"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

type ShuffleCommand struct{}

func (c *ShuffleCommand) Name() string        { return "shuffle" }
func (c *ShuffleCommand) Description() string { return "Shuffle the queue" }
func (c *ShuffleCommand) Aliases() []string   { return nil }
func (c *ShuffleCommand) Category() string    { return "🎵 Music" }

func (c *ShuffleCommand) Run(ctx *command.Context) session.Reply {
	sess, ok := ctx.Sessions.Get(ctx.GuildID)
	if !ok || sess.Queue().Len() == 0 {
		return session.Warn("Queue Empty", "There is nothing to shuffle.")
	}
	sess.Queue().Shuffle()
	return session.Info("Queue Shuffled", fmt.Sprintf("Shuffled %d tracks.", sess.Queue().Len()))
}
