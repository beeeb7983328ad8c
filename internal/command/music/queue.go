package music

import (
	"fmt"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

const queueDisplayLimit = 10

// QueueCommand shows the current track and the upcoming queue.
type QueueCommand struct{}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the track queue" }
func (c *QueueCommand) Aliases() []string   { return []string{"q"} }
func (c *QueueCommand) Category() string    { return "🎵 Music" }

func (c *QueueCommand) Run(ctx *command.Context) session.Reply {
	sess, ok := ctx.Sessions.Get(ctx.GuildID)
	if !ok {
		return session.Info("Queue", "The queue is empty.")
	}

	var b strings.Builder
	if current := sess.Current(); current != nil {
		fmt.Fprintf(&b, "**Now:** %s\n\n", formatTrack(*current))
	}

	tracks := sess.Queue().Snapshot()
	if len(tracks) == 0 && b.Len() == 0 {
		return session.Info("Queue", "The queue is empty.")
	}

	for i, track := range tracks {
		if i == queueDisplayLimit {
			fmt.Fprintf(&b, "… and %d more", len(tracks)-queueDisplayLimit)
			break
		}
		fmt.Fprintf(&b, "`%d.` %s\n", i+1, formatTrack(track))
	}

	return session.Info(fmt.Sprintf("Queue (%d)", len(tracks)), b.String())
}
