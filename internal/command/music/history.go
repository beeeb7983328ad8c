package music

import (
	"fmt"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

// HistoryCommand lists the guild's recently played tracks from storage.
type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return []string{"hist"} }
func (c *HistoryCommand) Category() string    { return "🎵 Music" }

func (c *HistoryCommand) Run(ctx *command.Context) session.Reply {
	records, err := ctx.Storage.TrackHistory(ctx.GuildID)
	if err != nil {
		return session.Error("History Unavailable", err.Error())
	}
	if len(records) == 0 {
		return session.Info("History", "Nothing has been played here yet.")
	}

	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "**%s** requested by <@%s>\n", records[i].Title, records[i].Requester)
	}
	return session.Info("Recently Played", b.String())
}
