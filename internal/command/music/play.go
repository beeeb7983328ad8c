package music

import (
	"context"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/resolver"
	"jukebox/internal/session"
)

// PlayCommand resolves a query or URL and queues the first match.
type PlayCommand struct{}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a track from a link or search term" }
func (c *PlayCommand) Aliases() []string   { return []string{"p"} }
func (c *PlayCommand) Category() string    { return "🎵 Music" }

func (c *PlayCommand) Run(ctx *command.Context) session.Reply {
	query := strings.TrimSpace(ctx.Args)
	if query == "" {
		return session.Warn("No Query Specified", "Give me a link or something to search for.")
	}

	outcome := ctx.Resolver.Resolve(context.Background(), query)
	if reply, failed := replyForOutcome(outcome); failed {
		return reply
	}

	track := outcome.Track
	if outcome.Kind == resolver.OutcomeCandidates {
		track = outcome.Candidates[0]
	}

	return enqueueAndPlay(ctx, ctx.Session(), track)
}
