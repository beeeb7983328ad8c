package music

import (
	"context"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/resolver"
	"jukebox/internal/session"
)

// SelectCommand searches and lets the requester pick from up to five
// results. The numbered reply is matched back to this user by the session's
// selection broker; a new select from the same user replaces the old one.
type SelectCommand struct{}

func (c *SelectCommand) Name() string        { return "select" }
func (c *SelectCommand) Description() string { return "Search and pick from up to 5 tracks" }
func (c *SelectCommand) Aliases() []string   { return []string{"sel", "search"} }
func (c *SelectCommand) Category() string    { return "🎵 Music" }

func (c *SelectCommand) Run(ctx *command.Context) session.Reply {
	query := strings.TrimSpace(ctx.Args)
	if query == "" {
		return session.Warn("No Search Query Specified", "Give me a term to search for.")
	}

	outcome := ctx.Resolver.Resolve(context.Background(), query)
	if reply, failed := replyForOutcome(outcome); failed {
		return reply
	}

	sess := ctx.Session()

	// A single hit needs no picking.
	if outcome.Kind == resolver.OutcomeSingle {
		return enqueueAndPlay(ctx, sess, outcome.Track)
	}

	candidates := outcome.Candidates
	if len(candidates) > resolver.MaxCandidates {
		candidates = candidates[:resolver.MaxCandidates]
	}

	sess.Selections().Open(ctx.UserID, candidates)
	return session.Info("Select a Track", formatCandidates(candidates))
}
