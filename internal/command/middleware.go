package command

import (
	"time"

	"jukebox/internal/session"
	"jukebox/internal/storage"
	"jukebox/pkg/ratelimit"
)

type Middleware func(Command) Command

// WrappedCommand decorates Run while passing the rest of the Command
// surface through.
type WrappedCommand struct {
	Command
	Wrap func(ctx *Context) session.Reply
}

func (w *WrappedCommand) Run(ctx *Context) session.Reply {
	return w.Wrap(ctx)
}

func Apply(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithRateLimit rejects invocations once a user drains their token bucket.
func WithRateLimit(limiter *ratelimit.PerKey) Middleware {
	return func(cmd Command) Command {
		return &WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *Context) session.Reply {
				if !limiter.Allow(ctx.GuildID + ":" + ctx.UserID) {
					return session.Warn("Slow Down", "You are sending commands too quickly.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithCommandLog records each invocation before running the command.
func WithCommandLog() Middleware {
	return func(cmd Command) Command {
		return &WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *Context) session.Reply {
				started := time.Now()
				reply := cmd.Run(ctx)
				ctx.Log.Info().
					Str("command", cmd.Name()).
					Str("guild_id", ctx.GuildID).
					Str("user_id", ctx.UserID).
					Dur("took", time.Since(started)).
					Msg("command handled")
				return reply
			},
		}
	}
}

// RecordPlayed appends a track to the guild's persisted history. Failures
// only get logged; history is best effort.
func RecordPlayed(ctx *Context, title, url string) {
	err := ctx.Storage.AppendTrackHistory(ctx.GuildID, storage.TrackRecord{
		Title:     title,
		URL:       url,
		Requester: ctx.UserID,
		PlayedAt:  time.Now(),
	})
	if err != nil {
		ctx.Log.Warn().Err(err).Msg("failed to record track history")
	}
}
