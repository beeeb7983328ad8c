package music

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"jukebox/internal/command"
	"jukebox/internal/resolver"
	"jukebox/internal/session"
)

// EnqueueResolved queues an already-resolved track for the invoking user,
// starting playback when the session is idle. The selection-reply path in
// the bot layer comes through here.
func EnqueueResolved(ctx *command.Context, track resolver.Track) session.Reply {
	return enqueueAndPlay(ctx, ctx.Session(), track)
}

// enqueueAndPlay adds the track to the guild's queue and kicks playback off
// when the session is idle. Used by play, select replies and pick handling.
func enqueueAndPlay(ctx *command.Context, sess *session.Session, track resolver.Track) session.Reply {
	track = track.WithRequester(ctx.UserID)
	position := sess.Enqueue(track)
	command.RecordPlayed(ctx, track.Title, track.URL)

	if sess.State() == session.StateIdle {
		if reply, failed := startPlayback(ctx, sess); failed {
			return reply
		}
		return session.Info("Now Playing", formatTrack(track))
	}
	return session.Info("Track Added", fmt.Sprintf("%s (position %d)", formatTrack(track), position))
}

// startPlayback connects to the requester's voice channel and starts the
// queue. The second return is true when the caller should surface the reply
// as the command result.
func startPlayback(ctx *command.Context, sess *session.Session) (session.Reply, bool) {
	channelID, err := ctx.VoiceChannel(ctx.GuildID, ctx.UserID)
	if err != nil {
		return session.Error("No Mutual Voice Channel", "Join a voice channel I can reach and try again."), true
	}

	switch err := sess.Play(channelID); {
	case err == nil:
		return session.Reply{}, false
	case errors.Is(err, session.ErrQueueEmpty):
		return session.Warn("Queue Empty", "There is nothing queued to play."), true
	case errors.Is(err, session.ErrConnectTimeout):
		return session.Error("Connection Timed Out", "Joining the voice channel took too long."), true
	case errors.Is(err, session.ErrConnectionDenied):
		return session.Error("Connection Denied", "I cannot join that voice channel."), true
	default:
		return session.Error("Playback Error", err.Error()), true
	}
}

func replyForOutcome(outcome resolver.Outcome) (session.Reply, bool) {
	switch outcome.Kind {
	case resolver.OutcomeNoMatches:
		return session.Warn("No Matches", "Nothing found for that query."), true
	case resolver.OutcomeFailed:
		return session.Error("Resolution Failed", outcome.Reason), true
	default:
		return session.Reply{}, false
	}
}

func formatTrack(track resolver.Track) string {
	if track.Duration > 0 {
		return fmt.Sprintf("**%s** `[%s]`", track.Title, formatDuration(track.Duration))
	}
	return fmt.Sprintf("**%s**", track.Title)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatCandidates(candidates []resolver.Track) string {
	var b strings.Builder
	for i, track := range candidates {
		fmt.Fprintf(&b, "`%d.` %s\n", i+1, formatTrack(track))
	}
	b.WriteString("\nReply with a number to pick a track.")
	return b.String()
}
