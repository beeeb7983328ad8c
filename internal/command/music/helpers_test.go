package music

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jukebox/internal/resolver"
	"jukebox/internal/session"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:07", formatDuration(7*time.Second))
	assert.Equal(t, "3:05", formatDuration(3*time.Minute+5*time.Second))
	assert.Equal(t, "10:00", formatDuration(10*time.Minute))
	assert.Equal(t, "1:02:03", formatDuration(time.Hour+2*time.Minute+3*time.Second))
}

func TestFormatTrack(t *testing.T) {
	withDuration := resolver.Track{Title: "Song", Duration: 4*time.Minute + 20*time.Second}
	assert.Equal(t, "**Song** `[4:20]`", formatTrack(withDuration))

	// Live streams carry no duration.
	live := resolver.Track{Title: "Live"}
	assert.Equal(t, "**Live**", formatTrack(live))
}

func TestFormatCandidatesNumbersFromOne(t *testing.T) {
	out := formatCandidates([]resolver.Track{
		{Title: "First"},
		{Title: "Second"},
	})

	assert.Contains(t, out, "`1.` **First**")
	assert.Contains(t, out, "`2.` **Second**")
	assert.Contains(t, out, "Reply with a number")
}

func TestReplyForOutcome(t *testing.T) {
	reply, handled := replyForOutcome(resolver.Outcome{Kind: resolver.OutcomeNoMatches})
	assert.True(t, handled)
	assert.Equal(t, session.SeverityWarn, reply.Severity)

	reply, handled = replyForOutcome(resolver.Outcome{Kind: resolver.OutcomeFailed, Reason: "upstream down"})
	assert.True(t, handled)
	assert.Equal(t, session.SeverityError, reply.Severity)
	assert.Equal(t, "upstream down", reply.Description)

	_, handled = replyForOutcome(resolver.Outcome{Kind: resolver.OutcomeSingle})
	assert.False(t, handled)
}
