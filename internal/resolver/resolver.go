package resolver

import (
	"context"
	"time"
)

// MaxCandidates caps how many search results a resolver may return.
const MaxCandidates = 5

// Track is one playable audio item. It is immutable once resolved and is
// shared by reference between the queue and the sink.
type Track struct {
	ID        string
	Title     string
	URL       string
	StreamURL string
	Duration  time.Duration
	Requester string
	Thumbnail string
}

// WithRequester returns a copy of the track stamped with the requesting user.
func (t Track) WithRequester(userID string) Track {
	t.Requester = userID
	return t
}

type OutcomeKind int

const (
	OutcomeSingle OutcomeKind = iota
	OutcomeCandidates
	OutcomeNoMatches
	OutcomeFailed
)

// Outcome is the result of resolving a query or URL.
type Outcome struct {
	Kind       OutcomeKind
	Track      Track
	Candidates []Track
	Reason     string
}

// Resolver turns a search term or URL into tracks.
type Resolver interface {
	Resolve(ctx context.Context, query string) Outcome
}
