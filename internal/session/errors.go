package session

import "errors"

// Every failure a command can hit is recovered into a Reply at the command
// layer; none of these tear down the session.
var (
	ErrNoMutualVoiceChannel = errors.New("requester is not in a joinable voice channel")
	ErrConnectionDenied     = errors.New("voice connection denied")
	ErrConnectTimeout       = errors.New("voice connection timed out")
	ErrResolutionFailed     = errors.New("track resolution failed")
	ErrNoMatches            = errors.New("no matches for query")
	ErrOutOfRange           = errors.New("index out of range")
	ErrNoPendingSelection   = errors.New("no pending selection")
	ErrStreamError          = errors.New("playback stream error")
	ErrNothingPlaying       = errors.New("no track is currently playing")
	ErrQueueEmpty           = errors.New("no tracks in queue")
)
