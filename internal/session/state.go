package session

// State is one guild's connection/playback status. Transitions happen only
// inside Session methods, under the session mutex.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StatePlaying
	StatePaused
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConnecting:
		return "Connecting"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// RepeatMode controls what happens when a track finishes.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatTrack
	RepeatQueue
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatTrack:
		return "track"
	case RepeatQueue:
		return "queue"
	default:
		return "off"
	}
}

// ParseRepeatMode maps user input to a repeat mode.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	switch s {
	case "off", "none":
		return RepeatOff, true
	case "track", "song", "single":
		return RepeatTrack, true
	case "queue", "all":
		return RepeatQueue, true
	default:
		return RepeatOff, false
	}
}
