package session

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// Reply is the single structured status every command invocation produces.
// The bot layer renders it; the core never talks to the chat platform.
type Reply struct {
	Title       string
	Description string
	Severity    Severity
}

func Info(title, description string) Reply {
	return Reply{Title: title, Description: description, Severity: SeverityInfo}
}

func Warn(title, description string) Reply {
	return Reply{Title: title, Description: description, Severity: SeverityWarn}
}

func Error(title, description string) Reply {
	return Reply{Title: title, Description: description, Severity: SeverityError}
}
