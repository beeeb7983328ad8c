package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandWithPrefix(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{name: "bare command", content: "!ping", wantName: "ping", wantOK: true},
		{name: "command with args", content: "!play never gonna give you up", wantName: "play", wantArgs: "never gonna give you up", wantOK: true},
		{name: "uppercase name lowered", content: "!PLAY something", wantName: "play", wantArgs: "something", wantOK: true},
		{name: "extra spaces around args", content: "!play   spaced out  ", wantName: "play", wantArgs: "spaced out", wantOK: true},
		{name: "prefix only", content: "!", wantOK: false},
		{name: "prefix then spaces", content: "!   ", wantOK: false},
		{name: "no prefix", content: "play something", wantOK: false},
		{name: "prefix mid-message", content: "hey !play something", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := parseCommand(tt.content, "!", nil)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestParseCommandWithMention(t *testing.T) {
	mentions := []string{"<@123>", "<@!123>"}

	name, args, ok := parseCommand("<@123> play some song", "!", mentions)
	assert.True(t, ok)
	assert.Equal(t, "play", name)
	assert.Equal(t, "some song", args)

	// Nickname mention form works the same.
	name, _, ok = parseCommand("<@!123> ping", "!", mentions)
	assert.True(t, ok)
	assert.Equal(t, "ping", name)

	// A mention of someone else is not a prefix.
	_, _, ok = parseCommand("<@456> play x", "!", mentions)
	assert.False(t, ok)

	// A bare mention carries no command.
	_, _, ok = parseCommand("<@123>", "!", mentions)
	assert.False(t, ok)
}

func TestParseCommandCustomPrefix(t *testing.T) {
	name, args, ok := parseCommand("??skip", "??", nil)
	assert.True(t, ok)
	assert.Equal(t, "skip", name)
	assert.Empty(t, args)

	_, _, ok = parseCommand("!skip", "??", nil)
	assert.False(t, ok)
}
