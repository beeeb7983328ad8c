package command

import (
	"github.com/rs/zerolog"

	"jukebox/internal/resolver"
	"jukebox/internal/session"
	"jukebox/internal/storage"
)

// Command is one text command. Implementations live under command/music and
// command/core, one file each.
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Category() string
	Run(ctx *Context) session.Reply
}

// Context carries everything a command needs for one invocation. Commands
// never touch the chat platform directly; they return a Reply and the bot
// layer renders it.
type Context struct {
	GuildID   string
	UserID    string
	ChannelID string
	Args      string

	Sessions *session.Registry
	Resolver resolver.Resolver
	Storage  *storage.Storage
	Commands *Registry

	// VoiceChannel reports which voice channel the user is in, or an error
	// when they are in none the bot can join.
	VoiceChannel func(guildID, userID string) (string, error)

	Log zerolog.Logger
}

// Session returns the invoking guild's session, creating it if needed, and
// binds the invoking text channel for async announcements. Fresh sessions
// pick up the guild's persisted default volume.
func (ctx *Context) Session() *session.Session {
	_, existed := ctx.Sessions.Get(ctx.GuildID)
	s := ctx.Sessions.GetOrCreate(ctx.GuildID)
	if !existed {
		if volume, err := ctx.Storage.Volume(ctx.GuildID); err == nil && volume > 0 {
			s.SetVolume(volume)
		}
	}
	s.Bind(ctx.ChannelID)
	return s
}
