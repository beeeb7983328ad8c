package music

import (
	"jukebox/internal/command"
	"jukebox/internal/session"
)

type NowPlayingCommand struct{}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the track that is playing" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np", "now"} }
func (c *NowPlayingCommand) Category() string    { return "🎵 Music" }

func (c *NowPlayingCommand) Run(ctx *command.Context) session.Reply {
	sess, ok := ctx.Sessions.Get(ctx.GuildID)
	if !ok {
		return session.Warn("Nothing Playing", "No track is playing right now.")
	}
	current := sess.Current()
	if current == nil {
		return session.Warn("Nothing Playing", "No track is playing right now.")
	}
	return session.Info("Now Playing", formatTrack(*current))
}
