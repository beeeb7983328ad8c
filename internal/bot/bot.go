// Package bot is the discordgo glue: it receives gateway events, routes
// them into the command registry and session layer, and renders replies as
// embeds. Everything below this package is platform-agnostic.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"jukebox/internal/command"
	"jukebox/internal/command/core"
	"jukebox/internal/command/music"
	"jukebox/internal/config"
	"jukebox/internal/resolver"
	"jukebox/internal/session"
	"jukebox/internal/sink"
	"jukebox/internal/storage"
	"jukebox/pkg/ratelimit"
)

type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	store    *storage.Storage
	commands *command.Registry
	sessions *session.Registry
	resolver resolver.Resolver
	log      zerolog.Logger
}

// eventsProxy breaks the construction cycle between the sink (which needs
// an event handler) and the session registry (which needs the sink).
type eventsProxy struct {
	registry *session.Registry
}

func (p *eventsProxy) TrackStarted(guildID string, track resolver.Track) {
	p.registry.TrackStarted(guildID, track)
}
func (p *eventsProxy) TrackFinished(guildID string) { p.registry.TrackFinished(guildID) }
func (p *eventsProxy) TrackError(guildID string, track resolver.Track, err error) {
	p.registry.TrackError(guildID, track, err)
}
func (p *eventsProxy) ConnectionLost(guildID string) { p.registry.ConnectionLost(guildID) }

func New(cfg *config.Config, store *storage.Storage, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	b := &Bot{
		dg:       dg,
		cfg:      cfg,
		store:    store,
		resolver: resolver.NewYouTube(log),
		log:      log.With().Str("component", "bot").Logger(),
	}

	proxy := &eventsProxy{}
	snk := sink.NewDiscord(dg, proxy, log)
	b.sessions = session.NewRegistry(snk, session.Config{
		ConnectTimeout: cfg.ConnectTimeout,
		IdleGrace:      cfg.IdleGrace,
		SelectTimeout:  cfg.SelectTimeout,
		DefaultVolume:  cfg.DefaultVolume,
	}, b.sendReply, log)
	proxy.registry = b.sessions

	limiter := ratelimit.NewPerKey(rate.Limit(cfg.CommandsPerMinute/60), cfg.CommandBurst)
	mws := []command.Middleware{
		command.WithRateLimit(limiter),
		command.WithCommandLog(),
	}
	wrap := func(cmd command.Command) command.Command { return command.Apply(cmd, mws...) }

	b.commands = command.NewRegistry(
		wrap(&music.PlayCommand{}),
		wrap(&music.SelectCommand{}),
		wrap(&music.SkipCommand{}),
		wrap(&music.StopCommand{}),
		wrap(&music.PauseCommand{}),
		wrap(&music.ResumeCommand{}),
		wrap(&music.QueueCommand{}),
		wrap(&music.RemoveCommand{}),
		wrap(&music.MoveCommand{}),
		wrap(&music.ShuffleCommand{}),
		wrap(&music.RepeatCommand{}),
		wrap(&music.VolumeCommand{}),
		wrap(&music.NowPlayingCommand{}),
		wrap(&music.HistoryCommand{}),
		wrap(&core.HelpCommand{}),
		wrap(&core.PingCommand{}),
		wrap(&core.PrefixCommand{Default: cfg.DefaultPrefix}),
	)

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onVoiceStateUpdate)
	dg.AddHandler(b.onGuildDelete)

	return b, nil
}

// Run opens the gateway connection and blocks until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("username", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("gateway ready")
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	b.sessions.Destroy(g.ID)
}

// onVoiceStateUpdate watches for two things: the bot being dropped from its
// channel, and the last human listener leaving.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if s.State.User != nil && v.UserID == s.State.User.ID {
		if v.ChannelID == "" {
			b.sessions.ConnectionLost(v.GuildID)
		}
		return
	}
	if _, ok := b.sessions.Get(v.GuildID); !ok {
		return
	}
	if b.countListeners(v.GuildID) == 0 {
		b.log.Info().Str("guild_id", v.GuildID).Msg("no listeners left, leaving")
		b.sessions.Destroy(v.GuildID)
	}
}

// countListeners counts non-bot members in the voice channel the bot
// currently occupies. Returns -1 when the bot is not in a channel.
func (b *Bot) countListeners(guildID string) int {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil || b.dg.State.User == nil {
		return -1
	}

	var botChannel string
	for _, vs := range guild.VoiceStates {
		if vs.UserID == b.dg.State.User.ID {
			botChannel = vs.ChannelID
			break
		}
	}
	if botChannel == "" {
		return -1
	}

	listeners := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != botChannel || vs.UserID == b.dg.State.User.ID {
			continue
		}
		if member, err := b.dg.State.Member(guildID, vs.UserID); err == nil && member.User != nil && member.User.Bot {
			continue
		}
		listeners++
	}
	return listeners
}

// findUserVoiceChannel reports which voice channel the user occupies.
func (b *Bot) findUserVoiceChannel(guildID, userID string) (string, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("retrieve guild: %w", err)
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", session.ErrNoMutualVoiceChannel
}
