package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	clinetembed "github.com/clinet/discordgo-embed"

	"jukebox/internal/command"
	"jukebox/internal/command/music"
	"jukebox/internal/session"
)

const (
	colorInfo  = 0x00b0f4
	colorWarn  = 0xf4b400
	colorError = 0xdb4437
)

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	// A bare number from a user with a live selection is their pick.
	if pick, err := strconv.Atoi(content); err == nil {
		if sess, ok := b.sessions.Get(m.GuildID); ok && sess.Selections().Has(m.Author.ID) {
			b.sendReply(m.ChannelID, b.HandleSelectionReply(m.GuildID, m.Author.ID, m.ChannelID, pick))
		}
		return
	}

	name, args, ok := parseCommand(content, b.guildPrefix(m.GuildID), b.selfMentions())
	if !ok {
		return
	}

	reply := b.HandleCommand(m.GuildID, m.Author.ID, m.ChannelID, name, args)
	b.sendReply(m.ChannelID, reply)
}

// HandleCommand runs one named command for a guild member and returns the
// reply to render. Unknown names yield an empty reply, which is not sent.
func (b *Bot) HandleCommand(guildID, userID, channelID, name, args string) session.Reply {
	cmd, ok := b.commands.Get(name)
	if !ok {
		return session.Reply{}
	}
	return cmd.Run(b.commandContext(guildID, userID, channelID, args))
}

// HandleSelectionReply consumes the user's pending search selection and
// queues the chosen track.
func (b *Bot) HandleSelectionReply(guildID, userID, channelID string, pick int) session.Reply {
	sess, ok := b.sessions.Get(guildID)
	if !ok {
		return session.Warn("No Pending Selection", "You have no search waiting for a pick.")
	}
	sess.Bind(channelID)

	track, err := sess.Selections().Resolve(userID, pick)
	switch {
	case errors.Is(err, session.ErrNoPendingSelection):
		return session.Warn("No Pending Selection", "Your selection expired. Search again.")
	case errors.Is(err, session.ErrOutOfRange):
		return session.Warn("Out of Range", "Pick one of the listed numbers.")
	case err != nil:
		return session.Error("Selection Failed", err.Error())
	}

	ctx := b.commandContext(guildID, userID, channelID, "")
	return music.EnqueueResolved(ctx, track)
}

func (b *Bot) commandContext(guildID, userID, channelID, args string) *command.Context {
	return &command.Context{
		GuildID:      guildID,
		UserID:       userID,
		ChannelID:    channelID,
		Args:         args,
		Sessions:     b.sessions,
		Resolver:     b.resolver,
		Storage:      b.store,
		Commands:     b.commands,
		VoiceChannel: b.findUserVoiceChannel,
		Log:          b.log,
	}
}

func (b *Bot) guildPrefix(guildID string) string {
	if prefix, err := b.store.Prefix(guildID); err == nil && prefix != "" {
		return prefix
	}
	return b.cfg.DefaultPrefix
}

// selfMentions returns the raw mention forms that can stand in for the
// prefix, empty before the gateway handshake completes.
func (b *Bot) selfMentions() []string {
	if b.dg.State.User == nil {
		return nil
	}
	id := b.dg.State.User.ID
	return []string{"<@" + id + ">", "<@!" + id + ">"}
}

// parseCommand splits a message into command name and argument text if it
// starts with the guild prefix or a mention of the bot.
func parseCommand(content, prefix string, mentions []string) (name, args string, ok bool) {
	var rest string
	switch {
	case hasMentionPrefix(content, mentions, &rest):
	case prefix != "" && strings.HasPrefix(content, prefix):
		rest = content[len(prefix):]
	default:
		return "", "", false
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", "", false
	}

	name, args, _ = strings.Cut(rest, " ")
	return strings.ToLower(name), strings.TrimSpace(args), true
}

func hasMentionPrefix(content string, mentions []string, rest *string) bool {
	for _, mention := range mentions {
		if strings.HasPrefix(content, mention) {
			*rest = content[len(mention):]
			return true
		}
	}
	return false
}

// sendReply renders a Reply as an embed. Also used by the session layer for
// async announcements to the bound channel.
func (b *Bot) sendReply(channelID string, reply session.Reply) {
	if channelID == "" || (reply.Title == "" && reply.Description == "") {
		return
	}

	color := colorInfo
	switch reply.Severity {
	case session.SeverityWarn:
		color = colorWarn
	case session.SeverityError:
		color = colorError
	}

	msg := clinetembed.NewEmbed().
		SetTitle(reply.Title).
		SetDescription(reply.Description).
		SetColor(color).
		MessageEmbed

	if _, err := b.dg.ChannelMessageSendEmbed(channelID, msg); err != nil {
		b.log.Warn().Err(err).Str("channel_id", channelID).Msg("failed to send reply")
	}
}
