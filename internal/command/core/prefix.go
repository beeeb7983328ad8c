package core

import (
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

const maxPrefixLength = 5

// PrefixCommand shows or changes the guild's command prefix. The change is
// applied only when the new prefix is valid; there is no fallthrough path
// that writes a rejected value.
type PrefixCommand struct {
	Default string
}

func (c *PrefixCommand) Name() string        { return "prefix" }
func (c *PrefixCommand) Description() string { return "Show or set the command prefix" }
func (c *PrefixCommand) Aliases() []string   { return nil }
func (c *PrefixCommand) Category() string    { return "⚙️ Core" }

func (c *PrefixCommand) Run(ctx *command.Context) session.Reply {
	arg := strings.TrimSpace(ctx.Args)
	if arg == "" {
		current, err := ctx.Storage.Prefix(ctx.GuildID)
		if err != nil || current == "" {
			current = c.Default
		}
		return session.Info("Prefix", "Current prefix: `"+current+"`")
	}

	if len(arg) > maxPrefixLength || strings.ContainsAny(arg, " \t") {
		return session.Warn("Invalid Prefix", "Prefixes are at most 5 characters with no spaces.")
	}

	if err := ctx.Storage.SetPrefix(ctx.GuildID, arg); err != nil {
		return session.Error("Prefix Not Saved", err.Error())
	}
	return session.Info("Prefix Updated", "New prefix: `"+arg+"`")
}
