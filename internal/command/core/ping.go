package core

import (
	"jukebox/internal/command"
	"jukebox/internal/session"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check that the bot is alive" }
func (c *PingCommand) Aliases() []string   { return nil }
func (c *PingCommand) Category() string    { return "⚙️ Core" }

func (c *PingCommand) Run(ctx *command.Context) session.Reply {
	return session.Info("Pong", "Still here.")
}
