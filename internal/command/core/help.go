package core

import (
	"fmt"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

// HelpCommand lists every registered command grouped by category.
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{"h", "commands"} }
func (c *HelpCommand) Category() string    { return "⚙️ Core" }

func (c *HelpCommand) Run(ctx *command.Context) session.Reply {
	byCategory := map[string][]command.Command{}
	var order []string
	for _, cmd := range ctx.Commands.All() {
		if _, seen := byCategory[cmd.Category()]; !seen {
			order = append(order, cmd.Category())
		}
		byCategory[cmd.Category()] = append(byCategory[cmd.Category()], cmd)
	}

	var b strings.Builder
	for _, category := range order {
		fmt.Fprintf(&b, "%s\n", category)
		for _, cmd := range byCategory[category] {
			fmt.Fprintf(&b, "`%s` — %s\n", cmd.Name(), cmd.Description())
		}
		b.WriteString("\n")
	}
	return session.Info("Commands", b.String())
}
