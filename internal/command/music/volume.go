package music

import (
	"fmt"
	"strconv"
	"strings"

	"jukebox/internal/command"
	"jukebox/internal/session"
)

// VolumeCommand reads or sets the session volume and persists the value as
// the guild default.
type VolumeCommand struct{}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Show or set the playback volume (0-150)" }
func (c *VolumeCommand) Aliases() []string   { return []string{"vol"} }
func (c *VolumeCommand) Category() string    { return "🎵 Music" }

func (c *VolumeCommand) Run(ctx *command.Context) session.Reply {
	sess := ctx.Session()

	arg := strings.TrimSpace(ctx.Args)
	if arg == "" {
		return session.Info("Volume", fmt.Sprintf("Current volume: **%d%%**", sess.Volume()))
	}

	percent, err := strconv.Atoi(arg)
	if err != nil {
		return session.Warn("Invalid Volume", "Give me a number between 0 and 150.")
	}

	applied := sess.SetVolume(percent)
	if err := ctx.Storage.SetVolume(ctx.GuildID, applied); err != nil {
		ctx.Log.Warn().Err(err).Msg("failed to persist volume")
	}
	return session.Info("Volume", fmt.Sprintf("Volume set to **%d%%**", applied))
}
