package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"
)

const settingsTimeout = 5 * time.Second

func (h *Handler) HandleSettings(event *handler.CommandEvent) error {
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	guildID := h.Bot.Guild.GuildID()

	var b strings.Builder
	fmt.Fprintf(&b, "Current mode is set to **%s**.\n", h.Config.TargetMode)
	fmt.Fprintf(&b, "Announcement channel: **#%s**\n", h.Config.AnnouncementChannel)
	fmt.Fprintf(&b, "Announcements scheduled: **%d**", h.Bot.Scheduler.Len())

	if h.Bot.DB != nil && guildID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), settingsTimeout)
		defer cancel()
		cfg, err := h.Bot.DB.GetGuildConfig(ctx, guildID)
		if err != nil {
			slog.Error("handlers: error while getting guild config", slog.Any("guild.id", guildID), tint.Err(err))
			return event.CreateMessage(messageCreate.WithContent("There was an error while getting the guild configuration."))
		}
		if cfg.RolesMessageID != 0 {
			fmt.Fprintf(&b, "\nRole menu: https://discord.com/channels/%d/%d/%d", guildID, cfg.RolesChannelID, cfg.RolesMessageID)
		}
	}
	return event.CreateMessage(messageCreate.WithContent(b.String()))
}
