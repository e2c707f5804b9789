package handlers

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

// HandleText runs a prefix command. It reports false when content is not
// one of the announcement commands, in which case no reply is due.
func (h *Handler) HandleText(content string, channelID snowflake.ID, roleIDs []snowflake.ID) (discord.MessageCreate, bool) {
	rest, ok := strings.CutPrefix(content, h.Config.Prefix)
	if !ok {
		return discord.MessageCreate{}, false
	}
	args, rest := splitArgs(rest, 1)
	if len(args) == 0 {
		return discord.MessageCreate{}, false
	}
	switch args[0] {
	case "schedule_announcement", "edit_announcement", "view_announcements", "delete_announcement":
	default:
		return discord.MessageCreate{}, false
	}
	if !h.allowed(roleIDs) {
		return discord.NewMessageCreate().WithContent(notAllowed), true
	}

	switch args[0] {
	case "schedule_announcement":
		args, text := splitArgs(rest, 3)
		if len(args) < 3 {
			return discord.NewMessageCreate().WithContent(scheduleUsage), true
		}
		return h.scheduleAnnouncement(args[0], args[1], args[2], text, channelID), true
	case "edit_announcement":
		args, text := splitArgs(rest, 1)
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return h.editAnnouncement(id, text), true
	case "view_announcements":
		return h.viewAnnouncements(), true
	default:
		args, _ := splitArgs(rest, 1)
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return h.deleteAnnouncement(id), true
	}
}

func (h *Handler) OnGuildMessageCreate(ev *events.GuildMessageCreate) {
	if ev.Message.Author.Bot {
		return
	}
	var roleIDs []snowflake.ID
	if ev.Message.Member != nil {
		roleIDs = ev.Message.Member.RoleIDs
	}
	reply, ok := h.HandleText(ev.Message.Content, ev.ChannelID, roleIDs)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.Config.DeliveryTimeout)
	defer cancel()
	if err := h.Bot.Guild.Reply(ctx, ev.ChannelID, ev.MessageID, reply); err != nil {
		slog.Error("handlers: error while replying to a command", slog.Any("channel.id", ev.ChannelID), slog.Any("message.id", ev.MessageID), tint.Err(err))
	}
}

// splitArgs takes up to n whitespace separated words off the front of s and
// returns them with the remainder, which keeps its inner line breaks.
func splitArgs(s string, n int) ([]string, string) {
	args := make([]string, 0, n)
	for len(args) < n {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			break
		}
		end := strings.IndexFunc(s, unicode.IsSpace)
		if end == -1 {
			end = len(s)
		}
		args = append(args, s[:end])
		s = s[end:]
	}
	return args, strings.TrimSpace(s)
}
