package handlers

import (
	"community-bot/pkg"
	"log/slog"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const notAllowed = "You are not allowed to manage announcements."

var kindChoices = []discord.ApplicationCommandOptionChoiceString{
	{Name: "Recurring (every day)", Value: "recurring"},
	{Name: "One-time", Value: "onetime"},
}

// Commands are the slash commands served by NewHandler.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "announcements",
		Description: "Manage scheduled announcements",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "schedule",
				Description: "Schedule a one-time or daily announcement",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{Name: "date", Description: "Date as YYYY-MM-DD", Required: true},
					discord.ApplicationCommandOptionString{Name: "time", Description: "Time as HH:MM", Required: true},
					discord.ApplicationCommandOptionString{Name: "kind", Description: "Recurring or one-time", Required: true, Choices: kindChoices},
					discord.ApplicationCommandOptionString{Name: "text", Description: "Announcement text", Required: true, MaxLength: json.Ptr(MaxTextLength)},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "edit",
				Description: "Change the text of a scheduled announcement",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{Name: "id", Description: "Announcement ID", Required: true},
					discord.ApplicationCommandOptionString{Name: "text", Description: "New announcement text", Required: true, MaxLength: json.Ptr(MaxTextLength)},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "view",
				Description: "List upcoming announcements",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "delete",
				Description: "Delete a scheduled announcement",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{Name: "id", Description: "Announcement ID", Required: true},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "settings",
				Description: "Show where announcements are posted",
			},
		},
	},
}

func NewHandler(b *pkg.Bot, c *pkg.Config) *Handler {
	mux := handler.New()
	mux.Error(func(e *handler.InteractionEvent, err error) {
		i := e.Interaction.(discord.ApplicationCommandInteraction)
		slog.Error("handlers: error while handling a command", slog.String("command.name", i.Data.CommandName()), tint.Err(err))
		_ = e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
			WithContentf("There was an error while handling the command: %v", err).
			WithEphemeral(true))
	})
	handlers := &Handler{
		Bot:    b,
		Config: c,
		Router: mux,
	}
	handlers.Group(func(r handler.Router) {
		r.Route("/announcements", func(r handler.Router) {
			r.SlashCommand("/schedule", handlers.HandleScheduleSlash)
			r.SlashCommand("/edit", handlers.HandleEditSlash)
			r.Command("/view", handlers.HandleViewSlash)
			r.SlashCommand("/delete", handlers.HandleDeleteSlash)
			r.Command("/settings", handlers.HandleSettings)
		})
	})
	return handlers
}

type Handler struct {
	Bot    *pkg.Bot
	Config *pkg.Config
	handler.Router
}

// allowed reports whether a member with the given roles may manage
// announcements. Without a configured manager role everyone may.
func (h *Handler) allowed(roleIDs []snowflake.ID) bool {
	if h.Config.ManagerRoleID == 0 {
		return true
	}
	return slices.Contains(roleIDs, h.Config.ManagerRoleID)
}

func (h *Handler) allowedEvent(event *handler.CommandEvent) bool {
	member := event.Member()
	if member == nil {
		return h.allowed(nil)
	}
	return h.allowed(member.RoleIDs)
}

func (h *Handler) HandleScheduleSlash(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	if !h.allowedEvent(event) {
		return event.CreateMessage(discord.NewMessageCreate().WithContent(notAllowed).WithEphemeral(true))
	}
	return event.CreateMessage(h.scheduleAnnouncement(
		data.String("date"),
		data.String("time"),
		data.String("kind"),
		data.String("text"),
		event.Channel().ID()))
}

func (h *Handler) HandleEditSlash(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	if !h.allowedEvent(event) {
		return event.CreateMessage(discord.NewMessageCreate().WithContent(notAllowed).WithEphemeral(true))
	}
	return event.CreateMessage(h.editAnnouncement(data.String("id"), data.String("text")))
}

func (h *Handler) HandleViewSlash(event *handler.CommandEvent) error {
	if !h.allowedEvent(event) {
		return event.CreateMessage(discord.NewMessageCreate().WithContent(notAllowed).WithEphemeral(true))
	}
	return event.CreateMessage(h.viewAnnouncements())
}

func (h *Handler) HandleDeleteSlash(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	if !h.allowedEvent(event) {
		return event.CreateMessage(discord.NewMessageCreate().WithContent(notAllowed).WithEphemeral(true))
	}
	return event.CreateMessage(h.deleteAnnouncement(data.String("id")))
}
