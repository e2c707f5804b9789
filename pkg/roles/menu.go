package roles

import (
	"context"
	"log/slog"
	"sync/atomic"

	"community-bot/pkg/util"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
)

const (
	menuTitle = "Design Team Roles"
	menuColor = 0x607D8B
)

type Guild interface {
	GuildID() snowflake.ID
	SelfID() snowflake.ID
	ResolveChannel(ctx context.Context, name string) (snowflake.ID, error)
	Roles(ctx context.Context) ([]discord.Role, error)
	AddRole(ctx context.Context, userID snowflake.ID, roleID snowflake.ID) error
	RemoveRole(ctx context.Context, userID snowflake.ID, roleID snowflake.ID) error
	SendDM(ctx context.Context, userID snowflake.ID, content string) error
	LatestMessage(ctx context.Context, channelID snowflake.ID) (*discord.Message, error)
	Message(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) (*discord.Message, error)
	SendEmbed(ctx context.Context, channelID snowflake.ID, embed discord.Embed) (*discord.Message, error)
	AddReaction(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, emoji string) error
}

// MessageStore remembers the role-selection message across restarts.
type MessageStore interface {
	RoleMessage(ctx context.Context, guildID snowflake.ID) (channelID snowflake.ID, messageID snowflake.ID, err error)
	SaveRoleMessage(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID, messageID snowflake.ID) error
}

// Menu owns the single role-selection message of the guild. Ensure sets it
// up once the gateway is ready; the reaction handlers only act on it.
type Menu struct {
	guild       Guild
	store       MessageStore
	channelName string
	options     []Option

	messageID atomic.Uint64
}

func NewMenu(guild Guild, store MessageStore, channelName string, options []Option) *Menu {
	normalized := make([]Option, len(options))
	for i, option := range options {
		option.Animated = option.Animated || util.IsAnimated(option.Emoji)
		option.Emoji = util.NormalizeEmoji(option.Emoji)
		normalized[i] = option
	}
	return &Menu{
		guild:       guild,
		store:       store,
		channelName: channelName,
		options:     normalized,
	}
}

func (m *Menu) MessageID() snowflake.ID {
	return snowflake.ID(m.messageID.Load())
}

// Ensure finds the existing role-selection message or posts a new one.
func (m *Menu) Ensure(ctx context.Context) error {
	var (
		channelID snowflake.ID
		roles     []discord.Role
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		channelID, err = m.guild.ResolveChannel(egCtx, m.channelName)
		return
	})
	eg.Go(func() (err error) {
		roles, err = m.guild.Roles(egCtx)
		return
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	if messageID := m.existingMessage(ctx, channelID); messageID != 0 {
		m.messageID.Store(uint64(messageID))
		slog.Info("roles: found existing role selection message", slog.Any("channel.id", channelID), slog.Any("message.id", messageID))
		m.save(ctx, channelID, messageID)
		return nil
	}

	message, err := m.guild.SendEmbed(ctx, channelID, m.Embed(roles))
	if err != nil {
		return errors.Wrap(err, "posting role selection message")
	}
	m.messageID.Store(uint64(message.ID))
	for _, option := range m.options {
		if err := m.guild.AddReaction(ctx, channelID, message.ID, option.Emoji); err != nil {
			slog.Error("roles: error while adding a reaction", slog.String("emoji", option.Emoji), slog.Any("message.id", message.ID), tint.Err(err))
		}
	}
	slog.Info("roles: created new role selection message", slog.Any("channel.id", channelID), slog.Any("message.id", message.ID))
	m.save(ctx, channelID, message.ID)
	return nil
}

func (m *Menu) existingMessage(ctx context.Context, channelID snowflake.ID) snowflake.ID {
	if m.store != nil {
		storedChannelID, messageID, err := m.store.RoleMessage(ctx, m.guild.GuildID())
		if err != nil {
			slog.Error("roles: error while reading the stored role message", slog.Any("guild.id", m.guild.GuildID()), tint.Err(err))
		} else if messageID != 0 && storedChannelID == channelID {
			if _, err := m.guild.Message(ctx, channelID, messageID); err == nil {
				return messageID
			}
			slog.Warn("roles: stored role message is gone", slog.Any("message.id", messageID))
		}
	}
	latest, err := m.guild.LatestMessage(ctx, channelID)
	if err != nil {
		slog.Error("roles: error while reading channel history", slog.Any("channel.id", channelID), tint.Err(err))
		return 0
	}
	if latest != nil && latest.Author.ID == m.guild.SelfID() {
		return latest.ID
	}
	return 0
}

func (m *Menu) save(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveRoleMessage(ctx, m.guild.GuildID(), channelID, messageID); err != nil {
		slog.Error("roles: error while storing the role message", slog.Any("message.id", messageID), tint.Err(err))
	}
}

// Embed lists every option whose role exists in the guild.
func (m *Menu) Embed(roles []discord.Role) discord.Embed {
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle(menuTitle)
	embedBuilder.SetColor(menuColor)
	embed := embedBuilder.Build()
	for _, option := range m.options {
		role, ok := findRole(roles, option.RoleName)
		if !ok {
			continue
		}
		value := util.EmojiMention(option.Emoji, option.Animated) + " " + role.Mention()
		if option.Description != "" {
			value += " - " + option.Description
		}
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:   "\u200b",
			Value:  value,
			Inline: json.Ptr(false),
		})
	}
	return embed
}

func (m *Menu) HandleReactionAdd(ctx context.Context, userID snowflake.ID, messageID snowflake.ID, emoji string, bot bool) error {
	option, role, ok, err := m.resolve(ctx, userID, messageID, emoji, bot)
	if !ok || err != nil {
		return err
	}
	if err := m.guild.AddRole(ctx, userID, role.ID); err != nil {
		return errors.Wrapf(err, "adding role %q", role.Name)
	}
	slog.Info("roles: role assigned", slog.Any("user.id", userID), slog.String("role.name", role.Name))
	if option.Greeting == "" {
		return nil
	}
	return m.guild.SendDM(ctx, userID, option.Greeting)
}

func (m *Menu) HandleReactionRemove(ctx context.Context, userID snowflake.ID, messageID snowflake.ID, emoji string) error {
	_, role, ok, err := m.resolve(ctx, userID, messageID, emoji, false)
	if !ok || err != nil {
		return err
	}
	if err := m.guild.RemoveRole(ctx, userID, role.ID); err != nil {
		return errors.Wrapf(err, "removing role %q", role.Name)
	}
	slog.Info("roles: role removed", slog.Any("user.id", userID), slog.String("role.name", role.Name))
	return m.guild.SendDM(ctx, userID, "You have removed the "+role.Name+".")
}

// resolve returns ok=false for reactions the menu ignores.
func (m *Menu) resolve(ctx context.Context, userID snowflake.ID, messageID snowflake.ID, emoji string, bot bool) (Option, discord.Role, bool, error) {
	if bot || userID == m.guild.SelfID() {
		return Option{}, discord.Role{}, false, nil
	}
	current := m.MessageID()
	if current == 0 || messageID != current {
		return Option{}, discord.Role{}, false, nil
	}
	option, ok := m.option(emoji)
	if !ok {
		return Option{}, discord.Role{}, false, nil
	}
	roles, err := m.guild.Roles(ctx)
	if err != nil {
		return Option{}, discord.Role{}, false, errors.Wrap(err, "fetching roles")
	}
	role, ok := findRole(roles, option.RoleName)
	if !ok {
		slog.Warn("roles: mapped role is missing", slog.String("role.name", option.RoleName))
		return Option{}, discord.Role{}, false, nil
	}
	return option, role, true, nil
}

func (m *Menu) option(emoji string) (Option, bool) {
	emoji = util.NormalizeEmoji(emoji)
	for _, option := range m.options {
		if option.Emoji == emoji {
			return option, true
		}
	}
	return Option{}, false
}

func findRole(roles []discord.Role, name string) (discord.Role, bool) {
	for _, role := range roles {
		if role.Name == name {
			return role, true
		}
	}
	return discord.Role{}, false
}
