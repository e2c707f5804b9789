// Package platform adapts the disgo REST client to the collaborator
// interfaces used by the announcement scheduler, the role menu and the
// greeter. All calls target the single guild the bot serves.
package platform

import (
	"context"
	"sync/atomic"

	"community-bot/pkg/announce"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

var errNoGuild = errors.New("guild is not known yet")

type Guild struct {
	rest    rest.Rest
	guildID atomic.Uint64
	selfID  atomic.Uint64
}

func New(r rest.Rest, guildID snowflake.ID) *Guild {
	g := &Guild{rest: r}
	g.guildID.Store(uint64(guildID))
	return g
}

// SetGuild records the guild from the READY payload unless one was configured.
func (g *Guild) SetGuild(guildID snowflake.ID) bool {
	return g.guildID.CompareAndSwap(0, uint64(guildID))
}

func (g *Guild) GuildID() snowflake.ID {
	return snowflake.ID(g.guildID.Load())
}

func (g *Guild) SetSelf(userID snowflake.ID) {
	g.selfID.Store(uint64(userID))
}

func (g *Guild) SelfID() snowflake.ID {
	return snowflake.ID(g.selfID.Load())
}

func (g *Guild) requireGuild() (snowflake.ID, error) {
	guildID := g.GuildID()
	if guildID == 0 {
		return 0, errNoGuild
	}
	return guildID, nil
}

// Deliver implements announce.Deliverer.
func (g *Guild) Deliver(ctx context.Context, channelID snowflake.ID, n announce.Notification) error {
	_, err := g.rest.CreateMessage(channelID, discord.NewMessageCreate().
		WithEmbeds(NotificationEmbed(n)), rest.WithCtx(ctx))
	return err
}

// ResolveChannel implements announce.ChannelResolver.
func (g *Guild) ResolveChannel(ctx context.Context, name string) (snowflake.ID, error) {
	channel, err := g.TextChannel(ctx, name)
	if err != nil {
		return 0, err
	}
	return channel.ID(), nil
}

func (g *Guild) TextChannel(ctx context.Context, name string) (discord.GuildChannel, error) {
	guildID, err := g.requireGuild()
	if err != nil {
		return nil, err
	}
	channels, err := g.rest.GetGuildChannels(guildID, rest.WithCtx(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "fetching guild channels")
	}
	for _, channel := range channels {
		if channel.Type() == discord.ChannelTypeGuildText && channel.Name() == name {
			return channel, nil
		}
	}
	return nil, &announce.ChannelMissingError{Name: name}
}

func (g *Guild) Roles(ctx context.Context) ([]discord.Role, error) {
	guildID, err := g.requireGuild()
	if err != nil {
		return nil, err
	}
	return g.rest.GetRoles(guildID, rest.WithCtx(ctx))
}

func (g *Guild) AddRole(ctx context.Context, userID snowflake.ID, roleID snowflake.ID) error {
	guildID, err := g.requireGuild()
	if err != nil {
		return err
	}
	return g.rest.AddMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
}

func (g *Guild) RemoveRole(ctx context.Context, userID snowflake.ID, roleID snowflake.ID) error {
	guildID, err := g.requireGuild()
	if err != nil {
		return err
	}
	return g.rest.RemoveMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
}

func (g *Guild) SendDM(ctx context.Context, userID snowflake.ID, content string) error {
	channel, err := g.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return errors.Wrap(err, "opening DM channel")
	}
	_, err = g.rest.CreateMessage(channel.ID(), discord.NewMessageCreate().
		WithContent(content), rest.WithCtx(ctx))
	return err
}

// LatestMessage returns the newest message of a channel, or nil when empty.
func (g *Guild) LatestMessage(ctx context.Context, channelID snowflake.ID) (*discord.Message, error) {
	messages, err := g.rest.GetMessages(channelID, 0, 0, 0, 1, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}

func (g *Guild) Message(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) (*discord.Message, error) {
	return g.rest.GetMessage(channelID, messageID, rest.WithCtx(ctx))
}

func (g *Guild) SendEmbed(ctx context.Context, channelID snowflake.ID, embed discord.Embed) (*discord.Message, error) {
	return g.rest.CreateMessage(channelID, discord.NewMessageCreate().
		WithEmbeds(embed).
		WithAllowedMentions(&discord.AllowedMentions{}), rest.WithCtx(ctx))
}

func (g *Guild) AddReaction(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, emoji string) error {
	return g.rest.AddReaction(channelID, messageID, emoji, rest.WithCtx(ctx))
}

// SendText posts content that may ping the users it mentions.
func (g *Guild) SendText(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := g.rest.CreateMessage(channelID, discord.NewMessageCreate().
		WithContent(content).
		WithAllowedMentions(&discord.AllowedMentions{
			Parse: []discord.AllowedMentionType{discord.AllowedMentionTypeUsers},
		}), rest.WithCtx(ctx))
	return err
}

func (g *Guild) Reply(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, message discord.MessageCreate) error {
	message.MessageReference = &discord.MessageReference{MessageID: &messageID}
	message.AllowedMentions = &discord.AllowedMentions{}
	_, err := g.rest.CreateMessage(channelID, message, rest.WithCtx(ctx))
	return err
}

func (g *Guild) MemberCount(ctx context.Context) (int, error) {
	guildID, err := g.requireGuild()
	if err != nil {
		return 0, err
	}
	guild, err := g.rest.GetGuild(guildID, true, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return guild.ApproximateMemberCount, nil
}
