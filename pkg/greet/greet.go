package greet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const wave = "\U0001F44B"

type Guild interface {
	ResolveChannel(ctx context.Context, name string) (snowflake.ID, error)
	MemberCount(ctx context.Context) (int, error)
	SendText(ctx context.Context, channelID snowflake.ID, content string) error
}

type Greeter struct {
	guild          Guild
	serverName     string
	welcomeChannel string
	rolesChannel   string
}

func New(guild Guild, serverName string, welcomeChannel string, rolesChannel string) *Greeter {
	return &Greeter{
		guild:          guild,
		serverName:     serverName,
		welcomeChannel: welcomeChannel,
		rolesChannel:   rolesChannel,
	}
}

// Welcome posts the greeting for a member who just joined.
func (g *Greeter) Welcome(ctx context.Context, user discord.User) error {
	if user.Bot {
		return nil
	}
	channelID, err := g.guild.ResolveChannel(ctx, g.welcomeChannel)
	if err != nil {
		return err
	}
	rolesMention := "#" + g.rolesChannel
	if rolesChannelID, err := g.guild.ResolveChannel(ctx, g.rolesChannel); err == nil {
		rolesMention = discord.ChannelMention(rolesChannelID)
	}
	count, err := g.guild.MemberCount(ctx)
	if err != nil {
		slog.Warn("greet: error while counting members", tint.Err(err))
	}
	if err := g.guild.SendText(ctx, channelID, g.Message(user.Mention(), rolesMention, count)); err != nil {
		return errors.Wrap(err, "sending welcome message")
	}
	return nil
}

func (g *Greeter) Message(userMention string, rolesMention string, memberCount int) string {
	msg := fmt.Sprintf("Thanks for joining the %s %s %s! Please check out %s and #rules for more information.",
		g.serverName, userMention, wave, rolesMention)
	if memberCount > 0 {
		msg += fmt.Sprintf(" We are now at %d members!", memberCount)
	}
	return msg
}
