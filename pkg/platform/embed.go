package platform

import (
	"community-bot/pkg/announce"

	"github.com/disgoorg/disgo/discord"
)

func NotificationEmbed(n announce.Notification) discord.Embed {
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle(n.Title)
	embedBuilder.SetDescription(n.Body)
	embedBuilder.SetColor(n.Color)
	if n.Footer != "" {
		embedBuilder.SetFooterText(n.Footer)
	}
	if n.ThumbnailURL != "" {
		embedBuilder.SetThumbnail(n.ThumbnailURL)
	}
	return embedBuilder.Build()
}
