package platform

import (
	"testing"

	"community-bot/pkg/announce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEmbed(t *testing.T) {
	embed := NotificationEmbed(announce.Notification{
		Title:        "Office Hours",
		Body:         "Room 101 at noon",
		Footer:       "Join if you need any help!",
		ThumbnailURL: "https://example.com/logo.png",
		Color:        0x2ECC71,
	})

	assert.Equal(t, "Office Hours", embed.Title)
	assert.Equal(t, "Room 101 at noon", embed.Description)
	assert.Equal(t, 0x2ECC71, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Join if you need any help!", embed.Footer.Text)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, "https://example.com/logo.png", embed.Thumbnail.URL)
}

func TestNotificationEmbedWithoutBranding(t *testing.T) {
	embed := NotificationEmbed(announce.Notification{Title: "Office Hours", Body: "text"})

	assert.Nil(t, embed.Footer)
	assert.Nil(t, embed.Thumbnail)
}

func TestGuildRecordsFirstGuildOnly(t *testing.T) {
	g := New(nil, 0)
	assert.True(t, g.SetGuild(10))
	assert.False(t, g.SetGuild(20))
	assert.EqualValues(t, 10, g.GuildID())

	configured := New(nil, 5)
	assert.False(t, configured.SetGuild(20))
	assert.EqualValues(t, 5, configured.GuildID())
}
