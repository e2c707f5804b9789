package util

import (
	"strings"

	"github.com/disgoorg/disgo/discord"
)

// EmojiKey returns the reaction form of an emoji: "name:id" for custom emojis
// and the character itself for unicode ones.
func EmojiKey(emoji discord.PartialEmoji) string {
	var name string
	if emoji.Name != nil {
		name = *emoji.Name
	}
	if emoji.ID == nil {
		return name
	}
	return name + ":" + emoji.ID.String()
}

// NormalizeEmoji accepts the mention form ("<:name:id>", "<a:name:id>") as
// well as the reaction form and returns the reaction form.
func NormalizeEmoji(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") || !strings.HasSuffix(s, ">") {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
	s = strings.TrimPrefix(s, "a:")
	return strings.TrimPrefix(s, ":")
}

// IsAnimated reports whether s is the mention form of an animated emoji.
func IsAnimated(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "<a:")
}

// EmojiMention renders a reaction-form emoji so it displays inside messages.
func EmojiMention(key string, animated bool) string {
	if !strings.Contains(key, ":") {
		return key
	}
	if animated {
		return "<a:" + key + ">"
	}
	return "<:" + key + ">"
}
