package utils

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

func Pointer[T any](v T) *T {
	return &v
}

// https://github.com/bwmarrin/discordgo/blob/master/util.go#L111
func IconURL(iconHash, staticIconURL, animatedIconURL, size string) string {
	var URL string
	if iconHash == "" {
		return ""
	} else if strings.HasPrefix(iconHash, "a_") {
		URL = animatedIconURL
	} else {
		URL = staticIconURL
	}

	if size != "" {
		return URL + "?size=" + size
	}
	return URL
}

// GetTag returns username#discriminator, or just the username for accounts
// on the new username system
func GetTag(u *discordgo.User) string {
	if u == nil {
		return ""
	}

	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}

	return u.Username + "#" + u.Discriminator
}

// DisplayName is the guild nickname, then the global name, then the username
func DisplayName(m *discordgo.Member) string {
	if m == nil {
		return ""
	}

	if m.Nick != "" {
		return m.Nick
	}

	if m.User == nil {
		return ""
	}

	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}

	return m.User.Username
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
