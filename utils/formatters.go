package utils

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9_]`)
	keyPermission   = regexp.MustCompile(`(?i)mem|mana|min|men`)
	snowflake       = regexp.MustCompile(`^\d{15,21}$`)
)

// IsSnowflake reports whether s looks like a discord id
func IsSnowflake(s string) bool {
	return snowflake.MatchString(s)
}

// ReplaceNonAlphanumeric keeps only letters, digits and underscores
func ReplaceNonAlphanumeric(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// CapitalizeWords upper cases the first letter of every space separated word
//
//	CapitalizeWords("hello world!") -> "Hello World!"
func CapitalizeWords(sentence string) string {
	caser := cases.Title(language.Und, cases.NoLower)

	words := strings.Split(sentence, " ")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// FormatRole splits a PascalCase permission name into words
//
//	FormatRole("SendTTSMessages") -> "Send TTS Messages"
func FormatRole(perm string) string {
	var b strings.Builder
	for _, r := range perm {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}

	s := strings.TrimSpace(b.String())
	s = strings.ReplaceAll(s, "T T S", "TTS")
	s = strings.ReplaceAll(s, "V A D", "VAD")
	return s
}

// FormatRoles formats permission names, most important first. When key is
// set only moderation relevant permissions are kept.
func FormatRoles(perms []string, key bool) []string {
	sorted := make([]string, len(perms))
	copy(sorted, perms)

	sort.SliceStable(sorted, func(i, j int) bool {
		return permissionOrder[sorted[i]] > permissionOrder[sorted[j]]
	})

	out := make([]string, 0, len(sorted))
	for _, p := range sorted {
		f := FormatRole(p)

		if key && !keyPermission.MatchString(f) {
			continue
		}

		out = append(out, f)
	}

	return out
}

// AndList joins items like "a, b and c"
func AndList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

var permissionOrder = map[string]int{
	"ViewChannel":                      0,
	"SendMessages":                     1,
	"EmbedLinks":                       2,
	"ReadMessageHistory":               3,
	"Connect":                          4,
	"Speak":                            5,
	"UseEmbeddedActivities":            5,
	"Stream":                           5,
	"AttachFiles":                      6,
	"SendVoiceMessages":                6,
	"AddReactions":                     7,
	"CreateInstantInvite":              8,
	"UseExternalEmojis":                9,
	"UseExternalStickers":              9,
	"UseExternalSounds":                9,
	"PrioritySpeaker":                  10,
	"UseSoundboard":                    10,
	"SendMessagesInThreads":            10,
	"SendTTSMessages":                  10,
	"UseVAD":                           11,
	"ChangeNickname":                   12,
	"UseApplicationCommands":           13,
	"RequestToSpeak":                   14,
	"CreatePublicThreads":              15,
	"CreatePrivateThreads":             16,
	"ViewGuildInsights":                19,
	"DeafenMembers":                    20,
	"ManageThreads":                    20,
	"MoveMembers":                      20,
	"MuteMembers":                      20,
	"ManageEmojisAndStickers":          21,
	"ManageGuildExpressions":           21,
	"ManageEvents":                     21,
	"ManageMessages":                   22,
	"ManageWebhooks":                   23,
	"ManageNicknames":                  24,
	"ManageRoles":                      25,
	"ModerateMembers":                  26,
	"ViewAuditLog":                     27,
	"ViewCreatorMonetizationAnalytics": 27,
	"KickMembers":                      28,
	"BanMembers":                       29,
	"ManageChannels":                   30,
	"ManageGuild":                      31,
	"MentionEveryone":                  32,
	"Administrator":                    40,
}
