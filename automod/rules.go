package automod

import (
	"errors"
	"strings"
)

var ErrUnknownRule = errors.New("automod: unknown rule")

// Rule names a single automod check
type Rule string

const (
	BannedWords    Rule = "bannedWords"
	Capitalization Rule = "capitalization"
	InviteLinks    Rule = "inviteLinks"
	LinkCooldown   Rule = "linkCooldown"
	Links          Rule = "links"
	MassMention    Rule = "massMention"
	NewLines       Rule = "newLines"
	Spam           Rule = "spam"
	Stickers       Rule = "stickers"
)

// Rules in display order
var Rules = []Rule{
	BannedWords,
	Capitalization,
	InviteLinks,
	LinkCooldown,
	Links,
	MassMention,
	NewLines,
	Spam,
	Stickers,
}

func normalizeRuleName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, " ", "")
}

// ParseRule accepts the rule name in any case, with or without - or _ separators
func ParseRule(s string) (Rule, error) {
	n := normalizeRuleName(s)

	for _, r := range Rules {
		if normalizeRuleName(string(r)) == n {
			return r, nil
		}
	}

	return "", ErrUnknownRule
}
