package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/restrictions"
	"golang.org/x/exp/slices"
)

// Restrictions evaluates per-subject command restrictions
type Restrictions interface {
	EvaluateMember(ctx context.Context, guildID, command, memberID string) restrictions.Verdict
	EvaluateRoles(ctx context.Context, guildID, command string, roleIDs []string) restrictions.Verdict
	EvaluateChannel(ctx context.Context, guildID, command, channelID string) restrictions.Verdict
}

// Cooldowns claims a cooldown slot, returning false if one is already held
type Cooldowns interface {
	Claim(ctx context.Context, key string, value *int, expiry time.Duration) (bool, error)
	Expiry(ctx context.Context, key string) (time.Duration, error)
}

type Counter interface {
	IncrementOne(ctx context.Context, key string) error
}

// CombineVerdicts folds verdicts with deny over allow over unset
func CombineVerdicts(verdicts ...restrictions.Verdict) restrictions.Verdict {
	out := restrictions.VerdictUnset
	for _, v := range verdicts {
		switch v {
		case restrictions.VerdictDeny:
			return restrictions.VerdictDeny
		case restrictions.VerdictAllow:
			out = restrictions.VerdictAllow
		}
	}
	return out
}

// levelPermissions are the guild permissions granting each level
var levelPermissions = map[PermissionLevel]int64{
	Trainee:       discordgo.PermissionManageMessages,
	Staff:         discordgo.PermissionKickMembers,
	Moderator:     discordgo.PermissionBanMembers,
	Administrator: discordgo.PermissionAdministrator | discordgo.PermissionManageServer,
}

// MemberLevel is the highest permission level a member holds
func MemberLevel(perms int64, isOwner, isRoot bool) PermissionLevel {
	switch {
	case isRoot:
		return BotOwner
	case isOwner:
		return ServerOwner
	}

	for _, lvl := range []PermissionLevel{Administrator, Moderator, Staff, Trainee} {
		if perms&levelPermissions[lvl] != 0 {
			return lvl
		}
	}

	return Everyone
}

// HasPermissionLevel reports whether a member with the given guild permissions
// reaches required. Each level also implies the ones below it.
func HasPermissionLevel(required PermissionLevel, perms int64, isOwner, isRoot bool) bool {
	return MemberLevel(perms, isOwner, isRoot) >= required
}

func isRootUser(rootUsers []string, userID string) bool {
	return slices.Contains(rootUsers, userID)
}

func hasFeature(g *discordgo.Guild, feature discordgo.GuildFeature) bool {
	return slices.Contains(g.Features, feature)
}

func cooldownKey(command, userID string) string {
	return command + ":" + userID
}
