package utils

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// BasePermissions is the guild level permission set of a member: @everyone
// plus every role they hold. Owners get everything.
func BasePermissions(g *discordgo.Guild, m *discordgo.Member) int64 {
	if g.OwnerID == m.User.ID {
		return discordgo.PermissionAll
	}

	var perms int64
	for _, role := range g.Roles {
		if role.ID == g.ID || slices.Contains(m.Roles, role.ID) {
			perms |= role.Permissions
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}

	return perms
}

// ChannelPermissions resolves a member's permissions in c. Overwrites apply in
// three layers, @everyone then the member's roles merged together then the
// member itself, each layer clearing its denies before adding its allows.
func ChannelPermissions(g *discordgo.Guild, m *discordgo.Member, c *discordgo.Channel) int64 {
	perms := BasePermissions(g, m)
	if perms == discordgo.PermissionAll || c == nil {
		return perms
	}

	var everyone, roles, member overwrite
	for _, ow := range c.PermissionOverwrites {
		switch {
		case ow.Type == discordgo.PermissionOverwriteTypeRole && ow.ID == g.ID:
			everyone.merge(ow)
		case ow.Type == discordgo.PermissionOverwriteTypeRole && slices.Contains(m.Roles, ow.ID):
			roles.merge(ow)
		case ow.Type == discordgo.PermissionOverwriteTypeMember && ow.ID == m.User.ID:
			member.merge(ow)
		}
	}

	for _, layer := range []overwrite{everyone, roles, member} {
		perms = layer.apply(perms)
	}

	return perms
}

type overwrite struct {
	allow, deny int64
}

func (o *overwrite) merge(ow *discordgo.PermissionOverwrite) {
	o.allow |= ow.Allow
	o.deny |= ow.Deny
}

func (o overwrite) apply(perms int64) int64 {
	return perms&^o.deny | o.allow
}

// HighestRolePosition returns the position of the member's highest role, 0 for @everyone only
func HighestRolePosition(g *discordgo.Guild, m *discordgo.Member) int {
	var highest int
	for _, role := range g.Roles {
		if role.Position > highest && slices.Contains(m.Roles, role.ID) {
			highest = role.Position
		}
	}
	return highest
}

// CanModerate reports whether actor outranks target: target is not the owner
// and actor is the owner or holds a strictly higher role.
func CanModerate(g *discordgo.Guild, actor, target *discordgo.Member) bool {
	if target.User.ID == g.OwnerID {
		return false
	}

	if actor.User.ID == g.OwnerID {
		return true
	}

	return HighestRolePosition(g, actor) > HighestRolePosition(g, target)
}
