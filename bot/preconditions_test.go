package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/stretchr/testify/assert"
)

func TestCombineVerdicts(t *testing.T) {
	u, a, d := restrictions.VerdictUnset, restrictions.VerdictAllow, restrictions.VerdictDeny

	assert.Equal(t, u, CombineVerdicts())
	assert.Equal(t, u, CombineVerdicts(u, u, u))
	assert.Equal(t, a, CombineVerdicts(u, a, u))
	assert.Equal(t, d, CombineVerdicts(a, u, d))
	assert.Equal(t, d, CombineVerdicts(d, a, a))
}

func TestHasPermissionLevel(t *testing.T) {
	assert.True(t, HasPermissionLevel(Everyone, 0, false, false))
	assert.False(t, HasPermissionLevel(Trainee, 0, false, false))

	assert.True(t, HasPermissionLevel(Trainee, discordgo.PermissionManageMessages, false, false))
	assert.False(t, HasPermissionLevel(Staff, discordgo.PermissionManageMessages, false, false))

	assert.True(t, HasPermissionLevel(Trainee, discordgo.PermissionBanMembers, false, false))
	assert.True(t, HasPermissionLevel(Moderator, discordgo.PermissionBanMembers, false, false))

	assert.True(t, HasPermissionLevel(Administrator, discordgo.PermissionManageServer, false, false))
	assert.False(t, HasPermissionLevel(ServerOwner, discordgo.PermissionAdministrator, false, false))

	assert.True(t, HasPermissionLevel(ServerOwner, 0, true, false))
	assert.False(t, HasPermissionLevel(BotOwner, 0, true, false))
	assert.True(t, HasPermissionLevel(BotOwner, 0, false, true))
}

func TestMemberLevel(t *testing.T) {
	assert.Equal(t, Staff, MemberLevel(discordgo.PermissionKickMembers|discordgo.PermissionManageMessages, false, false))
	assert.Equal(t, Administrator, MemberLevel(discordgo.PermissionAdministrator, false, false))
	assert.Equal(t, "Moderator", Moderator.String())
}

func TestCommandDefaults(t *testing.T) {
	cmd := &Command{Name: "x"}
	assert.Equal(t, DefaultCooldown, cmd.CooldownDelay())

	cmd.Cooldown = -1
	assert.Zero(t, cmd.CooldownDelay())

	cmd.RequiredClientPermissions = discordgo.PermissionManageNicknames
	perms := cmd.ClientPermissions()
	assert.NotZero(t, perms&discordgo.PermissionSendMessages)
	assert.NotZero(t, perms&discordgo.PermissionEmbedLinks)
	assert.NotZero(t, perms&discordgo.PermissionViewChannel)
	assert.NotZero(t, perms&discordgo.PermissionManageNicknames)
}

func TestHasFeature(t *testing.T) {
	g := &discordgo.Guild{Features: []discordgo.GuildFeature{"NEWS", communityFeature}}
	assert.True(t, hasFeature(g, communityFeature))
	assert.False(t, hasFeature(&discordgo.Guild{}, communityFeature))
}
