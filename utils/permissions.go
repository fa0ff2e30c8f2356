package utils

import "github.com/bwmarrin/discordgo"

// Discord permission flags by name, https://discord.com/developers/docs/topics/permissions
var permissionBits = []struct {
	bit  int64
	name string
}{
	{1 << 0, "CreateInstantInvite"},
	{1 << 1, "KickMembers"},
	{1 << 2, "BanMembers"},
	{1 << 3, "Administrator"},
	{1 << 4, "ManageChannels"},
	{1 << 5, "ManageGuild"},
	{1 << 6, "AddReactions"},
	{1 << 7, "ViewAuditLog"},
	{1 << 8, "PrioritySpeaker"},
	{1 << 9, "Stream"},
	{1 << 10, "ViewChannel"},
	{1 << 11, "SendMessages"},
	{1 << 12, "SendTTSMessages"},
	{1 << 13, "ManageMessages"},
	{1 << 14, "EmbedLinks"},
	{1 << 15, "AttachFiles"},
	{1 << 16, "ReadMessageHistory"},
	{1 << 17, "MentionEveryone"},
	{1 << 18, "UseExternalEmojis"},
	{1 << 19, "ViewGuildInsights"},
	{1 << 20, "Connect"},
	{1 << 21, "Speak"},
	{1 << 22, "MuteMembers"},
	{1 << 23, "DeafenMembers"},
	{1 << 24, "MoveMembers"},
	{1 << 25, "UseVAD"},
	{1 << 26, "ChangeNickname"},
	{1 << 27, "ManageNicknames"},
	{1 << 28, "ManageRoles"},
	{1 << 29, "ManageWebhooks"},
	{1 << 30, "ManageGuildExpressions"},
	{1 << 31, "UseApplicationCommands"},
	{1 << 32, "RequestToSpeak"},
	{1 << 33, "ManageEvents"},
	{1 << 34, "ManageThreads"},
	{1 << 35, "CreatePublicThreads"},
	{1 << 36, "CreatePrivateThreads"},
	{1 << 37, "UseExternalStickers"},
	{1 << 38, "SendMessagesInThreads"},
	{1 << 39, "UseEmbeddedActivities"},
	{1 << 40, "ModerateMembers"},
	{1 << 41, "ViewCreatorMonetizationAnalytics"},
	{1 << 42, "UseSoundboard"},
	{1 << 45, "UseExternalSounds"},
	{1 << 46, "SendVoiceMessages"},
}

// PermissionNames returns the names of every flag set in perms, lowest bit first
func PermissionNames(perms int64) []string {
	var names []string
	for _, p := range permissionBits {
		if perms&p.bit == p.bit {
			names = append(names, p.name)
		}
	}
	return names
}

// MissingPermissions returns the flags of required that are not in have
func MissingPermissions(have, required int64) int64 {
	if have&discordgo.PermissionAdministrator != 0 {
		return 0
	}
	return required &^ have
}
