// Package bot dispatches prefixed message commands and runs their preconditions
package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const DefaultCooldown = 5 * time.Second

// Permissions every command needs the bot to have in the channel
const baseClientPermissions = discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks | discordgo.PermissionViewChannel

type PermissionLevel int

const (
	Everyone PermissionLevel = iota
	Trainee
	Staff
	Moderator
	Administrator
	ServerOwner
	BotOwner
)

func (p PermissionLevel) String() string {
	switch p {
	case Everyone:
		return "Everyone"
	case Trainee:
		return "Trainee"
	case Staff:
		return "Staff"
	case Moderator:
		return "Moderator"
	case Administrator:
		return "Administrator"
	case ServerOwner:
		return "ServerOwner"
	case BotOwner:
		return "BotOwner"
	default:
		return fmt.Sprintf("PermissionLevel(%d)", int(p))
	}
}

type RunFunc func(c *Context) error

type Command struct {
	Name         string
	Aliases      []string
	Description  string
	ExtendedHelp string
	Usages       []string

	// Guarded commands cannot be restricted
	Guarded bool
	// Hidden commands are left out of listings
	Hidden bool
	// Community commands only run in community guilds
	Community bool

	PermissionLevel PermissionLevel

	// Added to SendMessages, EmbedLinks and ViewChannel
	RequiredClientPermissions int64

	// Zero means DefaultCooldown, negative disables the cooldown
	Cooldown time.Duration

	// Boolean --flags the command accepts
	Flags []string

	Run RunFunc
}

func (c *Command) ClientPermissions() int64 {
	return c.RequiredClientPermissions | baseClientPermissions
}

func (c *Command) CooldownDelay() time.Duration {
	if c.Cooldown == 0 {
		return DefaultCooldown
	}
	if c.Cooldown < 0 {
		return 0
	}
	return c.Cooldown
}
