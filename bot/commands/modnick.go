package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/modlog"
	"github.com/cardinal-bot/cardinal/utils"
	"github.com/infinitybotlist/eureka/crypto"
	"go.uber.org/zap"
)

const (
	maxNicknameLength = 32
	frozenSuffix      = " ❄️"
)

func Modnick(deps Deps) *bot.Command {
	return &bot.Command{
		Name:         "modnick",
		Aliases:      []string{"mod-nick"},
		Description:  "Moderate the nickname of a member",
		ExtendedHelp: "Change the nickname of a member to something random or something of your choosing",
		Usages: []string{
			"User",
			"User Modnick",
			"User --f",
			"User Modnick --freeze",
		},
		PermissionLevel:           bot.Trainee,
		RequiredClientPermissions: discordgo.PermissionManageNicknames,
		Flags:                     []string{"freeze", "frozen", "f"},
		Run: func(c *bot.Context) error {
			return runModnick(c, deps)
		},
	}
}

// ModeratedNickname returns the nickname before the frozen marker, the
// nickname to set and the one to report
func ModeratedNickname(nick string, frozen bool) (base, set, full string) {
	base = nick
	if base == "" {
		base = "Moderated Nickname " + crypto.RandString(8)
	}

	full = base
	if frozen {
		full += frozenSuffix
	}

	return base, utils.Truncate(full, maxNicknameLength), full
}

func runModnick(c *bot.Context, deps Deps) error {
	frozen := c.Args.Flag("freeze", "frozen", "f")

	raw, _ := c.Args.Pick()
	targetID, ok := bot.ParseUserID(raw)
	if !ok {
		return bot.NewUserError("Provide a valid member to modnick")
	}

	target, err := bot.Member(c, c.Session, c.Guild.ID, targetID)
	if err != nil {
		return bot.NewUserError("Provide a valid member to modnick")
	}
	target.GuildID = c.Guild.ID

	self, err := bot.Member(c, c.Session, c.Guild.ID, c.Session.State.User.ID)
	if err != nil {
		return fmt.Errorf("fetching bot member: %w", err)
	}

	if !canModnick(c.Guild, self, target) {
		return bot.NewUserError("I cant modnick that user")
	}

	nick, set, full := ModeratedNickname(c.Args.Rest(), frozen)

	original := utils.DisplayName(target)

	if err := c.Session.GuildMemberNickname(c.Guild.ID, target.User.ID, set, discordgo.WithContext(c)); err != nil {
		c.Logger.Error("Failed to set nickname", zap.Error(err), zap.String("targetId", target.User.ID))
		return bot.NewUserError("Something went wrong")
	}

	_, err = modlog.CreateModnick(c, deps.Pool, c.Guild.ID, target.User.ID, c.Member.User.ID, modlog.ModnickData{
		ModeratedNickname: nick,
		OriginalNickname:  original,
		Frozen:            frozen,
	})
	if err != nil {
		// the nickname is already changed, only the log is lost
		c.Logger.Error("Failed to create modnick modlog", zap.Error(err), zap.String("targetId", target.User.ID))
	}

	return c.Success(fmt.Sprintf("Moderated `%s` with the nickname `%s`", utils.GetTag(target.User), full))
}

// canModnick requires the bot to outrank target and hold ManageNicknames
func canModnick(g *discordgo.Guild, self, target *discordgo.Member) bool {
	if !utils.CanModerate(g, self, target) {
		return false
	}

	perms := utils.BasePermissions(g, self)
	return utils.MissingPermissions(perms, discordgo.PermissionManageNicknames) == 0
}
