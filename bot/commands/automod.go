package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/automod"
	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/utils"
)

func Automod(deps Deps) *bot.Command {
	return &bot.Command{
		Name:            "automod",
		Aliases:         []string{"am"},
		Description:     "Enable or disable automod rules",
		Usages:          []string{"enable Rule", "disable Rule", "view"},
		PermissionLevel: bot.Administrator,
		Run: func(c *bot.Context) error {
			return runAutomod(c, deps)
		},
	}
}

func runAutomod(c *bot.Context, deps Deps) error {
	sub, ok := c.Args.Pick()
	if !ok {
		sub = "view"
	}

	cfg := automod.New(deps.Pool, c.Guild.ID)

	switch strings.ToLower(sub) {
	case "view":
		settings, err := cfg.List(c)
		if err != nil {
			return fmt.Errorf("listing automod settings: %w", err)
		}

		_, err = c.Reply(automodOverviewEmbed(settings))
		return err
	case "enable", "disable":
		raw, ok := c.Args.Pick()
		if !ok {
			return &bot.UserError{Identifier: bot.ErrIdentifierArgsMissing}
		}

		rule, err := automod.ParseRule(raw)
		if err != nil {
			return bot.NewUserError(fmt.Sprintf("`%s` is not an automod rule", raw))
		}

		enable := strings.EqualFold(sub, "enable")
		if enable {
			err = cfg.EnableRule(c, rule)
		} else {
			err = cfg.DisableRule(c, rule)
		}

		if err != nil {
			return fmt.Errorf("updating automod rule: %w", err)
		}

		state := "Disabled"
		if enable {
			state = "Enabled"
		}

		return c.Success(fmt.Sprintf("%s `%s`", state, rule))
	default:
		return bot.NewUserError("Use `enable <rule>`, `disable <rule>` or `view`")
	}
}

func automodOverviewEmbed(settings []automod.Setting) *discordgo.MessageEmbed {
	var b strings.Builder
	for pair := automod.Overview(settings).Oldest(); pair != nil; pair = pair.Next() {
		emoji := bot.EmojiFail
		if pair.Value {
			emoji = bot.EmojiSuccess
		}
		fmt.Fprintf(&b, "%s %s\n", emoji, utils.CapitalizeWords(utils.FormatRole(string(pair.Key))))
	}

	return bot.NewEmbed().SetTitle("Automod").SetDescription(b.String()).Build()
}
