package commands

import (
	"fmt"
	"strings"

	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/cardinal-bot/cardinal/utils"
)

const restrictUsage = "Use `allow|deny|unallow|undeny <command> <target>`, `reset <command>` or `view <command>`"

func Restrict(deps Deps) *bot.Command {
	return &bot.Command{
		Name:         "restrict",
		Aliases:      []string{"restrictions"},
		Description:  "Allow or deny commands for members, roles and channels",
		ExtendedHelp: "Deny always wins over allow. An allowed member, role or channel skips the permission level check of the command",
		Usages: []string{
			"allow Command Target",
			"deny Command Target",
			"unallow Command Target",
			"undeny Command Target",
			"reset Command",
			"view Command",
		},
		Guarded:         true,
		PermissionLevel: bot.Administrator,
		Flags:           []string{"member", "role", "channel"},
		Run: func(c *bot.Context) error {
			return runRestrict(c, deps)
		},
	}
}

// restrictOp is a parsed subcommand of restrict
type restrictOp struct {
	name   string
	action restrictions.Action
	remove bool
}

var restrictOps = map[string]restrictOp{
	"allow":   {name: "allow", action: restrictions.Allow},
	"deny":    {name: "deny", action: restrictions.Deny},
	"unallow": {name: "unallow", action: restrictions.Allow, remove: true},
	"undeny":  {name: "undeny", action: restrictions.Deny, remove: true},
}

// ParseTarget resolves a restriction target from a mention, or from a raw id
// and the --member, --role or --channel flag
func ParseTarget(raw string, member, role, channel bool) (restrictions.SubjectKind, string, bool) {
	if kind, id, ok := bot.ParseMention(raw); ok {
		return kind, id, true
	}

	if !utils.IsSnowflake(raw) {
		return 0, "", false
	}

	switch {
	case member:
		return restrictions.Member, raw, true
	case role:
		return restrictions.Role, raw, true
	case channel:
		return restrictions.Channel, raw, true
	default:
		return 0, "", false
	}
}

func runRestrict(c *bot.Context, deps Deps) error {
	sub, ok := c.Args.Pick()
	if !ok {
		return &bot.UserError{Identifier: bot.ErrIdentifierArgsMissing}
	}
	sub = strings.ToLower(sub)

	name, ok := c.Args.Pick()
	if !ok {
		return &bot.UserError{Identifier: bot.ErrIdentifierArgsMissing}
	}

	cmd, ok := deps.Find(name)
	if !ok {
		return bot.NewUserError(fmt.Sprintf("`%s` is not a command", name))
	}

	if cmd.Guarded {
		return bot.NewUserError(fmt.Sprintf("`%s` cannot be restricted", cmd.Name))
	}

	switch sub {
	case "view":
		return viewRestrictions(c, deps, cmd.Name)
	case "reset":
		if deps.Restrictions.Reset(c, c.Guild.ID, cmd.Name) {
			return c.Success(fmt.Sprintf("Updated restrictions for `%s`", cmd.Name))
		}
		return bot.NewUserError(fmt.Sprintf("No restrictions configured for `%s`", cmd.Name))
	}

	op, ok := restrictOps[sub]
	if !ok {
		return bot.NewUserError(restrictUsage)
	}

	raw, ok := c.Args.Pick()
	if !ok {
		return &bot.UserError{Identifier: bot.ErrIdentifierArgsMissing}
	}

	kind, id, ok := ParseTarget(raw, c.Args.Flag("member"), c.Args.Flag("role"), c.Args.Flag("channel"))
	if !ok {
		return bot.NewUserError("Provide a member, role or channel mention, or an id with `--member`, `--role` or `--channel`")
	}

	var updated bool
	if op.remove {
		updated = deps.Restrictions.RemoveSubject(c, c.Guild.ID, cmd.Name, kind, id, op.action)
	} else {
		updated = deps.Restrictions.AddSubject(c, c.Guild.ID, cmd.Name, kind, id, op.action)
	}

	if !updated {
		return bot.NewUserError("Something went wrong")
	}

	return c.Success(fmt.Sprintf("Updated restrictions for `%s`", cmd.Name))
}

func viewRestrictions(c *bot.Context, deps Deps, command string) error {
	lookup := deps.Restrictions.Lookup(c, c.Guild.ID, command)

	switch lookup.Status {
	case restrictions.LookupFailed:
		return fmt.Errorf("loading restrictions: %w", lookup.Err)
	case restrictions.NotConfigured:
		return bot.NewUserError(fmt.Sprintf("No restrictions configured for `%s`", command))
	}

	embed := bot.NewEmbed().SetTitle(fmt.Sprintf("Restrictions for %s", command))
	for _, kind := range restrictions.SubjectKinds {
		for _, action := range []restrictions.Action{restrictions.Allow, restrictions.Deny} {
			embed.AddField(
				utils.CapitalizeWords(fmt.Sprintf("%s %ss", action, kind)),
				formatSubjects(kind, lookup.Record.Subjects(kind, action)),
				true,
			)
		}
	}

	_, err := c.Reply(embed.Build())
	return err
}

// formatSubjects renders ids as mentions
func formatSubjects(kind restrictions.SubjectKind, ids []string) string {
	if len(ids) == 0 {
		return "None"
	}

	mentions := make([]string, len(ids))
	for i, id := range ids {
		switch kind {
		case restrictions.Role:
			mentions[i] = "<@&" + id + ">"
		case restrictions.Channel:
			mentions[i] = "<#" + id + ">"
		default:
			mentions[i] = "<@" + id + ">"
		}
	}

	return utils.Truncate(strings.Join(mentions, " "), 1024)
}
