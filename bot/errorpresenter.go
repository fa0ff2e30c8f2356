package bot

import (
	"fmt"
	"math"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/utils"
)

// PresentError maps an error to the embed shown to the invoker. It returns nil
// for silent errors.
func PresentError(err error) *discordgo.MessageEmbed {
	ue, ok := AsUserError(err)
	if !ok {
		ue = NewUserError("Something went wrong")
	}

	if ue.Context.Silent {
		return nil
	}

	title := ue.Identifier
	if title == "" {
		title = ErrIdentifierGeneric
	}

	content := presentIdentifier(ue)
	if content == "" {
		return NewEmbed().
			SetStyle(StyleFail).
			SetTitle(title).
			SetDescription(ue.Error()).
			Build()
	}

	return NewEmbed().
		SetTitle(title).
		SetDescription(content).
		Build()
}

func presentIdentifier(ue *UserError) string {
	switch ue.Identifier {
	case ErrIdentifierArgsMissing:
		return "You are missing some arguments"
	case ErrIdentifierArgsUnavailable:
		return "Some arguments arent available"
	case ErrIdentifierGuildOnly:
		return "This command can only run in guilds"
	case ErrIdentifierNsfw:
		return "This command can only be used in NSFW channels"
	case ErrIdentifierCommunity:
		return "This command can only be used in community servers"
	case ErrIdentifierUserPermissions:
		return fmt.Sprintf("You need %s to run this command", formatMissing(ue.Context.Missing))
	case ErrIdentifierClientPermissions:
		return fmt.Sprintf("I need %s to run this command", formatMissing(ue.Context.Missing))
	case ErrIdentifierRestricted:
		return "This command has been restricted here"
	case ErrIdentifierCooldown:
		return fmt.Sprintf("Slow down! Try again in %d second(s)", int(math.Ceil(ue.Context.Remaining)))
	default:
		return ""
	}
}

// formatMissing lists every missing permission. The key permission filter of
// FormatRoles would leave nothing for SendMessages or EmbedLinks.
func formatMissing(missing []string) string {
	suffix := ""
	if len(missing) > 1 {
		suffix = "(s)"
	}
	return fmt.Sprintf("`%s` permission%s", strings.Join(utils.FormatRoles(missing, false), "` `"), suffix)
}
