package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentErrorKnownIdentifiers(t *testing.T) {
	tests := map[string]string{
		ErrIdentifierArgsMissing:     "You are missing some arguments",
		ErrIdentifierArgsUnavailable: "Some arguments arent available",
		ErrIdentifierGuildOnly:       "This command can only run in guilds",
		ErrIdentifierNsfw:            "This command can only be used in NSFW channels",
	}

	for identifier, want := range tests {
		embed := PresentError(&UserError{Identifier: identifier})
		require.NotNil(t, embed, identifier)
		assert.Equal(t, want, embed.Description)
		assert.Equal(t, identifier, embed.Title)
		assert.Equal(t, styleColors[StyleDefault], embed.Color)
	}
}

func TestPresentErrorPermissions(t *testing.T) {
	embed := PresentError(&UserError{
		Identifier: ErrIdentifierClientPermissions,
		Context:    ErrorContext{Missing: []string{"EmbedLinks", "Administrator"}},
	})
	require.NotNil(t, embed)
	assert.Equal(t, "I need `Administrator` `Embed Links` permission(s) to run this command", embed.Description)

	embed = PresentError(&UserError{
		Identifier: ErrIdentifierUserPermissions,
		Context:    ErrorContext{Missing: []string{"BanMembers"}},
	})
	require.NotNil(t, embed)
	assert.Equal(t, "You need `Ban Members` permission to run this command", embed.Description)

	// not a moderation permission, still named
	embed = PresentError(&UserError{
		Identifier: ErrIdentifierClientPermissions,
		Context:    ErrorContext{Missing: []string{"SendMessages"}},
	})
	require.NotNil(t, embed)
	assert.Equal(t, "I need `Send Messages` permission to run this command", embed.Description)
}

func TestPresentErrorCooldown(t *testing.T) {
	embed := PresentError(&UserError{Identifier: ErrIdentifierCooldown, Context: ErrorContext{Remaining: 2.2}})
	require.NotNil(t, embed)
	assert.Equal(t, "Slow down! Try again in 3 second(s)", embed.Description)
}

func TestPresentErrorFallback(t *testing.T) {
	embed := PresentError(NewUserError("Provide a valid member to modnick"))
	require.NotNil(t, embed)
	assert.Equal(t, "Provide a valid member to modnick", embed.Description)
	assert.Equal(t, ErrIdentifierGeneric, embed.Title)
	assert.Equal(t, styleColors[StyleFail], embed.Color)

	embed = PresentError(errors.New("pg: connection reset"))
	require.NotNil(t, embed)
	assert.Equal(t, "Something went wrong", embed.Description)

	assert.Nil(t, PresentError(&UserError{Identifier: ErrIdentifierRestricted, Context: ErrorContext{Silent: true}}))
}
