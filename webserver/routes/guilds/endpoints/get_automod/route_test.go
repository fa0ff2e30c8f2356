package get_automod

import (
	"testing"

	"github.com/cardinal-bot/cardinal/automod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	out := Overview([]automod.Setting{
		{Rule: automod.Links, Enabled: true},
		{Rule: automod.Spam, Enabled: false},
	})

	require.Len(t, out.Rules, len(automod.Rules))
	for i, r := range automod.Rules {
		assert.Equal(t, r, out.Rules[i].Rule)
		assert.Equal(t, r == automod.Links, out.Rules[i].Enabled)
	}
}
