package modlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModnickData(t *testing.T) {
	m := ModnickData{ModeratedNickname: "Golf", OriginalNickname: "clink", Frozen: true}.toMap()

	assert.Equal(t, "Golf", m["moderatedNickname"])
	assert.Equal(t, "clink", m["originalNickname"])
	assert.Equal(t, true, m["frozen"])
}

func TestCreateRequiresParticipants(t *testing.T) {
	_, err := Create(context.Background(), nil, Entry{GuildID: "G1", MemberID: "U1"})
	require.Error(t, err)
}
