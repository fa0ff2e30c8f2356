package restrictions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvaluate(t *testing.T) {
	var nilRecord *Record
	assert.Equal(t, VerdictUnset, nilRecord.Evaluate(Member, "U1"))

	r := NewRecord(Key{"G1", "ban"})
	assert.Equal(t, VerdictUnset, r.Evaluate(Member, "U1"))

	r.Add(Role, "R1", Allow)
	r.Add(Role, "R2", Deny)
	assert.Equal(t, VerdictAllow, r.Evaluate(Role, "R1", "R2"))
	assert.Equal(t, VerdictDeny, r.Evaluate(Role, "R2"))
	assert.Equal(t, VerdictUnset, r.Evaluate(Role, "R3"))

	// subjects outside a non-empty allow set are not denied by it
	assert.Equal(t, VerdictUnset, r.Evaluate(Role, "R4"))
}

func TestRecordCloneIsDeep(t *testing.T) {
	r := NewRecord(Key{"G1", "ban"})
	r.Add(Member, "U1", Allow)

	c := r.Clone()
	c.Add(Member, "U2", Allow)

	assert.Equal(t, []string{"U1"}, r.AllowedMembers)
	assert.Equal(t, []string{"U1", "U2"}, c.AllowedMembers)
}

func TestKeyID(t *testing.T) {
	key := Key{GuildID: "110000000000000001", Command: "ban"}
	assert.Equal(t, "110000000000000001-ban", key.ID())
	assert.True(t, key.Valid())

	assert.False(t, Key{GuildID: "110000000000000001"}.Valid())
	assert.False(t, Key{GuildID: "G1", Command: "ban"}.Valid())
	assert.False(t, Key{GuildID: "1100000000-00001", Command: "ban"}.Valid())

	assert.True(t, Role.Valid())
	assert.False(t, SubjectKind(3).Valid())
	assert.False(t, Action(2).Valid())
}

func TestParseKindAndAction(t *testing.T) {
	k, err := ParseSubjectKind("Role")
	require.NoError(t, err)
	assert.Equal(t, Role, k)

	_, err = ParseSubjectKind("guild")
	assert.Error(t, err)

	a, err := ParseAction("blacklist")
	require.NoError(t, err)
	assert.Equal(t, Deny, a)
	assert.Equal(t, Allow, a.Opposite())

	var kind SubjectKind
	require.NoError(t, kind.UnmarshalText([]byte("channel")))
	assert.Equal(t, Channel, kind)

	b, err := VerdictDeny.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "deny", string(b))
}
