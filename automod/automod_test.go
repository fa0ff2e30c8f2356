package automod

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	cases := map[string]Rule{
		"bannedWords":    BannedWords,
		"banned-words":   BannedWords,
		"BANNED_WORDS":   BannedWords,
		"massmention":    MassMention,
		" link_cooldown": LinkCooldown,
		"stickers":       Stickers,
	}

	for in, want := range cases {
		got, err := ParseRule(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRule("nsfw")
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestOverview(t *testing.T) {
	om := Overview([]Setting{
		{Rule: Spam, Enabled: true},
		{Rule: Links, Enabled: false},
	})

	assert.Equal(t, len(Rules), om.Len())

	var order []Rule
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
	}
	assert.Equal(t, Rules, order)

	v, _ := om.Get(Spam)
	assert.True(t, v)
	v, _ = om.Get(Stickers)
	assert.False(t, v)
}

var errNoRows = errors.New("no rows in test")

// recordingConn keeps the arguments of every statement it is given
type recordingConn struct {
	args [][]any
}

func (r *recordingConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (r *recordingConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	r.args = append(r.args, args)
	return nil, errNoRows
}

func (r *recordingConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.args = append(r.args, args)
	return pgconn.CommandTag{}, nil
}

func TestRulesAreStoredCanonically(t *testing.T) {
	conn := &recordingConn{}
	c := New(conn, "110000000000000001")
	ctx := context.Background()

	require.NoError(t, c.EnableRule(ctx, Rule("banned-words")))
	assert.Equal(t, []any{"110000000000000001", "bannedWords", true}, conn.args[len(conn.args)-1])

	require.NoError(t, c.DisableRule(ctx, Rule("MASS_MENTION")))
	assert.Equal(t, []any{"110000000000000001", "massMention", false}, conn.args[len(conn.args)-1])

	_, err := c.GetSetting(ctx, Rule("Link-Cooldown"))
	assert.ErrorIs(t, err, errNoRows)
	assert.Equal(t, []any{"110000000000000001", "linkCooldown"}, conn.args[len(conn.args)-1])

	n := len(conn.args)
	assert.ErrorIs(t, c.EnableRule(ctx, Rule("nsfw")), ErrUnknownRule)
	assert.Len(t, conn.args, n)
}

func TestOverviewMatchesLooseRows(t *testing.T) {
	om := Overview([]Setting{{Rule: Rule("invite-links"), Enabled: true}, {Rule: Rule("unknown"), Enabled: true}})

	v, _ := om.Get(InviteLinks)
	assert.True(t, v)
	assert.Equal(t, len(Rules), om.Len())
}
