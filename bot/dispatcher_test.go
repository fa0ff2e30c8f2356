package bot

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func noop(*Context) error { return nil }

func TestRegister(t *testing.T) {
	d := NewDispatcher(Options{})

	modnick := &Command{Name: "modnick", Aliases: []string{"mod-nick", "mn"}, Run: noop}
	require.NoError(t, d.Register(modnick))

	for _, name := range []string{"modnick", "mod-nick", "MN", "modnick"} {
		cmd, ok := d.Find(name)
		require.True(t, ok, name)
		assert.Same(t, modnick, cmd)
	}

	assert.Error(t, d.Register(&Command{Name: "mn", Run: noop}))
	assert.Error(t, d.Register(&Command{Name: "empty"}))
	assert.Len(t, d.Commands(), 1)
}

type fakeCooldowns struct {
	held map[string]time.Duration
}

func (f *fakeCooldowns) Claim(_ context.Context, key string, _ *int, expiry time.Duration) (bool, error) {
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = expiry
	return true, nil
}

func (f *fakeCooldowns) Expiry(_ context.Context, key string) (time.Duration, error) {
	return f.held[key] / 2, nil
}

type fakeCounter map[string]int

func (f fakeCounter) IncrementOne(_ context.Context, key string) error {
	f[key]++
	return nil
}

func TestCheckCooldown(t *testing.T) {
	cd := &fakeCooldowns{held: map[string]time.Duration{}}
	d := NewDispatcher(Options{Cooldowns: cd, RootUsers: []string{"root"}})

	c := testContext(&Command{Name: "clean", Run: noop}, "user")
	require.NoError(t, d.checkCooldown(c))

	err := d.checkCooldown(c)
	ue, ok := AsUserError(err)
	require.True(t, ok)
	assert.Equal(t, ErrIdentifierCooldown, ue.Identifier)
	assert.InDelta(t, 2.5, ue.Context.Remaining, 0.001)
	assert.Contains(t, cd.held, "clean:user")

	// root users and disabled cooldowns skip
	root := testContext(&Command{Name: "clean", Run: noop}, "root")
	require.NoError(t, d.checkCooldown(root))
	require.NoError(t, d.checkCooldown(root))

	off := testContext(&Command{Name: "view", Cooldown: -1, Run: noop}, "user")
	require.NoError(t, d.checkCooldown(off))
	require.NoError(t, d.checkCooldown(off))
}

func TestCountUsage(t *testing.T) {
	counter := fakeCounter{}
	d := NewDispatcher(Options{Analytics: counter})

	d.countUsage(context.Background(), "clean", true)
	d.countUsage(context.Background(), "clean", false)
	d.countUsage(context.Background(), "clean", false)

	assert.Equal(t, 1, counter["clean:ok"])
	assert.Equal(t, 2, counter["clean:fail"])
}

type fakeRestrictions struct {
	member, roles, channel restrictions.Verdict
	calls                  int
}

func (f *fakeRestrictions) EvaluateMember(context.Context, string, string, string) restrictions.Verdict {
	f.calls++
	return f.member
}

func (f *fakeRestrictions) EvaluateRoles(context.Context, string, string, []string) restrictions.Verdict {
	f.calls++
	return f.roles
}

func (f *fakeRestrictions) EvaluateChannel(context.Context, string, string, string) restrictions.Verdict {
	f.calls++
	return f.channel
}

// guildContext runs cmd for a member with only @everyone permissions
func guildContext(cmd *Command) *Context {
	c := testContext(cmd, "user")
	c.Guild = &discordgo.Guild{
		ID:      "G",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "G", Permissions: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks},
			{ID: "staff", Permissions: discordgo.PermissionManageMessages},
		},
	}
	c.Member.Roles = []string{"staff"}
	c.Channel = &discordgo.Channel{ID: "C", GuildID: "G"}
	return c
}

func guildDispatcher(r Restrictions) *Dispatcher {
	d := NewDispatcher(Options{Restrictions: r})
	d.selfMember = func(*Context) (*discordgo.Member, error) {
		return &discordgo.Member{User: &discordgo.User{ID: "bot"}}, nil
	}
	return d
}

func requireIdentifier(t *testing.T, err error, identifier string) {
	t.Helper()
	ue, ok := AsUserError(err)
	require.True(t, ok, "expected a user error, got %v", err)
	assert.Equal(t, identifier, ue.Identifier)
}

func TestPreconditionsDenyWins(t *testing.T) {
	r := &fakeRestrictions{roles: restrictions.VerdictAllow, channel: restrictions.VerdictDeny}
	d := guildDispatcher(r)

	err := d.checkPreconditions(guildContext(&Command{Name: "clean", Run: noop}))
	requireIdentifier(t, err, ErrIdentifierRestricted)
	assert.Equal(t, 3, r.calls)
}

func TestPreconditionsAllowSkipsPermissionLevel(t *testing.T) {
	cmd := &Command{Name: "automod", PermissionLevel: Administrator, Run: noop}

	allowed := guildDispatcher(&fakeRestrictions{member: restrictions.VerdictAllow})
	require.NoError(t, allowed.checkPreconditions(guildContext(cmd)))

	unset := guildDispatcher(&fakeRestrictions{})
	requireIdentifier(t, unset.checkPreconditions(guildContext(cmd)), ErrIdentifierPermissionLevel)

	// no restriction backend behaves like unset
	none := guildDispatcher(nil)
	requireIdentifier(t, none.checkPreconditions(guildContext(cmd)), ErrIdentifierPermissionLevel)

	// the staff role is enough for Trainee
	require.NoError(t, unset.checkPreconditions(guildContext(&Command{Name: "clean", PermissionLevel: Trainee, Run: noop})))
}

func TestPreconditionsGuardedIgnoresRestrictions(t *testing.T) {
	r := &fakeRestrictions{member: restrictions.VerdictDeny}
	d := guildDispatcher(r)

	require.NoError(t, d.checkPreconditions(guildContext(&Command{Name: "restrict", Guarded: true, Run: noop})))

	// an allow cannot lift the level of a guarded command either
	r.member = restrictions.VerdictAllow
	err := d.checkPreconditions(guildContext(&Command{Name: "restrict", Guarded: true, PermissionLevel: Administrator, Run: noop}))
	requireIdentifier(t, err, ErrIdentifierPermissionLevel)

	assert.Zero(t, r.calls)
}

func TestPreconditionsCommunity(t *testing.T) {
	d := guildDispatcher(&fakeRestrictions{})
	cmd := &Command{Name: "appeal", Community: true, Run: noop}

	requireIdentifier(t, d.checkPreconditions(guildContext(cmd)), ErrIdentifierCommunity)

	c := guildContext(cmd)
	c.Guild.Features = []discordgo.GuildFeature{communityFeature}
	require.NoError(t, d.checkPreconditions(c))
}

func TestPreconditionsClientPermissions(t *testing.T) {
	d := guildDispatcher(&fakeRestrictions{})
	cmd := &Command{Name: "modnick", RequiredClientPermissions: discordgo.PermissionManageNicknames, Run: noop}

	err := d.checkPreconditions(guildContext(cmd))
	requireIdentifier(t, err, ErrIdentifierClientPermissions)

	ue, _ := AsUserError(err)
	assert.Equal(t, []string{"ManageNicknames"}, ue.Context.Missing)
}

func testContext(cmd *Command, userID string) *Context {
	return &Context{
		Context: context.Background(),
		Command: cmd,
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID}},
		Logger:  zap.NewNop(),
	}
}
