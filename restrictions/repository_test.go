package restrictions

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cardinal-bot/cardinal/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository checks what every Repository must do, leaving only the
// "kick" record of guildID behind
func testRepository(t *testing.T, repo Repository, guildID string) {
	t.Helper()

	ctx := context.Background()
	key := Key{GuildID: guildID, Command: "ban"}

	_, err := repo.FindOne(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	// a missing record is created from create
	create := NewRecord(key)
	create.Add(Member, "U1", Deny)
	update := NewRecord(key)
	update.Add(Member, "U2", Deny)

	created, err := repo.Upsert(ctx, key, create, update)
	require.NoError(t, err)
	assert.Equal(t, key.ID(), created.ID)
	assert.Equal(t, guildID, created.GuildID)
	assert.Equal(t, "ban", created.Command)
	assert.Equal(t, []string{"U1"}, created.DeniedMembers)
	assert.Empty(t, created.AllowedRoles)
	assert.False(t, created.CreatedAt.IsZero())

	// an existing record takes every set of update and keeps its identity
	update = NewRecord(key)
	update.Add(Role, "R1", Allow)

	updated, err := repo.Upsert(ctx, key, create, update)
	require.NoError(t, err)
	assert.Empty(t, updated.DeniedMembers)
	assert.Equal(t, []string{"R1"}, updated.AllowedRoles)
	assert.Equal(t, key.ID(), updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	found, err := repo.FindOne(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, found.DeniedMembers)
	assert.Equal(t, []string{"R1"}, found.AllowedRoles)

	kick := Key{GuildID: guildID, Command: "kick"}
	_, err = repo.Upsert(ctx, kick, NewRecord(kick), NewRecord(kick))
	require.NoError(t, err)

	elsewhere := Key{GuildID: guildID + "0", Command: "ban"}
	_, err = repo.Upsert(ctx, elsewhere, NewRecord(elsewhere), NewRecord(elsewhere))
	require.NoError(t, err)

	recs, err := repo.List(ctx, guildID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ban", recs[0].Command)
	assert.Equal(t, "kick", recs[1].Command)

	require.NoError(t, repo.Delete(ctx, key))
	assert.ErrorIs(t, repo.Delete(ctx, key), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, elsewhere))

	_, err = repo.FindOne(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	recs, err = repo.List(ctx, guildID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "kick", recs[0].Command)
}

// testStoreOver runs the store's core rules against a real backend
func testStoreOver(t *testing.T, repo Repository, guildID string) {
	t.Helper()

	s := New(repo, nil)
	ctx := context.Background()

	require.True(t, s.AddSubject(ctx, guildID, "clean", Member, "U1", Allow))
	require.True(t, s.AddSubject(ctx, guildID, "clean", Member, "U1", Deny))
	assert.Equal(t, VerdictDeny, s.EvaluateMember(ctx, guildID, "clean", "U1"))

	rec, err := s.Get(ctx, guildID, "clean")
	require.NoError(t, err)
	assert.Empty(t, rec.AllowedMembers)
	assert.Equal(t, []string{"U1"}, rec.DeniedMembers)

	require.True(t, s.AddSubject(ctx, guildID, "clean", Role, "R1", Allow))
	assert.Equal(t, VerdictAllow, s.EvaluateRoles(ctx, guildID, "clean", []string{"R0", "R1"}))

	// removing from the opposite set leaves the allow in place
	require.True(t, s.RemoveSubject(ctx, guildID, "clean", Role, "R1", Deny))
	assert.Equal(t, VerdictAllow, s.EvaluateRoles(ctx, guildID, "clean", []string{"R1"}))
	assert.Equal(t, VerdictUnset, s.EvaluateChannel(ctx, guildID, "clean", "C1"))

	assert.True(t, s.Reset(ctx, guildID, "clean"))
	assert.False(t, s.Reset(ctx, guildID, "clean"))
	assert.Equal(t, NotConfigured, s.Lookup(ctx, guildID, "clean").Status)
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, NewMemoryRepository(), guild1)
	testStoreOver(t, NewMemoryRepository(), guild1)
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisRepository) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedisRepository(client, "")
}

func TestRedisRepository(t *testing.T) {
	mr, repo := newMiniredis(t)

	testRepository(t, repo, guild1)

	assert.False(t, mr.Exists("restrictions:"+guild1+"-ban"))
	assert.True(t, mr.Exists("restrictions:"+guild1+"-kick"))

	// the guild index follows the records
	members, err := mr.Members("restrictions:guild:" + guild1)
	require.NoError(t, err)
	assert.Equal(t, []string{"kick"}, members)

	_, repo = newMiniredis(t)
	testStoreOver(t, repo, guild1)
}

func TestRedisRepositoryListSkipsStaleIndex(t *testing.T) {
	mr, repo := newMiniredis(t)
	ctx := context.Background()

	key := Key{GuildID: guild1, Command: "ban"}
	_, err := repo.Upsert(ctx, key, NewRecord(key), NewRecord(key))
	require.NoError(t, err)

	_, err = mr.SAdd("restrictions:guild:"+guild1, "gone")
	require.NoError(t, err)

	recs, err := repo.List(ctx, guild1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ban", recs[0].Command)
}

func TestRedisRepositoryUnavailable(t *testing.T) {
	mr, repo := newMiniredis(t)
	mr.Close()

	s := New(repo, nil)
	ctx := context.Background()

	assert.Equal(t, LookupFailed, s.Lookup(ctx, guild1, "ban").Status)
	assert.Equal(t, VerdictUnset, s.EvaluateMember(ctx, guild1, "ban", "U1"))
	assert.False(t, s.AddSubject(ctx, guild1, "ban", Member, "U1", Deny))
	assert.False(t, s.Reset(ctx, guild1, "ban"))
}

// Needs a disposable database, e.g.
// CARDINAL_TEST_POSTGRES=postgres://localhost/cardinal_test
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("CARDINAL_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("CARDINAL_TEST_POSTGRES not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))

	guildID := strconv.FormatInt(100000000000000000+time.Now().UnixNano()%100000000000000000, 10)
	t.Cleanup(func() {
		_, err := pool.Exec(ctx, "DELETE FROM command_restrictions WHERE guild_id = ANY($1)", []string{guildID, guildID + "0"})
		assert.NoError(t, err)
	})

	repo := NewPostgresRepository(pool)
	testRepository(t, repo, guildID)
	testStoreOver(t, repo, guildID)
}
