package restrictions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("connection refused")

const (
	guild1 = "110000000000000001"
	guild2 = "110000000000000002"
)

// failingRepository fails every call that has its flag set
type failingRepository struct {
	*MemoryRepository
	failFind, failUpsert, failDelete bool
}

func (f *failingRepository) FindOne(ctx context.Context, key Key) (*Record, error) {
	if f.failFind {
		return nil, errBackend
	}
	return f.MemoryRepository.FindOne(ctx, key)
}

func (f *failingRepository) Upsert(ctx context.Context, key Key, create, update *Record) (*Record, error) {
	if f.failUpsert {
		return nil, errBackend
	}
	return f.MemoryRepository.Upsert(ctx, key, create, update)
}

func (f *failingRepository) Delete(ctx context.Context, key Key) error {
	if f.failDelete {
		return errBackend
	}
	return f.MemoryRepository.Delete(ctx, key)
}

func newStore() (*Store, *MemoryRepository) {
	repo := NewMemoryRepository()
	return New(repo, nil), repo
}

func evaluate(s *Store, kind SubjectKind, id string) Verdict {
	ctx := context.Background()
	switch kind {
	case Member:
		return s.EvaluateMember(ctx, guild1, "ban", id)
	case Role:
		return s.EvaluateRoles(ctx, guild1, "ban", []string{id})
	default:
		return s.EvaluateChannel(ctx, guild1, "ban", id)
	}
}

func TestAddAllowGrantsAccess(t *testing.T) {
	for _, kind := range SubjectKinds {
		t.Run(kind.String(), func(t *testing.T) {
			s, repo := newStore()
			ctx := context.Background()

			require.True(t, s.AddSubject(ctx, guild1, "ban", kind, "X", Allow))
			assert.Equal(t, VerdictAllow, evaluate(s, kind, "X"))

			rec, err := repo.FindOne(ctx, Key{guild1, "ban"})
			require.NoError(t, err)
			assert.False(t, rec.Contains(kind, Deny, "X"))
		})
	}
}

func TestAllowThenDenyKeepsOnlyDeny(t *testing.T) {
	for _, kind := range SubjectKinds {
		t.Run(kind.String(), func(t *testing.T) {
			s, repo := newStore()
			ctx := context.Background()

			require.True(t, s.AddSubject(ctx, guild1, "ban", kind, "X", Allow))
			require.True(t, s.AddSubject(ctx, guild1, "ban", kind, "X", Deny))

			rec, err := repo.FindOne(ctx, Key{guild1, "ban"})
			require.NoError(t, err)
			assert.Equal(t, []string{"X"}, rec.Subjects(kind, Deny))
			assert.Empty(t, rec.Subjects(kind, Allow))
			assert.Equal(t, VerdictDeny, evaluate(s, kind, "X"))
		})
	}
}

func TestRemoveOnlyTouchesTargetSet(t *testing.T) {
	for _, kind := range SubjectKinds {
		t.Run(kind.String(), func(t *testing.T) {
			s, repo := newStore()
			ctx := context.Background()

			require.True(t, s.AddSubject(ctx, guild1, "ban", kind, "X", Deny))
			require.True(t, s.RemoveSubject(ctx, guild1, "ban", kind, "X", Allow))

			rec, err := repo.FindOne(ctx, Key{guild1, "ban"})
			require.NoError(t, err)
			assert.True(t, rec.Contains(kind, Deny, "X"))

			require.True(t, s.RemoveSubject(ctx, guild1, "ban", kind, "X", Deny))
			rec, err = repo.FindOne(ctx, Key{guild1, "ban"})
			require.NoError(t, err)
			assert.False(t, rec.Contains(kind, Deny, "X"))
			assert.Equal(t, VerdictUnset, evaluate(s, kind, "X"))
		})
	}
}

func TestRemoveOnMissingRecordCreatesEmptyRecord(t *testing.T) {
	s, repo := newStore()
	ctx := context.Background()

	require.True(t, s.RemoveSubject(ctx, guild1, "ban", Member, "X", Allow))

	rec, err := repo.FindOne(ctx, Key{guild1, "ban"})
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())
}

func TestAddIsIdempotent(t *testing.T) {
	s, repo := newStore()
	ctx := context.Background()

	require.True(t, s.AddSubject(ctx, guild1, "ban", Role, "R1", Allow))
	require.True(t, s.AddSubject(ctx, guild1, "ban", Role, "R1", Allow))

	rec, err := repo.FindOne(ctx, Key{guild1, "ban"})
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, rec.AllowedRoles)
}

func TestReset(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()

	assert.False(t, s.Reset(ctx, guild1, "ban"))

	require.True(t, s.AddSubject(ctx, guild1, "ban", Member, "U1", Deny))
	assert.Equal(t, VerdictDeny, s.EvaluateMember(ctx, guild1, "ban", "U1"))

	assert.True(t, s.Reset(ctx, guild1, "ban"))
	assert.Equal(t, VerdictUnset, s.EvaluateMember(ctx, guild1, "ban", "U1"))
	assert.Equal(t, NotConfigured, s.Lookup(ctx, guild1, "ban").Status)

	assert.False(t, s.Reset(ctx, guild1, "ban"))
}

func TestAllowSetTakesPrecedence(t *testing.T) {
	s, repo := newStore()
	ctx := context.Background()

	// only reachable through an out-of-band write
	rec := NewRecord(Key{guild1, "ban"})
	rec.AllowedMembers = []string{"A"}
	rec.DeniedMembers = []string{"A"}
	_, err := repo.Upsert(ctx, rec.Key(), rec, rec)
	require.NoError(t, err)

	assert.Equal(t, VerdictAllow, s.EvaluateMember(ctx, guild1, "ban", "A"))
}

func TestEmptyAllowSetFallsThroughToDeny(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()

	require.True(t, s.AddSubject(ctx, guild1, "ban", Channel, "C1", Deny))

	assert.Equal(t, VerdictDeny, s.EvaluateChannel(ctx, guild1, "ban", "C1"))
	assert.Equal(t, VerdictUnset, s.EvaluateChannel(ctx, guild1, "ban", "C2"))
}

func TestRoleScenario(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()

	require.True(t, s.AddSubject(ctx, guild1, "ban", Role, "R1", Deny))

	assert.Equal(t, VerdictDeny, s.EvaluateRoles(ctx, guild1, "ban", []string{"R1"}))
	assert.Equal(t, VerdictUnset, s.EvaluateRoles(ctx, guild1, "ban", []string{"R2"}))
	assert.Equal(t, VerdictDeny, s.EvaluateRoles(ctx, guild1, "ban", []string{"R2", "R1"}))
	assert.Equal(t, VerdictUnset, s.EvaluateRoles(ctx, guild1, "ban", nil))
}

func TestMemberScenario(t *testing.T) {
	s, repo := newStore()
	ctx := context.Background()

	require.True(t, s.AddSubject(ctx, guild1, "ban", Member, "U1", Allow))
	require.True(t, s.AddSubject(ctx, guild1, "ban", Member, "U1", Deny))

	assert.Equal(t, VerdictDeny, s.EvaluateMember(ctx, guild1, "ban", "U1"))

	rec, err := repo.FindOne(ctx, Key{guild1, "ban"})
	require.NoError(t, err)
	assert.NotContains(t, rec.AllowedMembers, "U1")
}

func TestDimensionsAreIndependent(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()

	require.True(t, s.AddSubject(ctx, guild1, "ban", Member, "ID", Deny))

	assert.Equal(t, VerdictDeny, s.EvaluateMember(ctx, guild1, "ban", "ID"))
	assert.Equal(t, VerdictUnset, s.EvaluateRoles(ctx, guild1, "ban", []string{"ID"}))
	assert.Equal(t, VerdictUnset, s.EvaluateChannel(ctx, guild1, "ban", "ID"))
	assert.Equal(t, VerdictUnset, s.EvaluateMember(ctx, guild1, "kick", "ID"))
	assert.Equal(t, VerdictUnset, s.EvaluateMember(ctx, guild2, "ban", "ID"))
}

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()

	repo := &failingRepository{MemoryRepository: NewMemoryRepository()}
	s := New(repo, nil)

	require.True(t, s.AddSubject(ctx, guild1, "ban", Member, "U1", Deny))

	repo.failUpsert = true
	assert.False(t, s.AddSubject(ctx, guild1, "ban", Member, "U2", Deny))
	assert.False(t, s.RemoveSubject(ctx, guild1, "ban", Member, "U1", Deny))

	repo.failDelete = true
	assert.False(t, s.Reset(ctx, guild1, "ban"))

	repo.failFind = true
	assert.False(t, s.AddSubject(ctx, guild1, "ban", Member, "U3", Deny))

	// failed lookups never surface as a verdict
	assert.Equal(t, VerdictUnset, s.EvaluateMember(ctx, guild1, "ban", "U1"))

	l := s.Lookup(ctx, guild1, "ban")
	assert.Equal(t, LookupFailed, l.Status)
	assert.ErrorIs(t, l.Err, errBackend)
}

func TestLookup(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()

	assert.Equal(t, NotConfigured, s.Lookup(ctx, guild1, "ban").Status)

	require.True(t, s.AddSubject(ctx, guild1, "ban", Role, "R1", Allow))

	l := s.Lookup(ctx, guild1, "ban")
	require.Equal(t, Found, l.Status)
	assert.Equal(t, guild1 + "-ban", l.Record.ID)
	assert.Equal(t, []string{"R1"}, l.Record.AllowedRoles)
}

func TestInvalidKey(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()

	assert.False(t, s.AddSubject(ctx, "", "ban", Member, "U1", Allow))
	assert.False(t, s.RemoveSubject(ctx, guild1, "", Member, "U1", Allow))

	// a dash in the guild id would make "<guild>-<command>" ambiguous
	assert.False(t, s.AddSubject(ctx, "1-2", "ban", Member, "U1", Deny))
	assert.False(t, s.AddSubject(ctx, guild1+"-x", "ban", Member, "U1", Deny))
	assert.False(t, s.Reset(ctx, "1-2", "ban"))
	assert.Equal(t, NotConfigured, s.Lookup(ctx, "1-2", "ban").Status)

	_, err := s.Get(ctx, "guild", "ban")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidKindOrAction(t *testing.T) {
	s, repo := newStore()
	ctx := context.Background()

	assert.False(t, s.AddSubject(ctx, guild1, "ban", SubjectKind(7), "U1", Allow))
	assert.False(t, s.RemoveSubject(ctx, guild1, "ban", SubjectKind(-1), "U1", Deny))
	assert.False(t, s.AddSubject(ctx, guild1, "ban", Member, "U1", Action(3)))
	assert.Equal(t, VerdictUnset, s.evaluate(ctx, guild1, "ban", SubjectKind(7), "U1"))

	_, err := repo.FindOne(ctx, Key{guild1, "ban"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentAddsOnSameKeyAreNotLost(t *testing.T) {
	s, repo := newStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.True(t, s.AddSubject(ctx, guild1, "ban", Member, fmt.Sprintf("U%d", i), Deny))
		}(i)
	}
	wg.Wait()

	rec, err := repo.FindOne(ctx, Key{guild1, "ban"})
	require.NoError(t, err)
	assert.Len(t, rec.DeniedMembers, 40)
}

func TestList(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()

	require.True(t, s.AddSubject(ctx, guild1, "kick", Member, "U1", Deny))
	require.True(t, s.AddSubject(ctx, guild1, "ban", Member, "U1", Deny))
	require.True(t, s.AddSubject(ctx, guild2, "ban", Member, "U1", Deny))

	recs, err := s.List(ctx, guild1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ban", recs[0].Command)
	assert.Equal(t, "kick", recs[1].Command)
}
