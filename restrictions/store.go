// Package restrictions layers per-guild, per-command allow and deny lists over
// members, roles and channels.
package restrictions

import (
	"context"
	"errors"

	"github.com/cardinal-bot/cardinal/mapofmu"
	"go.uber.org/zap"
)

// Store evaluates and mutates restriction records. It never caches records:
// every call reads through to the repository.
type Store struct {
	repo   Repository
	logger *zap.Logger
	locks  *mapofmu.M[Key]
}

func New(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		repo:   repo,
		logger: logger,
		locks:  mapofmu.New[Key](),
	}
}

// Lookup reads the record for a pair, telling apart "not configured" from a failed read
func (s *Store) Lookup(ctx context.Context, guildID, command string) Lookup {
	key := Key{GuildID: guildID, Command: command}
	if !key.Valid() {
		return Lookup{Status: NotConfigured}
	}

	rec, err := s.repo.FindOne(ctx, key)

	if errors.Is(err, ErrNotFound) {
		return Lookup{Status: NotConfigured}
	}

	if err != nil {
		return Lookup{Status: LookupFailed, Err: err}
	}

	return Lookup{Status: Found, Record: rec}
}

// Get returns the record for a pair or ErrNotFound
func (s *Store) Get(ctx context.Context, guildID, command string) (*Record, error) {
	key := Key{GuildID: guildID, Command: command}
	if !key.Valid() {
		return nil, ErrNotFound
	}
	return s.repo.FindOne(ctx, key)
}

// List returns every record configured in a guild
func (s *Store) List(ctx context.Context, guildID string) ([]*Record, error) {
	return s.repo.List(ctx, guildID)
}

func (s *Store) evaluate(ctx context.Context, guildID, command string, kind SubjectKind, ids ...string) Verdict {
	if !kind.Valid() {
		return VerdictUnset
	}

	l := s.Lookup(ctx, guildID, command)

	switch l.Status {
	case Found:
		return l.Record.Evaluate(kind, ids...)
	case LookupFailed:
		s.logger.Error("Failed to load command restrictions", zap.Error(l.Err), zap.String("guild_id", guildID), zap.String("command", command), zap.Stringer("kind", kind))
	}

	return VerdictUnset
}

func (s *Store) EvaluateMember(ctx context.Context, guildID, command, memberID string) Verdict {
	return s.evaluate(ctx, guildID, command, Member, memberID)
}

// EvaluateRoles checks whether any of roleIDs is in the allow or deny role sets
func (s *Store) EvaluateRoles(ctx context.Context, guildID, command string, roleIDs []string) Verdict {
	return s.evaluate(ctx, guildID, command, Role, roleIDs...)
}

func (s *Store) EvaluateChannel(ctx context.Context, guildID, command, channelID string) Verdict {
	return s.evaluate(ctx, guildID, command, Channel, channelID)
}

// AddSubject adds subjectID to the (kind, action) set, removing it from the
// opposite set. Returns false if the change could not be persisted.
func (s *Store) AddSubject(ctx context.Context, guildID, command string, kind SubjectKind, subjectID string, action Action) bool {
	if !kind.Valid() || !action.Valid() {
		return false
	}

	return s.mutate(ctx, Key{GuildID: guildID, Command: command}, func(r *Record) {
		r.Add(kind, subjectID, action)
	})
}

// RemoveSubject removes subjectID from the (kind, action) set only.
// Returns false if the change could not be persisted.
func (s *Store) RemoveSubject(ctx context.Context, guildID, command string, kind SubjectKind, subjectID string, action Action) bool {
	if !kind.Valid() || !action.Valid() {
		return false
	}

	return s.mutate(ctx, Key{GuildID: guildID, Command: command}, func(r *Record) {
		r.Remove(kind, subjectID, action)
	})
}

// Reset deletes the record of a pair. Returns false when there was nothing to delete.
func (s *Store) Reset(ctx context.Context, guildID, command string) bool {
	key := Key{GuildID: guildID, Command: command}
	if !key.Valid() {
		return false
	}

	u, err := s.locks.LockContext(ctx, key)
	if err != nil {
		return false
	}
	defer u.Unlock()

	err = s.repo.Delete(ctx, key)

	if errors.Is(err, ErrNotFound) {
		return false
	}

	if err != nil {
		s.logger.Error("Failed to reset command restrictions", zap.Error(err), zap.String("id", key.ID()))
		return false
	}

	return true
}

// mutate runs a read-modify-upsert cycle while holding the per-key lock
func (s *Store) mutate(ctx context.Context, key Key, apply func(r *Record)) bool {
	if !key.Valid() {
		return false
	}

	u, err := s.locks.LockContext(ctx, key)
	if err != nil {
		s.logger.Warn("Gave up waiting for command restriction lock", zap.Error(err), zap.String("id", key.ID()))
		return false
	}
	defer u.Unlock()

	create := NewRecord(key)
	apply(create)

	current, err := s.repo.FindOne(ctx, key)

	var update *Record
	switch {
	case err == nil:
		update = current.Clone()
		apply(update)
	case errors.Is(err, ErrNotFound):
		update = create.Clone()
	default:
		s.logger.Error("Failed to load command restrictions", zap.Error(err), zap.String("id", key.ID()))
		return false
	}

	_, err = s.repo.Upsert(ctx, key, create, update)

	if err != nil {
		s.logger.Error("Failed to save command restrictions", zap.Error(err), zap.String("id", key.ID()))
		return false
	}

	return true
}
