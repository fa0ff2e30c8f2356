package restrictions

import (
	"context"
	"sort"
	"time"

	"github.com/cardinal-bot/cardinal/utils/syncmap"
)

// MemoryRepository keeps records in process. Used by tests and by the
// "memory" restriction backend for local development.
type MemoryRepository struct {
	records syncmap.Map[string, *Record]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) FindOne(ctx context.Context, key Key) (*Record, error) {
	rec, ok := m.records.Load(key.ID())
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *MemoryRepository) Upsert(ctx context.Context, key Key, create, update *Record) (*Record, error) {
	now := time.Now()

	var rec *Record
	if existing, ok := m.records.Load(key.ID()); ok {
		rec = existing.Clone()
		rec.AllowedMembers = update.AllowedMembers
		rec.DeniedMembers = update.DeniedMembers
		rec.AllowedRoles = update.AllowedRoles
		rec.DeniedRoles = update.DeniedRoles
		rec.AllowedChannels = update.AllowedChannels
		rec.DeniedChannels = update.DeniedChannels
	} else {
		rec = create.Clone()
		rec.ID = key.ID()
		rec.GuildID = key.GuildID
		rec.Command = key.Command
		rec.CreatedAt = now
	}

	rec.UpdatedAt = now
	rec = rec.Clone()
	m.records.Store(key.ID(), rec)

	return rec.Clone(), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, key Key) error {
	if _, loaded := m.records.LoadAndDelete(key.ID()); !loaded {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, guildID string) ([]*Record, error) {
	recs := m.records.Filter(func(_ string, r *Record) bool {
		return r.GuildID == guildID
	})

	out := make([]*Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out, nil
}
