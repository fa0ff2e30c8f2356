package restrictions

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Repository when no record exists for a key
var ErrNotFound = errors.New("restrictions: record not found")

// Repository persists restriction records.
//
// Upsert creates the record from create when none exists for key and otherwise
// overwrites the sets of the existing record with those of update.
type Repository interface {
	FindOne(ctx context.Context, key Key) (*Record, error)
	Upsert(ctx context.Context, key Key, create, update *Record) (*Record, error)
	Delete(ctx context.Context, key Key) error
	List(ctx context.Context, guildID string) ([]*Record, error)
}
