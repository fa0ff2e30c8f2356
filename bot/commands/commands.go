// Package commands holds the moderation message commands
package commands

import (
	"context"
	"sync"

	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/db"
	"github.com/cardinal-bot/cardinal/objectstorage"
	"github.com/cardinal-bot/cardinal/restrictions"
)

// RestrictionStore is the part of the restriction store the restrict command edits
type RestrictionStore interface {
	Lookup(ctx context.Context, guildID, command string) restrictions.Lookup
	AddSubject(ctx context.Context, guildID, command string, kind restrictions.SubjectKind, subjectID string, action restrictions.Action) bool
	RemoveSubject(ctx context.Context, guildID, command string, kind restrictions.SubjectKind, subjectID string, action restrictions.Action) bool
	Reset(ctx context.Context, guildID, command string) bool
}

type Deps struct {
	Pool         db.DbConn
	Restrictions RestrictionStore

	// Optional, transcripts are skipped when nil
	ObjectStorage *objectstorage.ObjectStorage

	// Resolves command names for restrict
	Find func(name string) (*bot.Command, bool)
}

// All builds every command in listing order
func All(deps Deps) []*bot.Command {
	return []*bot.Command{
		Clean(deps),
		Modnick(deps),
		Restrict(deps),
		Automod(deps),
	}
}

var (
	registryOnce sync.Once
	registry     *bot.Dispatcher
)

// Lookup resolves a command by name or alias without a running bot
func Lookup(name string) (*bot.Command, bool) {
	registryOnce.Do(func() {
		registry = bot.NewDispatcher(bot.Options{})
		d := Deps{}
		d.Find = registry.Find
		if err := registry.Register(All(d)...); err != nil {
			panic(err)
		}
	})

	return registry.Find(name)
}
