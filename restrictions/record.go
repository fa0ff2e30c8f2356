package restrictions

import (
	"golang.org/x/exp/slices"
)

// NewRecord returns an empty record for key
func NewRecord(key Key) *Record {
	return &Record{
		ID:              key.ID(),
		GuildID:         key.GuildID,
		Command:         key.Command,
		AllowedMembers:  []string{},
		DeniedMembers:   []string{},
		AllowedRoles:    []string{},
		DeniedRoles:     []string{},
		AllowedChannels: []string{},
		DeniedChannels:  []string{},
	}
}

func (r *Record) Key() Key {
	return Key{GuildID: r.GuildID, Command: r.Command}
}

func (r *Record) list(kind SubjectKind, action Action) *[]string {
	switch kind {
	case Member:
		if action == Allow {
			return &r.AllowedMembers
		}
		return &r.DeniedMembers
	case Role:
		if action == Allow {
			return &r.AllowedRoles
		}
		return &r.DeniedRoles
	case Channel:
		if action == Allow {
			return &r.AllowedChannels
		}
		return &r.DeniedChannels
	default:
		panic("restrictions: invalid subject kind " + kind.String())
	}
}

// Subjects returns the ids in the (kind, action) set
func (r *Record) Subjects(kind SubjectKind, action Action) []string {
	return *r.list(kind, action)
}

// Contains reports whether id is in the (kind, action) set
func (r *Record) Contains(kind SubjectKind, action Action, id string) bool {
	return slices.Contains(*r.list(kind, action), id)
}

// Evaluate applies the precedence rule to one dimension.
//
// A non-empty allow set that contains any of ids wins, then the deny set is
// checked, otherwise the verdict is unset. For members and channels ids holds a
// single id; for roles it is the subject's role set.
func (r *Record) Evaluate(kind SubjectKind, ids ...string) Verdict {
	if r == nil {
		return VerdictUnset
	}

	allowed := r.Subjects(kind, Allow)
	if len(allowed) > 0 && intersects(allowed, ids) {
		return VerdictAllow
	}

	if intersects(r.Subjects(kind, Deny), ids) {
		return VerdictDeny
	}

	return VerdictUnset
}

// Add puts id in the (kind, action) set and takes it out of the opposite set
func (r *Record) Add(kind SubjectKind, id string, action Action) {
	target := r.list(kind, action)
	if !slices.Contains(*target, id) {
		*target = append(*target, id)
	}

	r.Remove(kind, id, action.Opposite())
}

// Remove takes id out of the (kind, action) set only
func (r *Record) Remove(kind SubjectKind, id string, action Action) {
	target := r.list(kind, action)
	*target = slices.DeleteFunc(*target, func(s string) bool { return s == id })
}

// IsEmpty reports whether every set is empty
func (r *Record) IsEmpty() bool {
	for _, kind := range SubjectKinds {
		if len(r.Subjects(kind, Allow)) > 0 || len(r.Subjects(kind, Deny)) > 0 {
			return false
		}
	}
	return true
}

// Clone deep copies the record
func (r *Record) Clone() *Record {
	c := *r
	c.AllowedMembers = slices.Clone(nonNil(r.AllowedMembers))
	c.DeniedMembers = slices.Clone(nonNil(r.DeniedMembers))
	c.AllowedRoles = slices.Clone(nonNil(r.AllowedRoles))
	c.DeniedRoles = slices.Clone(nonNil(r.DeniedRoles))
	c.AllowedChannels = slices.Clone(nonNil(r.AllowedChannels))
	c.DeniedChannels = slices.Clone(nonNil(r.DeniedChannels))
	return &c
}

// normalize replaces nil lists with empty ones so they persist as '{}'
func (r *Record) normalize() {
	r.AllowedMembers = nonNil(r.AllowedMembers)
	r.DeniedMembers = nonNil(r.DeniedMembers)
	r.AllowedRoles = nonNil(r.AllowedRoles)
	r.DeniedRoles = nonNil(r.DeniedRoles)
	r.AllowedChannels = nonNil(r.AllowedChannels)
	r.DeniedChannels = nonNil(r.DeniedChannels)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func intersects(set, ids []string) bool {
	for _, id := range ids {
		if slices.Contains(set, id) {
			return true
		}
	}
	return false
}
