package restrictions

import (
	"fmt"
	"strings"
	"time"

	"github.com/cardinal-bot/cardinal/utils"
)

// Verdict is the outcome of evaluating one dimension of a restriction record
type Verdict int

const (
	// No applicable override, the caller falls back to its default behaviour
	VerdictUnset Verdict = iota
	VerdictAllow
	VerdictDeny
)

func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictDeny:
		return "deny"
	default:
		return "unset"
	}
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// SubjectKind tags which dimension a subject id belongs to
type SubjectKind int

const (
	Member SubjectKind = iota
	Role
	Channel
)

// SubjectKinds lists every dimension in evaluation order
var SubjectKinds = []SubjectKind{Member, Role, Channel}

func (k SubjectKind) Valid() bool {
	return k >= Member && k <= Channel
}

func (k SubjectKind) String() string {
	switch k {
	case Member:
		return "member"
	case Role:
		return "role"
	case Channel:
		return "channel"
	default:
		return fmt.Sprintf("SubjectKind(%d)", int(k))
	}
}

func ParseSubjectKind(s string) (SubjectKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member", "user":
		return Member, nil
	case "role":
		return Role, nil
	case "channel":
		return Channel, nil
	default:
		return 0, fmt.Errorf("unknown subject kind %q", s)
	}
}

func (k SubjectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SubjectKind) UnmarshalText(b []byte) error {
	v, err := ParseSubjectKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Action selects the allow or the deny set of a dimension
type Action int

const (
	Allow Action = iota
	Deny
)

func (a Action) Valid() bool {
	return a == Allow || a == Deny
}

func (a Action) String() string {
	if a == Deny {
		return "deny"
	}
	return "allow"
}

func (a Action) Opposite() Action {
	if a == Deny {
		return Allow
	}
	return Deny
}

func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow", "whitelist":
		return Allow, nil
	case "deny", "blacklist":
		return Deny, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Key identifies the restriction record of one command in one guild
type Key struct {
	GuildID string
	Command string
}

// ID is the persisted identity of the record
func (k Key) ID() string {
	return k.GuildID + "-" + k.Command
}

// Valid requires a snowflake guild id, which keeps ID unambiguous
func (k Key) Valid() bool {
	return utils.IsSnowflake(k.GuildID) && k.Command != ""
}

// Record is the allow/deny configuration of one (guild, command) pair.
//
// The id lists are persisted as ordered arrays but are treated as sets.
type Record struct {
	ID              string    `db:"id" json:"id" msgpack:"id"`
	GuildID         string    `db:"guild_id" json:"guild_id" msgpack:"guild_id"`
	Command         string    `db:"command" json:"command" msgpack:"command"`
	AllowedMembers  []string  `db:"allowed_members" json:"allowed_members" msgpack:"allowed_members"`
	DeniedMembers   []string  `db:"denied_members" json:"denied_members" msgpack:"denied_members"`
	AllowedRoles    []string  `db:"allowed_roles" json:"allowed_roles" msgpack:"allowed_roles"`
	DeniedRoles     []string  `db:"denied_roles" json:"denied_roles" msgpack:"denied_roles"`
	AllowedChannels []string  `db:"allowed_channels" json:"allowed_channels" msgpack:"allowed_channels"`
	DeniedChannels  []string  `db:"denied_channels" json:"denied_channels" msgpack:"denied_channels"`
	CreatedAt       time.Time `db:"created_at" json:"created_at" msgpack:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at" msgpack:"updated_at"`
}

// LookupStatus distinguishes an unconfigured pair from a failed read
type LookupStatus int

const (
	NotConfigured LookupStatus = iota
	Found
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case Found:
		return "found"
	case LookupFailed:
		return "lookup_failed"
	default:
		return "not_configured"
	}
}

type Lookup struct {
	Status LookupStatus
	Record *Record // set when Status is Found
	Err    error   // set when Status is LookupFailed
}
