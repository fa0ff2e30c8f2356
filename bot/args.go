package bot

import (
	"io"
	"regexp"
	"strings"

	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/cardinal-bot/cardinal/utils"
	"github.com/spf13/pflag"
)

var mentionRe = regexp.MustCompile(`^<(@!?|@&|#)(\d{15,21})>$`)

// Args holds the positional tokens and boolean flags of one invocation
type Args struct {
	positional []string
	pos        int
	flags      *pflag.FlagSet
}

// ParseArgs splits tokens into positionals and the --flags named in known.
// Tokens that look like flags but are not known stay positional.
func ParseArgs(tokens []string, known []string) (*Args, error) {
	fs := pflag.NewFlagSet("args", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	for _, name := range known {
		fs.Bool(name, false, "")
	}

	var flagTokens, positional []string
	for _, tok := range tokens {
		if name, ok := strings.CutPrefix(tok, "--"); ok {
			name, _, _ = strings.Cut(name, "=")
			if fs.Lookup(name) != nil {
				flagTokens = append(flagTokens, tok)
				continue
			}
		}
		positional = append(positional, tok)
	}

	if err := fs.Parse(flagTokens); err != nil {
		return nil, &UserError{Identifier: ErrIdentifierArgsUnavailable, Message: err.Error()}
	}

	return &Args{positional: positional, flags: fs}, nil
}

// Flag reports whether any of the named flags was given
func (a *Args) Flag(names ...string) bool {
	for _, name := range names {
		v, err := a.flags.GetBool(name)
		if err == nil && v {
			return true
		}
	}
	return false
}

// Pick consumes the next positional
func (a *Args) Pick() (string, bool) {
	if a.pos >= len(a.positional) {
		return "", false
	}
	v := a.positional[a.pos]
	a.pos++
	return v, true
}

// Peek returns the next positional without consuming it
func (a *Args) Peek() (string, bool) {
	if a.pos >= len(a.positional) {
		return "", false
	}
	return a.positional[a.pos], true
}

// Rest consumes and joins every remaining positional
func (a *Args) Rest() string {
	if a.pos >= len(a.positional) {
		return ""
	}
	rest := strings.Join(a.positional[a.pos:], " ")
	a.pos = len(a.positional)
	return rest
}

func (a *Args) Remaining() int {
	return len(a.positional) - a.pos
}

// ParseMention resolves <@id>, <@!id>, <@&id> and <#id> to a subject kind and id
func ParseMention(s string) (restrictions.SubjectKind, string, bool) {
	m := mentionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}

	switch m[1] {
	case "@&":
		return restrictions.Role, m[2], true
	case "#":
		return restrictions.Channel, m[2], true
	default:
		return restrictions.Member, m[2], true
	}
}

// ParseUserID accepts a member mention or a raw id
func ParseUserID(s string) (string, bool) {
	if kind, id, ok := ParseMention(s); ok {
		return id, kind == restrictions.Member
	}

	if utils.IsSnowflake(s) {
		return s, true
	}

	return "", false
}


// ParseInvocation splits a message into the command name and its tokens
func ParseInvocation(content, prefix string) (name string, tokens []string, ok bool) {
	rest, ok := strings.CutPrefix(content, prefix)
	if !ok || prefix == "" {
		return "", nil, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, false
	}

	return strings.ToLower(fields[0]), fields[1:], true
}
