package bot

import "errors"

// Identifiers of the errors raised by the dispatcher and commands
const (
	ErrIdentifierGeneric           = "Error"
	ErrIdentifierArgsMissing       = "argsMissing"
	ErrIdentifierArgsUnavailable   = "argsUnavailable"
	ErrIdentifierGuildOnly         = "preconditionGuildOnly"
	ErrIdentifierNsfw              = "preconditionNsfw"
	ErrIdentifierCommunity         = "preconditionCommunity"
	ErrIdentifierUserPermissions   = "preconditionUserPermissions"
	ErrIdentifierClientPermissions = "preconditionClientPermissions"
	ErrIdentifierPermissionLevel   = "preconditionPermissionLevel"
	ErrIdentifierCooldown          = "preconditionCooldown"
	ErrIdentifierRestricted        = "commandRestricted"
)

type ErrorContext struct {
	// Silent errors are never shown to the user
	Silent bool
	// Missing permission names for the permission preconditions
	Missing []string
	// Remaining cooldown, in seconds
	Remaining float64
}

// UserError is an error meant to be shown to the command invoker
type UserError struct {
	Identifier string
	Message    string
	Context    ErrorContext
}

func (e *UserError) Error() string {
	if e.Message == "" {
		return e.Identifier
	}
	return e.Message
}

// NewUserError is a UserError with the generic identifier
func NewUserError(message string) *UserError {
	return &UserError{Identifier: ErrIdentifierGeneric, Message: message}
}

func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}
