// Package types holds the request and response bodies of the HTTP API
package types

const (
	TargetTypeUser = "User"
	TargetTypeBot  = "Bot"
)

// ApiError is the body of every error response
type ApiError struct {
	Context map[string]string `json:"context,omitempty" description:"Context of the error. Usually used for validation error contexts"`
	Message string            `json:"message" description:"Message of the error"`
}
