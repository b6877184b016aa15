package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeInvalidArgument = "invalid_argument"
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnknownType     = "unknown_type"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeInternal        = "internal"
)

var (
	ErrInvalidRoom    = errors.New("invalid room name")
	ErrInvalidName    = errors.New("name is required")
	ErrHubStopped     = errors.New("hub stopped")
	ErrUnknownCommand = errors.New("unknown command")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// invalidArgument reports a rejected argument back to the requesting client.
func invalidArgument(err error) *CoreError {
	return coreError(ErrCodeInvalidArgument, err.Error())
}
