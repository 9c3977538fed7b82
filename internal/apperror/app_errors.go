package apperror

import "errors"

var (
	ErrInvalidIndex     = errors.New("invalid cell index")
	ErrInvalidStep      = errors.New("invalid history step")
	ErrSessionNotFound  = errors.New("session not found")
	ErrCorruptState     = errors.New("corrupt session state")
	ErrUnknownAction    = errors.New("unknown action")
	ErrMissingSessionID = errors.New("session id is required")
)
