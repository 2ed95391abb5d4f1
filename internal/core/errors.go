package core

import "errors"

var (
	ErrMissingCredential = errors.New("slack discovery token is missing")
	ErrUnknownAction     = errors.New("unknown moderation action")
)
