package session

import "errors"

var (
	ErrEmptyMessage        = errors.New("message is required")
	ErrInvalidSessionID    = errors.New("invalid session id")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
