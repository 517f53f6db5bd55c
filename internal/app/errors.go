package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrArenaNotFound   = errors.New("arena not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrOutcomeNotFound = errors.New("outcome not found")
	ErrArenaExists     = errors.New("arena already exists")
	ErrNotStarted      = errors.New("service not started")
)
