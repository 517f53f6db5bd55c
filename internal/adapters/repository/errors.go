package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrLoad          = errors.New("load collection")
	ErrSave          = errors.New("save collection")
)
