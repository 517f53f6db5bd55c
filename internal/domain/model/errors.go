package model

import "errors"

// Sentinel kinds for domain validation errors.
var (
	ErrSelfMatch      = errors.New("an item cannot be compared with itself")
	ErrInvalidWinner  = errors.New("winner must be one of the two participants")
	ErrNotEnoughItems = errors.New("not enough items to record a comparison")
	ErrUnknownItem    = errors.New("unknown item")
	ErrInvalidCost    = errors.New("invalid cost")
	ErrInvalidName    = errors.New("invalid name")
)
