package codec

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownFormat = errors.New("unknown document format")
	ErrEncode        = errors.New("encode document")
	ErrDecode        = errors.New("decode document")
)
