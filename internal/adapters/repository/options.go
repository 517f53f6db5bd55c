package repository

import (
	"os"

	"github.com/okian/arena/internal/adapters/codec"
)

type options struct {
	format   codec.Format
	fileMode os.FileMode
}

func defaultOptions() options {
	return options{fileMode: 0o644}
}

// Option configures a store created by Open or the New* constructors.
type Option func(*options)

// WithFormat forces the file store format instead of deriving it from the
// file extension.
func WithFormat(f codec.Format) Option {
	return func(o *options) {
		if f != "" {
			o.format = f
		}
	}
}

// WithFileMode sets the permissions of files written by the file store.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		if mode != 0 {
			o.fileMode = mode
		}
	}
}
