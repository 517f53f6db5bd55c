package api

import "github.com/okian/arena/pkg/logger"

// Option configures the Server.
type Option func(*options)

type options struct {
	rate    string
	origins []string
	maxBody int64
	logger  logger.Logger
}

func defaultOptions() options {
	return options{
		origins: []string{"*"},
		maxBody: 1 << 20,
	}
}

// WithRateLimit sets a formatted rate such as "600-M" for /api/v1 routes.
// An empty rate disables limiting.
func WithRateLimit(rate string) Option {
	return func(o *options) { o.rate = rate }
}

// WithAllowedOrigins sets the CORS origin list.
func WithAllowedOrigins(origins []string) Option {
	return func(o *options) {
		if len(origins) > 0 {
			o.origins = origins
		}
	}
}

// WithMaxRequestBytes caps request bodies. Non-positive values disable the cap.
func WithMaxRequestBytes(n int64) Option {
	return func(o *options) { o.maxBody = n }
}

// WithLogger sets the logger used for server errors.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
