package proposer

import (
	"time"
)

// Config defines when the proposer seals a header.
type Config struct {
	// MaxHeaderDigests is the number of digests after which a header is sealed.
	MaxHeaderDigests uint
	// MaxHeaderDelay is the longest a non-empty header waits before it is sealed.
	MaxHeaderDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxHeaderDigests: 32,
		MaxHeaderDelay:   200 * time.Millisecond,
	}
}

// Option overrides a value of the default config.
type Option func(*Config)

func WithMaxHeaderDigests(max uint) Option {
	return func(cfg *Config) {
		cfg.MaxHeaderDigests = max
	}
}

func WithMaxHeaderDelay(delay time.Duration) Option {
	return func(cfg *Config) {
		cfg.MaxHeaderDelay = delay
	}
}
