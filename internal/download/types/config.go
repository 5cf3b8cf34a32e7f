package types

import (
	"imagefetch/internal/config"
	"time"
)

// RuntimeConfig holds the knobs the fetcher reads for each request.
type RuntimeConfig struct {
	Timeout   time.Duration
	UserAgent string
	ChunkSize int
	HTTP3     bool

	// LockPath, when set, names a file locked around filename resolution
	// and file creation so concurrent fetchers cannot pick the same name.
	LockPath string
}

// DefaultRuntimeConfig mirrors config.DefaultSettings.
func DefaultRuntimeConfig() *RuntimeConfig {
	return ConvertSettings(config.DefaultSettings())
}

func (r *RuntimeConfig) GetTimeout() time.Duration {
	if r == nil || r.Timeout <= 0 {
		return config.DefaultTimeout
	}
	return r.Timeout
}

func (r *RuntimeConfig) GetUserAgent() string {
	if r == nil || r.UserAgent == "" {
		return config.DefaultUserAgent
	}
	return r.UserAgent
}

func (r *RuntimeConfig) GetChunkSize() int {
	if r == nil || r.ChunkSize <= 0 {
		return config.DefaultChunkSize
	}
	return r.ChunkSize
}
