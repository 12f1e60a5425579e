package sound

import "log/slog"

const (
	DefaultVolume   = 0.8
	DefaultPoolSize = 5
)

// Config configures an Engine and the services it owns.
type Config struct {
	// Volume is the initial master music volume.
	Volume float64
	// PoolSize voices are allocated up front.
	PoolSize int
	// MaxVoices caps the pool. Zero means unbounded.
	MaxVoices int
	Logger    *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Volume:   DefaultVolume,
		PoolSize: DefaultPoolSize,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
