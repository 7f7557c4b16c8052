package conveyor

import "time"

// Config holds configuration for a Pipeline.
type Config struct {
	// StageTimeout bounds each stage execution. Zero means no bound.
	StageTimeout time.Duration

	// ClearOnStart empties the registry at the start of each run, so
	// deliverables never leak between runs on a reused pipeline.
	ClearOnStart bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StageTimeout: 0,
		ClearOnStart: true,
	}
}
