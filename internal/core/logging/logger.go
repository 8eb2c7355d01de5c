package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Engine returns Component(name), or a disabled logger when enabled is false.
// The reminder engines use it for their enable_logging option.
func Engine(name string, enabled bool) zerolog.Logger {
	if !enabled {
		return zerolog.Nop()
	}
	return Component(name)
}
