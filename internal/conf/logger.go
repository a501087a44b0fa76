package conf

import (
	"strings"

	"github.com/tphakala/squeakmerge/internal/logger"
)

// LoggingConfig maps the log settings onto the logger configuration.
// Debug forces the debug level on every output.
func (s *Settings) LoggingConfig() *logger.LoggingConfig {
	level := strings.ToLower(s.Log.Level)
	if s.Debug {
		level = string(logger.LogLevelDebug)
	}

	cfg := &logger.LoggingConfig{
		DefaultLevel: level,
		Console:      &logger.ConsoleOutput{Enabled: true, Level: level},
	}
	if s.Log.File != "" {
		cfg.FileOutput = &logger.FileOutput{
			Enabled:    true,
			Path:       s.Log.File,
			MaxSize:    s.Log.MaxSize,
			MaxBackups: s.Log.MaxBackups,
			MaxAge:     s.Log.MaxAge,
			Compress:   s.Log.Compress,
			Level:      level,
		}
	}
	return cfg
}
