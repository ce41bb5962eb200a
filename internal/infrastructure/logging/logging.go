package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/cityforge-go/internal/infrastructure/config"
)

// New builds the root logger from configuration. Components receive child
// loggers via injection rather than a package-level global.
func New(cfg *config.LoggingConfig) zerolog.Logger {
	var out io.Writer
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
