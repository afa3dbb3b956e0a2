// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and output. Debug mode gets a human-readable
// console writer; otherwise logs are JSON lines on stdout.
func Init(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if debug {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
