package contract

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Defaults for the logging flags.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// InitLogger configures the global zerolog logger. Logs go to stderr so that
// stdout stays reserved for command results and the MCP stdio transport.
func InitLogger(level, format string) {
	initLogger(os.Stderr, level, format)
}

func initLogger(w io.Writer, level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	output := w
	if format == "" || format == "text" {
		output = zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// isTerminal reports whether w is an interactive file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Logger returns the global logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.Error().Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a non-fatal failure.
func LogWarn(msg string, err error) {
	log.Warn().Err(err).Msg(msg)
}

// LogDebug logs a debug message with optional key/value pairs.
func LogDebug(msg string, fields map[string]any) {
	log.Debug().Fields(fields).Msg(msg)
}
