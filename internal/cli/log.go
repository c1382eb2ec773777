package cli

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// stderr resolves os.Stderr on every write so redirections made after
// start-up (tests, pipes) are honored.
type stderr struct{}

func (stderr) Write(p []byte) (int, error) { return os.Stderr.Write(p) }

var console = &log.ConsoleWriter{
	Writer:    stderr{},
	Formatter: formatConsole,
}

// formatConsole renders "[LEVEL] message key=value ...".
func formatConsole(w io.Writer, a *log.FormatterArgs) (int, error) {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(strings.ToUpper(a.Level))
	b.WriteString("] ")
	b.WriteString(a.Message)
	for _, kv := range a.KeyValues {
		b.WriteString(" ")
		b.WriteString(kv.Key)
		b.WriteString("=")
		b.WriteString(kv.Value)
	}
	b.WriteString("\n")
	return io.WriteString(w, b.String())
}

// logLevel maps the loaded configuration to a log level.
func logLevel() log.Level {
	switch {
	case cfg != nil && cfg.Debug:
		return log.DebugLevel
	case cfg != nil && cfg.Verbose:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

func logger() *log.Logger {
	return &log.Logger{
		Level:  logLevel(),
		Writer: console,
	}
}

// logVerbose prints a message if verbose mode is enabled
func logVerbose(format string, args ...interface{}) {
	logger().Info().Msgf(format, args...)
}

// logDebug prints a message if debug mode is enabled
func logDebug(format string, args ...interface{}) {
	logger().Debug().Msgf(format, args...)
}

// logWarn prints a warning unless logging is turned down further
func logWarn(format string, args ...interface{}) {
	logger().Warn().Msgf(format, args...)
}

// logError prints an error message
func logError(format string, args ...interface{}) {
	logger().Error().Msgf(format, args...)
}
