package contract

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DebugVerbosity is the verbosity at which debug messages are emitted.
const DebugVerbosity = 5

var (
	logMu    sync.Mutex
	logger   = newLogger(os.Stderr)
	exitFunc = os.Exit
)

// newLogger builds a console logger that renders lines like "Warn <msg> error=<err>".
func newLogger(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i any) string {
			switch s, _ := i.(string); s {
			case zerolog.LevelFatalValue, zerolog.LevelErrorValue:
				return "Fatal"
			case zerolog.LevelWarnValue:
				return "Warn"
			case zerolog.LevelDebugValue:
				return "Debug"
			default:
				return strings.ToUpper(s)
			}
		},
	}
	return zerolog.New(out).Level(zerolog.InfoLevel)
}

// SetLogOutput redirects log output, mainly for tests.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	level := logger.GetLevel()
	logger = newLogger(w).Level(level)
}

// SetVerbosity enables debug logging at DebugVerbosity and above.
func SetVerbosity(verbosity int) {
	logMu.Lock()
	defer logMu.Unlock()
	if verbosity >= DebugVerbosity {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

func currentLogger() zerolog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	l := currentLogger()
	l.WithLevel(zerolog.FatalLevel).Err(err).Msg(msg)
	exitFunc(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	l := currentLogger()
	l.Warn().Err(err).Msg(msg)
}

// LogDebug logs a formatted debug message when verbosity is at its maximum.
func LogDebug(format string, args ...any) {
	l := currentLogger()
	l.Debug().Msg(fmt.Sprintf(format, args...))
}
