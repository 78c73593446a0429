package log

import (
	"fmt"
	"io"
	"os"
)

type level uint8

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func (l level) prefix() string {
	switch l {
	case levelDebug:
		return "\033[37m[DBG]\033[0m" // White
	case levelInfo:
		return "\033[36m[INF]\033[0m" // Cyan
	case levelWarn:
		return "\033[33m[WRN]\033[0m" // Yellow
	default:
		return "\033[31m[ERR]\033[0m" // Red
	}
}

var (
	verbose           = false
	stdout  io.Writer = os.Stdout
	stderr  io.Writer = os.Stderr
)

// SetVerbose sets the logging verbosity. If true, debug messages are displayed.
func SetVerbose(v bool) {
	verbose = v
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verbose
}

// SetOutput redirects log output. A nil writer keeps the current one.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Debugf logs a debug message if verbose is true.
func Debugf(format string, args ...interface{}) {
	if verbose {
		logMessage(levelDebug, format, args...)
	}
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	logMessage(levelInfo, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	logMessage(levelWarn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
}

// Fatalf logs an error message and exits the program.
func Fatalf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
	os.Exit(1)
}

func logMessage(l level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	output := l.prefix() + " " + message + "\n"

	// Errors go to stderr, everything else to stdout
	if l == levelError {
		_, _ = io.WriteString(stderr, output)
	} else {
		_, _ = io.WriteString(stdout, output)
	}
}
