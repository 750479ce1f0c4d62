package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// LogLevel orders log severities: LevelDebug < LevelInfo < LevelWarn < LevelError.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

const loggerName = "wsclient"

// Level is the current minimum level. Use SetLevel to change it.
var Level = LevelInfo

// DebugLogs reports whether debug output is enabled.
var DebugLogs bool

var logger = newLogger(os.Stderr, LevelInfo)

func newLogger(w io.Writer, level LogLevel) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   loggerName,
		Level:  level.hclogLevel(),
		Output: w,
	})
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "info"
}

func (l LogLevel) hclogLevel() hclog.Level {
	switch l {
	case LevelDebug:
		return hclog.Debug
	case LevelWarn:
		return hclog.Warn
	case LevelError:
		return hclog.Error
	}
	return hclog.Info
}

// ParseLevel converts a level name to a LogLevel. Unknown names map to LevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

func SetLevel(l LogLevel) {
	Level = l
	DebugLogs = l == LevelDebug
	logger.SetLevel(l.hclogLevel())
}

// SetOutput redirects log output to w, keeping the current level.
func SetOutput(w io.Writer) {
	logger = newLogger(w, Level)
}

// SetLogger replaces the backing logger, e.g. with a caller's named sub-logger.
func SetLogger(l hclog.Logger) {
	logger = l
	logger.SetLevel(Level.hclogLevel())
}

func Debugf(format string, args ...any) {
	if DebugLogs {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}
