// Package logging builds the zap logger the discussion pipeline shares:
// warnings and worse go to stderr, everything goes to a per-discussion file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logDirMode  = 0o755
	logFileMode = 0o644
	timeLayout  = "20060102_150405"
	maxTopicLen = 50
)

// Logger is a zap logger bound to a per-discussion log file.
type Logger struct {
	*zap.Logger
	path string
	file *os.File
}

// NewConsole returns a stderr-only logger for commands that run outside a
// discussion, such as roster and credential management.
func NewConsole() *zap.Logger {
	return zap.New(consoleCore())
}

// New opens {dir}/{topic}_{timestamp}.log at debug level and tees it with
// the warn-level stderr core. The caller owns Close.
func New(dir string, topic string, startedAt time.Time) (*Logger, error) {
	if err := os.MkdirAll(dir, logDirMode); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.log", safeTopic(topic), startedAt.Format(timeLayout))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), zapcore.DebugLevel)

	return &Logger{
		Logger: zap.New(zapcore.NewTee(consoleCore(), fileCore)),
		path:   path,
		file:   file,
	}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string { return l.path }

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func consoleCore() zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.WarnLevel,
	)
}

// safeTopic follows the transcript filename rule: letters, digits, spaces,
// hyphens, and underscores survive, everything else becomes an underscore,
// truncated to fifty runes.
func safeTopic(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	runes := []rune(b.String())
	if len(runes) > maxTopicLen {
		runes = runes[:maxTopicLen]
	}
	return string(runes)
}
