// Package markdown persists a discussion transcript as one markdown file,
// rewritten whole on every flush.
package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/XueJourney/AgentRound/internal/ports"
)

const (
	transcriptFileMode = 0o644
	transcriptDirMode  = 0o755
	tempFilePattern    = ".transcript-*.md.tmp"
	maxTopicLen        = 50
)

var _ ports.TranscriptSink = (*Writer)(nil)

// Writer buffers transcript lines in memory and rewrites the backing file
// completely on Flush, so a crash can never leave a torn file behind.
type Writer struct {
	path  string
	lines []string
}

// NewWriter derives the transcript location from the topic and start time.
func NewWriter(dir, topic string, startedAt time.Time) *Writer {
	name := fmt.Sprintf("%s_%s.md", startedAt.Format("20060102_150405"), SafeTopic(topic))
	return &Writer{path: filepath.Join(dir, name)}
}

// Path returns where Flush will write, whether or not it has happened yet.
func (w *Writer) Path() string {
	return w.path
}

// AppendSection adds lines to the in-memory transcript.
func (w *Writer) AppendSection(lines []string) {
	w.lines = append(w.lines, lines...)
}

// Flush atomically replaces the transcript file with the full buffer and
// returns its path.
func (w *Writer) Flush() (string, error) {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, transcriptDirMode); err != nil {
		return "", fmt.Errorf("create transcript directory: %w", err)
	}

	data := strings.Join(w.lines, "\n")
	if len(w.lines) > 0 {
		data += "\n"
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return "", fmt.Errorf("create temp transcript file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.WriteString(data); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("write temp transcript file: %w", err)
	}

	if err := tempFile.Chmod(transcriptFileMode); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("chmod temp transcript file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("close temp transcript file: %w", err)
	}

	if err := os.Rename(tempName, w.path); err != nil {
		return "", fmt.Errorf("replace transcript file: %w", err)
	}

	cleanup = false
	return w.path, nil
}

// SafeTopic reduces a topic to a filename-friendly form: letters, digits,
// spaces, hyphens, and underscores survive, anything else becomes an
// underscore, and the result is capped at 50 runes.
func SafeTopic(topic string) string {
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
