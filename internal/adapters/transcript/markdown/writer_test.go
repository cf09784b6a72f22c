package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func TestNewWriterNamesFileFromTimestampAndTopic(t *testing.T) {
	writer := NewWriter("/tmp/out", "Is TDD dead? Yes/No", testStart)

	assert.Equal(t, "/tmp/out/20260314_150926_Is TDD dead_ Yes_No.md", writer.Path())
}

func TestFlushWritesAllBufferedSections(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, "topic", testStart)

	writer.AppendSection([]string{"# Title", ""})
	writer.AppendSection([]string{"## Round 1", "", "text", ""})

	path, err := writer.Flush()
	require.NoError(t, err)
	assert.Equal(t, writer.Path(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n## Round 1\n\ntext\n\n", string(data))
}

func TestFlushRewritesWholeFileEachTime(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, "topic", testStart)

	writer.AppendSection([]string{"first"})
	_, err := writer.Flush()
	require.NoError(t, err)

	writer.AppendSection([]string{"second"})
	path, err := writer.Flush()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestFlushLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, "topic", testStart)

	writer.AppendSection([]string{"line"})
	_, err := writer.Flush()
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))
}

func TestFlushCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "discussions", "nested")
	writer := NewWriter(dir, "topic", testStart)

	writer.AppendSection([]string{"line"})
	path, err := writer.Flush()
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestSafeTopic(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{"plain", "go generics", "go generics"},
		{"keeps hyphens and underscores", "a-b_c", "a-b_c"},
		{"replaces punctuation", "what? really!", "what_ really_"},
		{"replaces slashes", "a/b\\c", "a_b_c"},
		{"keeps unicode letters", "人工智能的未来", "人工智能的未来"},
		{"truncates to fifty runes", strings.Repeat("x", 80), strings.Repeat("x", 50)},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SafeTopic(tc.topic))
		})
	}
}
