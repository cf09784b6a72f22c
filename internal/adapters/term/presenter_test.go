package term

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XueJourney/AgentRound/internal/domain"
)

func TestPresenterDiscussionStart(t *testing.T) {
	var buf bytes.Buffer
	presenter := NewPresenter(&buf)

	presenter.DiscussionStart("is tdd dead", []string{"gpt-4o", "claude"}, 3)

	out := buf.String()
	assert.Contains(t, out, "Multi-Model Discussion")
	assert.Contains(t, out, "topic: is tdd dead")
	assert.Contains(t, out, "participants: gpt-4o, claude")
	assert.Contains(t, out, "planned rounds: 3")
}

func TestPresenterRoundCommitted(t *testing.T) {
	var buf bytes.Buffer
	presenter := NewPresenter(&buf)

	presenter.RoundCommitted(domain.RoundResult{
		Round:    domain.Round{Index: 2, Total: 3},
		Guidance: "push on tradeoffs",
		Entries: []domain.RoundEntry{
			{AgentID: "gpt-4o", Text: "my view"},
			{AgentID: "claude", Text: "[request failed: timeout]", Failed: true},
		},
		PromptTokens:     12345,
		CompletionTokens: 678,
	})

	out := buf.String()
	assert.Contains(t, out, "Round 2/3 (1 remaining, with guidance)")
	assert.Contains(t, out, "guidance: push on tradeoffs")
	assert.Contains(t, out, "gpt-4o")
	assert.Contains(t, out, "my view")
	assert.Contains(t, out, "[request failed: timeout]")
	assert.Contains(t, out, "prompt 12,345 · completion 678")
}

func TestPresenterStatistics(t *testing.T) {
	var buf bytes.Buffer
	presenter := NewPresenter(&buf)

	presenter.Statistics(domain.Stats{
		Rounds:           4,
		Participants:     2,
		PromptTokens:     1500,
		CompletionTokens: 500,
	}, 0.0300)

	out := buf.String()
	assert.Contains(t, out, "rounds:")
	assert.Contains(t, out, "total tokens:")
	assert.Contains(t, out, "2,000")
	assert.Contains(t, out, "$0.0300")
}

func TestPresenterDiscussionEnd(t *testing.T) {
	var buf bytes.Buffer
	presenter := NewPresenter(&buf)

	presenter.DiscussionEnd("discussions/x.md", "log/x.log")
	out := buf.String()
	assert.Contains(t, out, "discussions/x.md")
	assert.Contains(t, out, "log/x.log")

	buf.Reset()
	presenter.DiscussionEnd("discussions/x.md", "")
	assert.NotContains(t, buf.String(), "log:")
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "1,000", formatCount(1000))
	assert.Equal(t, "1,234,567", formatCount(1234567))
}
