package domain

import "fmt"

// Round is an immutable snapshot of one discussion cycle. The discussion's
// total may grow over time, but never within a dispatched round.
type Round struct {
	Index int
	Total int
}

func (r Round) Remaining() int { return r.Total - r.Index }

// Label renders the round header used on the terminal and in the transcript.
func (r Round) Label(guided bool) string {
	if guided {
		return fmt.Sprintf("Round %d/%d (%d remaining, with guidance)", r.Index, r.Total, r.Remaining())
	}
	return fmt.Sprintf("Round %d/%d (%d remaining)", r.Index, r.Total, r.Remaining())
}

// ResponseMap holds the previous round's successful outputs keyed by agent.
// Agents that failed that round are absent, not present with an error value.
type ResponseMap map[string]string

// RoundEntry is one agent's outcome within a committed round.
type RoundEntry struct {
	AgentID string
	Text    string // generated text, or the failure notice for failed agents
	Failed  bool
}

// RoundResult is a committed round: entries in participant order plus the
// cumulative ledger snapshot taken right after commit.
type RoundResult struct {
	Round            Round
	Guidance         string
	Entries          []RoundEntry
	PromptTokens     int
	CompletionTokens int
}

// Responses projects the successful entries into the map that seeds the next
// round's discussion prompt.
func (r RoundResult) Responses() ResponseMap {
	m := make(ResponseMap, len(r.Entries))
	for _, entry := range r.Entries {
		if entry.Failed {
			continue
		}
		m[entry.AgentID] = entry.Text
	}
	return m
}

// SummaryResult is the terminal synthesis pass, entries in participant order.
// It carries no response map; no round follows a summary.
type SummaryResult struct {
	Entries          []RoundEntry
	PromptTokens     int
	CompletionTokens int
}
