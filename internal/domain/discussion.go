package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Discussion is the mutable state of one roundtable run: the ordered
// participant list, each agent's private history, and the token ledger.
// The driver owns it and hands it to the orchestrator one round at a time;
// histories are only mutated between concurrent phases.
type Discussion struct {
	ID     string
	Topic  string
	Ledger *TokenLedger

	participants []string
	histories    map[string][]Message
}

// NewDiscussion seeds one history per participant with its system message.
// Participant order is fixed for the lifetime of the discussion.
func NewDiscussion(id, topic string, participants []string, systemPrompt func(agent string) string) (*Discussion, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	ordered := make([]string, 0, len(participants))
	histories := make(map[string][]Message, len(participants))
	for _, agent := range participants {
		agent = strings.TrimSpace(agent)
		if agent == "" {
			return nil, fmt.Errorf("empty participant identifier")
		}
		if _, ok := histories[agent]; ok {
			return nil, fmt.Errorf("duplicate participant %q", agent)
		}
		ordered = append(ordered, agent)
		histories[agent] = []Message{SystemMessage(systemPrompt(agent))}
	}

	return &Discussion{
		ID:           id,
		Topic:        topic,
		Ledger:       &TokenLedger{},
		participants: ordered,
		histories:    histories,
	}, nil
}

// Participants returns the fixed participant order.
func (d *Discussion) Participants() []string {
	return slices.Clone(d.participants)
}

// ParticipantList renders the participant identifiers for prompt text.
func (d *Discussion) ParticipantList() string {
	return strings.Join(d.participants, ", ")
}

// History returns a copy of the agent's message sequence.
func (d *Discussion) History(agent string) ([]Message, error) {
	history, ok := d.histories[agent]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, agent)
	}
	return slices.Clone(history), nil
}

// ReplaceHistory installs a trimmed sequence as the agent's authoritative
// history. The previous version must not be used afterward.
func (d *Discussion) ReplaceHistory(agent string, history []Message) error {
	if _, ok := d.histories[agent]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAgent, agent)
	}
	d.histories[agent] = history
	return nil
}

// Append adds one message to the end of the agent's history.
func (d *Discussion) Append(agent string, msg Message) error {
	history, ok := d.histories[agent]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAgent, agent)
	}
	d.histories[agent] = append(history, msg)
	return nil
}
