package application

import (
	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

// Overheads applied on top of encoded content, matching the chat wire
// format: a fixed charge per message plus one for the reply priming.
const (
	perMessageOverhead = 4
	sequenceOverhead   = 2
)

// Estimator prices a message sequence in tokens. It informs trimming
// decisions; exact accounting comes back from the provider with each
// completion.
type Estimator struct {
	encoder ports.TokenEncoder
}

func NewEstimator(encoder ports.TokenEncoder) *Estimator {
	return &Estimator{encoder: encoder}
}

// Count returns the estimated token cost of sending messages as one request.
func (e *Estimator) Count(messages []domain.Message) int {
	total := sequenceOverhead
	for _, msg := range messages {
		total += perMessageOverhead + e.encoder.EncodeLen(msg.Content)
	}
	return total
}
