package ports

import (
	"context"

	"github.com/XueJourney/AgentRound/internal/domain"
)

// Completion is the gateway's successful result for one agent request.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// CompletionGateway turns a bounded message sequence into generated text plus
// usage counts. Implementations must be safe to call concurrently for
// distinct agents and must not mutate the passed history.
type CompletionGateway interface {
	Complete(ctx context.Context, history []domain.Message, agentID string, maxResponseTokens int) (Completion, error)
}

// ModelSource lists the model identifiers selectable as participants.
type ModelSource interface {
	ListModels(ctx context.Context) ([]string, error)
}
