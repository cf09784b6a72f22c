package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

// RoundRunner is the driver-facing surface of the orchestrator. The CLI
// wraps it with a spinner decorator; tests substitute it wholesale.
type RoundRunner interface {
	RunRound(ctx context.Context, disc *domain.Discussion, round domain.Round, prior domain.ResponseMap, guidance string) (domain.RoundResult, error)
	RunSummary(ctx context.Context, disc *domain.Discussion) (domain.SummaryResult, error)
}

// Budget carries the token and concurrency limits applied to each dispatch.
type Budget struct {
	// MaxContextTokens is the hard window size of the target models.
	MaxContextTokens int
	// ResponseTokens is reserved for the reply and also sent as the
	// completion cap on every request.
	ResponseTokens int
	// MaxWorkers bounds concurrent in-flight requests per round.
	MaxWorkers int
}

func (b Budget) contextBudget() int {
	return b.MaxContextTokens - b.ResponseTokens
}

// Orchestrator runs a single round end to end: per-agent prompt building,
// trimming, bounded concurrent dispatch, failure isolation, history commit,
// and transcript persistence.
type Orchestrator struct {
	gateway    ports.CompletionGateway
	transcript ports.TranscriptSink
	prompts    *PromptSet
	trimmer    *Trimmer
	budget     Budget
	logger     *zap.Logger
}

func NewOrchestrator(
	gateway ports.CompletionGateway,
	transcript ports.TranscriptSink,
	prompts *PromptSet,
	trimmer *Trimmer,
	budget Budget,
	logger *zap.Logger,
) *Orchestrator {
	if budget.MaxWorkers < 1 {
		budget.MaxWorkers = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		gateway:    gateway,
		transcript: transcript,
		prompts:    prompts,
		trimmer:    trimmer,
		budget:     budget,
		logger:     logger,
	}
}

type agentRequest struct {
	agentID string
	history []domain.Message
}

type agentOutcome struct {
	completion ports.Completion
	err        error
}

// RunRound advances the discussion by one round. Failed agents surface as
// failure entries in the result and in the transcript; their histories and
// the ledger stay untouched, and their text is withheld from the next
// round's exchange.
func (o *Orchestrator) RunRound(ctx context.Context, disc *domain.Discussion, round domain.Round, prior domain.ResponseMap, guidance string) (domain.RoundResult, error) {
	participants := disc.Participants()
	o.logger.Info("round starting",
		zap.Int("round", round.Index),
		zap.Int("total", round.Total),
		zap.Int("participants", len(participants)),
		zap.Bool("guided", guidance != ""),
	)

	requests := make([]agentRequest, 0, len(participants))
	for _, agentID := range participants {
		history, err := disc.History(agentID)
		if err != nil {
			return domain.RoundResult{}, fmt.Errorf("load history: %w", err)
		}

		if guidance != "" {
			history = append(history, domain.UserMessage(o.prompts.HumanGuidance(guidance)))
		}

		var prompt string
		if round.Index == 1 && len(prior) == 0 {
			prompt = o.prompts.FirstRound(round, agentID, disc.Topic)
		} else {
			prompt = o.prompts.Discussion(round, OthersText(prior, participants, agentID))
		}
		history = append(history, domain.UserMessage(prompt))

		history = o.trimmer.Trim(history, o.budget.contextBudget())
		if err := disc.ReplaceHistory(agentID, history); err != nil {
			return domain.RoundResult{}, fmt.Errorf("replace history: %w", err)
		}

		requests = append(requests, agentRequest{agentID: agentID, history: history})
	}

	outcomes := o.dispatch(ctx, requests)

	entries := make([]domain.RoundEntry, 0, len(requests))
	for i, request := range requests {
		outcome := outcomes[i]
		if outcome.err != nil {
			o.logger.Warn("agent request failed",
				zap.Int("round", round.Index),
				zap.String("agent", request.agentID),
				zap.Error(outcome.err),
			)
			entries = append(entries, domain.RoundEntry{
				AgentID: request.agentID,
				Text:    domain.FailureNotice(outcome.err),
				Failed:  true,
			})
			continue
		}

		if err := disc.Append(request.agentID, domain.AssistantMessage(outcome.completion.Text)); err != nil {
			return domain.RoundResult{}, fmt.Errorf("commit assistant turn: %w", err)
		}
		disc.Ledger.Add(outcome.completion.PromptTokens, outcome.completion.CompletionTokens)
		entries = append(entries, domain.RoundEntry{AgentID: request.agentID, Text: outcome.completion.Text})
	}

	result := domain.RoundResult{
		Round:            round,
		Guidance:         guidance,
		Entries:          entries,
		PromptTokens:     disc.Ledger.PromptTokens(),
		CompletionTokens: disc.Ledger.CompletionTokens(),
	}

	o.transcript.AppendSection(roundSection(result))
	if _, err := o.transcript.Flush(); err != nil {
		return domain.RoundResult{}, fmt.Errorf("flush transcript: %w", err)
	}

	o.logger.Info("round committed",
		zap.Int("round", round.Index),
		zap.Int("responses", len(result.Responses())),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
	)
	return result, nil
}

// RunSummary asks every agent for its closing synthesis. Summary turns are
// charged to the ledger but never appended to any history, and the exchange
// map for a next round does not exist; the discussion is over.
func (o *Orchestrator) RunSummary(ctx context.Context, disc *domain.Discussion) (domain.SummaryResult, error) {
	participants := disc.Participants()
	o.logger.Info("summary starting", zap.Int("participants", len(participants)))

	requests := make([]agentRequest, 0, len(participants))
	for _, agentID := range participants {
		history, err := disc.History(agentID)
		if err != nil {
			return domain.SummaryResult{}, fmt.Errorf("load history: %w", err)
		}
		history = append(history, domain.UserMessage(o.prompts.Summary()))

		history = o.trimmer.Trim(history, o.budget.contextBudget())
		if err := disc.ReplaceHistory(agentID, history); err != nil {
			return domain.SummaryResult{}, fmt.Errorf("replace history: %w", err)
		}

		requests = append(requests, agentRequest{agentID: agentID, history: history})
	}

	outcomes := o.dispatch(ctx, requests)

	entries := make([]domain.RoundEntry, 0, len(requests))
	for i, request := range requests {
		outcome := outcomes[i]
		if outcome.err != nil {
			o.logger.Warn("summary request failed",
				zap.String("agent", request.agentID),
				zap.Error(outcome.err),
			)
			entries = append(entries, domain.RoundEntry{
				AgentID: request.agentID,
				Text:    domain.FailureNotice(outcome.err),
				Failed:  true,
			})
			continue
		}
		disc.Ledger.Add(outcome.completion.PromptTokens, outcome.completion.CompletionTokens)
		entries = append(entries, domain.RoundEntry{AgentID: request.agentID, Text: outcome.completion.Text})
	}

	o.logger.Info("summary collected", zap.Int("entries", len(entries)))
	return domain.SummaryResult{
		Entries:          entries,
		PromptTokens:     disc.Ledger.PromptTokens(),
		CompletionTokens: disc.Ledger.CompletionTokens(),
	}, nil
}

// dispatch fans requests out to the gateway with bounded concurrency.
// Outcomes land in the slot matching their request, so participant order
// survives arbitrary completion order. Tasks always return nil: one agent's
// failure must not cancel its siblings.
func (o *Orchestrator) dispatch(ctx context.Context, requests []agentRequest) []agentOutcome {
	outcomes := make([]agentOutcome, len(requests))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.budget.MaxWorkers)
	for i, request := range requests {
		group.Go(func() error {
			completion, err := o.gateway.Complete(groupCtx, request.history, request.agentID, o.budget.ResponseTokens)
			outcomes[i] = agentOutcome{completion: completion, err: err}
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}
