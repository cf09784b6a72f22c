package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

// Prices holds the per-1000-token rates used for the closing cost estimate.
type Prices struct {
	PromptPerK     float64
	CompletionPerK float64
}

// DriverParams wires a Driver. Clock and Logger may be nil.
type DriverParams struct {
	Rounds     RoundRunner
	Extensions ports.ExtensionSource
	Guidance   ports.GuidanceSource
	Presenter  ports.Presenter
	Transcript ports.TranscriptSink
	Clock      ports.Clock
	Prices     Prices
	// TokenLimit is the context window recorded in the transcript header.
	TokenLimit int
	Logger     *zap.Logger
}

// Driver owns the outer discussion loop: the planned round sequence,
// extension decisions with optional one-shot guidance, the summary pass,
// and the final statistics.
type Driver struct {
	rounds     RoundRunner
	extensions ports.ExtensionSource
	guidance   ports.GuidanceSource
	presenter  ports.Presenter
	transcript ports.TranscriptSink
	clock      ports.Clock
	prices     Prices
	tokenLimit int
	logger     *zap.Logger
}

func NewDriver(params DriverParams) *Driver {
	if params.Clock == nil {
		params.Clock = ports.SystemClock{}
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &Driver{
		rounds:     params.Rounds,
		extensions: params.Extensions,
		guidance:   params.Guidance,
		presenter:  params.Presenter,
		transcript: params.Transcript,
		clock:      params.Clock,
		prices:     params.Prices,
		tokenLimit: params.TokenLimit,
		logger:     params.Logger,
	}
}

// Run executes the whole discussion and returns the persisted transcript
// location. The cumulative round counter only ever grows; an extension of E
// rounds raises the target to counter+E, and a guided round spends one unit
// of that extension immediately.
func (d *Driver) Run(ctx context.Context, disc *domain.Discussion, initialRounds int) (string, error) {
	if initialRounds < 1 {
		return "", fmt.Errorf("initial rounds must be at least 1, got %d", initialRounds)
	}

	d.logger.Info("discussion starting",
		zap.String("discussion_id", disc.ID),
		zap.String("topic", disc.Topic),
		zap.Strings("participants", disc.Participants()),
		zap.Int("initial_rounds", initialRounds),
	)
	d.presenter.DiscussionStart(disc.Topic, disc.Participants(), initialRounds)

	d.transcript.AppendSection(headerSection(disc.Topic, disc.ParticipantList(), d.tokenLimit, d.clock.Now()))
	if _, err := d.transcript.Flush(); err != nil {
		return "", fmt.Errorf("flush transcript: %w", err)
	}

	cumulative := 0
	total := initialRounds
	var prior domain.ResponseMap

	for {
		for cumulative < total {
			cumulative++
			result, err := d.rounds.RunRound(ctx, disc, domain.Round{Index: cumulative, Total: total}, prior, "")
			if err != nil {
				return "", fmt.Errorf("run round %d: %w", cumulative, err)
			}
			prior = result.Responses()
			d.presenter.RoundCommitted(result)
		}

		d.presenter.BatchEnd(disc.Ledger.PromptTokens(), disc.Ledger.CompletionTokens())

		more, err := d.extensions.Continue()
		if err != nil {
			return "", fmt.Errorf("read continue decision: %w", err)
		}
		if !more {
			break
		}

		extra, err := d.extensions.ExtraRounds()
		if err != nil {
			return "", fmt.Errorf("read extra round count: %w", err)
		}
		total = cumulative + extra

		guidance, err := d.guidance.Guidance()
		if err != nil {
			return "", fmt.Errorf("read guidance: %w", err)
		}
		if guidance != "" {
			// The guided round consumes one unit of the extension, so a
			// one-round extension with guidance runs exactly that guided
			// round and comes straight back to the continue question.
			cumulative++
			total = cumulative + extra - 1
			result, err := d.rounds.RunRound(ctx, disc, domain.Round{Index: cumulative, Total: total}, prior, guidance)
			if err != nil {
				return "", fmt.Errorf("run guided round %d: %w", cumulative, err)
			}
			prior = result.Responses()
			d.presenter.RoundCommitted(result)
		}
	}

	d.presenter.SummaryStart()
	d.transcript.AppendSection(summaryHeaderSection())

	summary, err := d.rounds.RunSummary(ctx, disc)
	if err != nil {
		return "", fmt.Errorf("run summary: %w", err)
	}
	d.transcript.AppendSection(summaryEntriesSection(summary))
	d.presenter.SummaryCommitted(summary)

	stats := domain.Stats{
		Rounds:           cumulative,
		Participants:     len(disc.Participants()),
		PromptTokens:     disc.Ledger.PromptTokens(),
		CompletionTokens: disc.Ledger.CompletionTokens(),
	}
	d.transcript.AppendSection(statisticsSection(stats))
	path, err := d.transcript.Flush()
	if err != nil {
		return "", fmt.Errorf("flush transcript: %w", err)
	}
	d.presenter.Statistics(stats, disc.Ledger.EstimateCost(d.prices.PromptPerK, d.prices.CompletionPerK))

	d.logger.Info("discussion complete",
		zap.String("discussion_id", disc.ID),
		zap.Int("rounds", stats.Rounds),
		zap.Int("total_tokens", stats.TotalTokens()),
		zap.String("transcript", path),
	)
	return path, nil
}
