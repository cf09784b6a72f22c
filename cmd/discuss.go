package cmd

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/XueJourney/AgentRound/internal/adapters/term"
	"github.com/XueJourney/AgentRound/internal/adapters/tokenizer/tiktoken"
	"github.com/XueJourney/AgentRound/internal/adapters/transcript/markdown"
	"github.com/XueJourney/AgentRound/internal/application"
	"github.com/XueJourney/AgentRound/internal/config"
	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/logging"
)

func newDiscussCmd(configPath *string) *cobra.Command {
	var topic string
	var rounds int
	var rosterName string
	var models []string

	cmd := &cobra.Command{
		Use:   "discuss",
		Short: "Run a roundtable discussion between selected models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}
			return runDiscuss(cmd, app, topic, rounds, models, rosterName)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "discussion topic (prompted when empty)")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "initial round count (config initial_rounds when 0)")
	cmd.Flags().StringVar(&rosterName, "roster", "", "saved roster to use instead of interactive model selection")
	cmd.Flags().StringSliceVar(&models, "models", nil, "participant models (skips interactive selection)")
	cmd.MarkFlagsMutuallyExclusive("models", "roster")

	return cmd
}

func runDiscuss(cmd *cobra.Command, app *app, topicFlag string, roundsFlag int, modelsFlag []string, rosterName string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prompter := newLinePrompter(cmd.InOrStdin(), out)

	templates, err := config.LoadTemplates(app.cfg.TemplatesFile)
	if err != nil {
		return err
	}
	prompts, err := application.NewPromptSet(templates)
	if err != nil {
		return err
	}

	apiKey, err := app.resolveAPIKey(ctx)
	if err != nil {
		return err
	}

	participants, err := chooseParticipants(ctx, app, apiKey, modelsFlag, rosterName, prompter)
	if err != nil {
		return err
	}

	topic := strings.TrimSpace(topicFlag)
	if topic == "" {
		topic = strings.TrimSpace(app.cfg.Topic)
	}
	if topic == "" {
		if topic, err = prompter.Topic(); err != nil {
			return err
		}
	}

	rounds := roundsFlag
	if rounds < 1 {
		rounds = app.cfg.InitialRounds
	}
	if rounds < 1 {
		if rounds, err = prompter.Rounds(); err != nil {
			return err
		}
	}

	startedAt := time.Now()
	logger, err := logging.New(app.cfg.LogDir, topic, startedAt)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	logger.Info("discussion starting",
		zap.String("topic", topic),
		zap.Strings("participants", participants),
		zap.Int("initial_rounds", rounds),
		zap.String("base_url", app.cfg.BaseURL),
		zap.Int("max_context_tokens", app.cfg.MaxContextTokens),
		zap.Int("response_tokens", app.cfg.ResponseTokens),
	)

	disc, err := domain.NewDiscussion(uuid.NewString(), topic, participants, func(agent string) string {
		return prompts.System(agent, topic, strings.Join(participants, ", "))
	})
	if err != nil {
		return err
	}

	discussionFields := []zap.Field{zap.String("discussion_id", disc.ID)}
	encoder := tiktoken.NewEncoder(app.cfg.TokenizerModel, componentLogger(logger.Logger, "tokenizer", discussionFields))
	trimmer := application.NewTrimmer(application.NewEstimator(encoder), componentLogger(logger.Logger, "trimmer", discussionFields))
	gateway := app.newGateway(apiKey, componentLogger(logger.Logger, "gateway", discussionFields))
	writer := markdown.NewWriter(app.cfg.OutputDir, topic, startedAt)

	orchestrator := application.NewOrchestrator(
		gateway,
		writer,
		prompts,
		trimmer,
		application.Budget{
			MaxContextTokens: app.cfg.MaxContextTokens,
			ResponseTokens:   app.cfg.ResponseTokens,
			MaxWorkers:       app.cfg.MaxWorkers,
		},
		componentLogger(logger.Logger, "orchestrator", discussionFields),
	)

	presenter := term.NewPresenter(out)
	driver := application.NewDriver(application.DriverParams{
		Rounds:     newSpinnerRunner(orchestrator, out),
		Extensions: prompter,
		Guidance:   prompter,
		Presenter:  presenter,
		Transcript: writer,
		Prices: application.Prices{
			PromptPerK:     app.cfg.PromptPricePer1K,
			CompletionPerK: app.cfg.CompletionPricePer1K,
		},
		TokenLimit: app.cfg.MaxContextTokens,
		Logger:     componentLogger(logger.Logger, "driver", discussionFields),
	})

	transcriptPath, err := driver.Run(ctx, disc, rounds)
	if err != nil {
		logger.Error("discussion failed", zap.Error(err))
		return err
	}

	presenter.DiscussionEnd(transcriptPath, logger.Path())
	logger.Info("discussion complete", zap.String("transcript", transcriptPath))
	return nil
}

// chooseParticipants resolves the participant list: explicit --models wins,
// then a saved roster, then an interactive pick from the catalog. Explicit
// models never touch the catalog, so endpoints without /models stay usable.
func chooseParticipants(ctx context.Context, app *app, apiKey string, explicit []string, rosterName string, prompter *linePrompter) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}

	logger := logging.NewConsole()
	catalog := application.NewModelCatalog(app.cfg.Models, app.newGateway(apiKey, logger), logger)

	available, err := catalog.Models(ctx)
	if err != nil {
		return nil, err
	}

	if rosterName != "" {
		roster, err := app.rosters.Get(ctx, rosterName)
		if err != nil {
			return nil, err
		}
		for _, model := range roster.Models {
			if !slices.Contains(available, model) {
				logger.Warn("roster model not advertised by the endpoint", zap.String("model", model))
			}
		}
		return roster.Models, nil
	}

	return prompter.SelectModels(available)
}

func componentLogger(logger *zap.Logger, component string, fields []zap.Field) *zap.Logger {
	return logger.With(append([]zap.Field{zap.String("component", component)}, fields...)...)
}
