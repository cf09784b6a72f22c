package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/XueJourney/AgentRound/internal/adapters/gateway/openai"
	tomlroster "github.com/XueJourney/AgentRound/internal/adapters/roster/toml"
	chainstore "github.com/XueJourney/AgentRound/internal/adapters/secrets/chain"
	"github.com/XueJourney/AgentRound/internal/application"
	"github.com/XueJourney/AgentRound/internal/config"
	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

const (
	appConfigDir = "agentround"
	rostersFile  = "rosters.toml"
	secretsDir   = "secrets"
	apiKeySecret = "api_key"
)

type app struct {
	cfg         *config.Config
	secretStore ports.SecretStore
	rosters     *application.RosterService
}

func wireApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	userDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config directory: %w", err)
	}
	appDir := filepath.Join(userDir, appConfigDir)

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(appDir, secretsDir))
	if err != nil {
		return nil, fmt.Errorf("wire credential store chain: %w", err)
	}

	rosterRepo, err := tomlroster.NewRepository(filepath.Join(appDir, rostersFile))
	if err != nil {
		return nil, fmt.Errorf("wire roster repository: %w", err)
	}

	return &app{
		cfg:         cfg,
		secretStore: secretStore,
		rosters:     application.NewRosterService(rosterRepo, ports.SystemClock{}),
	}, nil
}

// resolveAPIKey prefers the configured key over the credential stores. A
// missing key names the command that fixes it.
func (a *app) resolveAPIKey(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(a.cfg.APIKey); key != "" {
		return key, nil
	}

	key, err := a.secretStore.Get(ctx, apiKeySecret)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", errors.New(`no API key configured: set api_key in the config file, export AGENTROUND_API_KEY, or run "agentround auth set-key"`)
		}
		return "", fmt.Errorf("load API key: %w", err)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("stored API key is empty")
	}
	return key, nil
}

func (a *app) newGateway(apiKey string, logger *zap.Logger) *openai.Client {
	return &openai.Client{
		BaseURL: a.cfg.BaseURL,
		APIKey:  apiKey,
		Temperature: openai.TemperatureRange{
			Min: a.cfg.TemperatureMin,
			Max: a.cfg.TemperatureMax,
		},
		Logger: logger,
	}
}
