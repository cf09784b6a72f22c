package application

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/XueJourney/AgentRound/internal/ports"
)

// ErrNoModels means neither the configuration nor the provider yielded any
// model to discuss with.
var ErrNoModels = errors.New("no models available")

// ModelCatalog resolves the selectable model list. A configured list wins
// outright; only when it is empty does the provider get asked.
type ModelCatalog struct {
	configured []string
	source     ports.ModelSource
	logger     *zap.Logger
}

func NewModelCatalog(configured []string, source ports.ModelSource, logger *zap.Logger) *ModelCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelCatalog{configured: configured, source: source, logger: logger}
}

func (c *ModelCatalog) Models(ctx context.Context) ([]string, error) {
	if len(c.configured) > 0 {
		c.logger.Debug("using configured model list", zap.Int("models", len(c.configured)))
		return slices.Clone(c.configured), nil
	}

	c.logger.Debug("fetching model list from provider")
	models, err := c.source.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	return models, nil
}
