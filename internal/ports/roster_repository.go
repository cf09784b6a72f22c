package ports

import (
	"context"

	"github.com/XueJourney/AgentRound/internal/domain"
)

type RosterRepository interface {
	Get(ctx context.Context, name string) (domain.Roster, error)
	List(ctx context.Context) ([]domain.Roster, error)
	Save(ctx context.Context, roster domain.Roster) error
	Delete(ctx context.Context, name string) error
}
