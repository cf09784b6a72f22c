package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

// RosterService manages named participant presets so a recurring panel can
// be summoned by name instead of retyped.
type RosterService struct {
	rosters ports.RosterRepository
	clock   ports.Clock
}

func NewRosterService(rosters ports.RosterRepository, clock ports.Clock) *RosterService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &RosterService{rosters: rosters, clock: clock}
}

// Save normalizes, validates, and persists a roster, overwriting any
// existing roster of the same name.
func (s *RosterService) Save(ctx context.Context, name string, models []string) (domain.Roster, error) {
	roster := domain.Roster{Name: name, Models: models, UpdatedAt: s.clock.Now()}
	roster.Normalize()
	if err := roster.Validate(); err != nil {
		return domain.Roster{}, err
	}
	if err := s.rosters.Save(ctx, roster); err != nil {
		return domain.Roster{}, fmt.Errorf("save roster: %w", err)
	}
	return roster, nil
}

func (s *RosterService) Get(ctx context.Context, name string) (domain.Roster, error) {
	return s.rosters.Get(ctx, name)
}

// List returns all rosters sorted by name for stable display.
func (s *RosterService) List(ctx context.Context) ([]domain.Roster, error) {
	rosters, err := s.rosters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}
	sort.Slice(rosters, func(i, j int) bool { return rosters[i].Name < rosters[j].Name })
	return rosters, nil
}

func (s *RosterService) Delete(ctx context.Context, name string) error {
	return s.rosters.Delete(ctx, name)
}
