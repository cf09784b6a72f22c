// Package toml stores participant rosters in a single TOML file with
// atomic replace-on-write.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

const (
	rostersFileMode = 0o600
	rostersDirMode  = 0o700
	tempFilePattern = ".rosters-*.toml.tmp"
)

type Repository struct {
	path string
	mu   *sync.RWMutex
}

// Concurrent processes are out of scope, but two repositories in one
// process must still serialize on the same file.
var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.RosterRepository = (*Repository)(nil)

func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("rosters path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve rosters path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	return &Repository{path: absPath, mu: lockForPath(absPath)}, nil
}

func (r *Repository) Get(ctx context.Context, name string) (domain.Roster, error) {
	if err := ctx.Err(); err != nil {
		return domain.Roster{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Roster{}, err
	}

	for _, entry := range file.Rosters {
		if entry.Name == name {
			return fromSchema(entry), nil
		}
	}

	return domain.Roster{}, fmt.Errorf("roster %q: %w", name, domain.ErrRosterNotFound)
}

func (r *Repository) List(ctx context.Context) ([]domain.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	rosters := make([]domain.Roster, 0, len(file.Rosters))
	for _, entry := range file.Rosters {
		rosters = append(rosters, fromSchema(entry))
	}

	return rosters, nil
}

func (r *Repository) Save(ctx context.Context, roster domain.Roster) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(roster)
	updated := false
	for i := range file.Rosters {
		if file.Rosters[i].Name == encoded.Name {
			file.Rosters[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Rosters = append(file.Rosters, encoded)
	}

	return r.writeSchema(file)
}

func (r *Repository) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	kept := file.Rosters[:0]
	found := false
	for _, entry := range file.Rosters {
		if entry.Name == name {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return fmt.Errorf("roster %q: %w", name, domain.ErrRosterNotFound)
	}
	file.Rosters = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read rosters file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode rosters file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), rostersDirMode); err != nil {
		return fmt.Errorf("create rosters directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode rosters file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp rosters file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp rosters file: %w", err)
	}

	if err := tempFile.Chmod(rostersFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp rosters file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp rosters file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace rosters file: %w", err)
	}

	cleanup = false
	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(roster domain.Roster) rosterSchema {
	return rosterSchema{
		Name:      roster.Name,
		Models:    roster.Models,
		UpdatedAt: formatTime(roster.UpdatedAt),
	}
}

func fromSchema(schema rosterSchema) domain.Roster {
	return domain.Roster{
		Name:      schema.Name,
		Models:    schema.Models,
		UpdatedAt: parseTime(schema.UpdatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
