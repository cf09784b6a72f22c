package domain

import (
	"fmt"
	"strings"
	"time"
)

// Roster is a named, ordered preset of model identifiers reusable as a
// discussion participant list.
type Roster struct {
	Name      string
	Models    []string
	UpdatedAt time.Time
}

func (r Roster) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Models) == 0 {
		return fmt.Errorf("at least one model is required")
	}

	seen := make(map[string]struct{}, len(r.Models))
	for _, model := range r.Models {
		if strings.TrimSpace(model) == "" {
			return fmt.Errorf("empty model identifier")
		}
		if _, ok := seen[model]; ok {
			return fmt.Errorf("duplicate model %q", model)
		}
		seen[model] = struct{}{}
	}

	return nil
}

// Normalize trims whitespace and drops empty or duplicate entries while
// preserving order.
func (r *Roster) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)

	models := make([]string, 0, len(r.Models))
	seen := make(map[string]struct{}, len(r.Models))
	for _, model := range r.Models {
		trimmed := strings.TrimSpace(model)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		models = append(models, trimmed)
	}

	r.Models = models
}
