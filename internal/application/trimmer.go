package application

import (
	"slices"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/XueJourney/AgentRound/internal/domain"
)

// Trimmer evicts the oldest non-system messages until a history fits its
// token budget. Eviction is greedy and age-ordered; the system message at
// the head is never a candidate.
type Trimmer struct {
	estimator *Estimator
	logger    *zap.Logger
}

func NewTrimmer(estimator *Estimator, logger *zap.Logger) *Trimmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trimmer{estimator: estimator, logger: logger}
}

// Trim returns the authoritative replacement for history. The result never
// aliases the input. Trimming stops once the estimate fits the budget, or
// once only two messages remain; a sequence that still exceeds the budget at
// that floor is returned oversized and the provider's own limit is the
// backstop.
func (t *Trimmer) Trim(history []domain.Message, budget int) []domain.Message {
	trimmed := slices.Clone(history)
	count := t.estimator.Count(trimmed)
	if count <= budget {
		return trimmed
	}

	removed := 0
	for count > budget && len(trimmed) > 2 {
		i := firstNonSystem(trimmed)
		if i < 0 {
			break
		}

		evicted := trimmed[i]
		trimmed = append(trimmed[:i], trimmed[i+1:]...)
		removed++
		count = t.estimator.Count(trimmed)

		t.logger.Debug("evicted message",
			zap.String("role", string(evicted.Role)),
			zap.String("preview", preview(evicted.Content, 40)),
			zap.Int("tokens_after", count),
		)
	}

	if count > budget {
		t.logger.Warn("history still over budget after trimming",
			zap.Int("tokens", count),
			zap.Int("budget", budget),
			zap.Int("messages", len(trimmed)),
		)
	}
	if removed > 0 {
		t.logger.Debug("history trimmed",
			zap.Int("removed", removed),
			zap.Int("kept", len(trimmed)),
			zap.Int("tokens", count),
		)
	}
	return trimmed
}

func firstNonSystem(messages []domain.Message) int {
	for i, msg := range messages {
		if msg.Role != domain.RoleSystem {
			return i
		}
	}
	return -1
}

func preview(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
