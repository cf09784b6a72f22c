package domain

// TokenLedger accumulates prompt and completion usage across a discussion.
// Only successful completions feed it; both counters are non-decreasing.
type TokenLedger struct {
	prompt     int
	completion int
}

// Add records one completion's usage. Negative inputs count as zero so the
// ledger never moves backward.
func (l *TokenLedger) Add(promptTokens, completionTokens int) {
	if promptTokens > 0 {
		l.prompt += promptTokens
	}
	if completionTokens > 0 {
		l.completion += completionTokens
	}
}

func (l *TokenLedger) PromptTokens() int     { return l.prompt }
func (l *TokenLedger) CompletionTokens() int { return l.completion }
func (l *TokenLedger) TotalTokens() int      { return l.prompt + l.completion }

// EstimateCost prices the ledger at USD per 1K tokens. Approximate by nature;
// real prices vary by model and over time.
func (l *TokenLedger) EstimateCost(promptPerK, completionPerK float64) float64 {
	return float64(l.prompt)/1000*promptPerK + float64(l.completion)/1000*completionPerK
}

// Stats is the final summary surfaced when a discussion ends.
type Stats struct {
	Rounds           int
	Participants     int
	PromptTokens     int
	CompletionTokens int
}

func (s Stats) TotalTokens() int { return s.PromptTokens + s.CompletionTokens }
