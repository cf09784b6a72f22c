package ports

import "github.com/XueJourney/AgentRound/internal/domain"

// Presenter renders discussion progress on the terminal. Rendering is
// presentation only; failures to draw never affect committed state, so the
// methods do not return errors.
type Presenter interface {
	DiscussionStart(topic string, participants []string, rounds int)
	RoundCommitted(result domain.RoundResult)
	BatchEnd(promptTokens, completionTokens int)
	SummaryStart()
	SummaryCommitted(result domain.SummaryResult)
	Statistics(stats domain.Stats, estimatedCost float64)
	DiscussionEnd(transcriptPath, logPath string)
}
