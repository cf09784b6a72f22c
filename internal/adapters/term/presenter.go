// Package term renders discussion progress to a terminal.
package term

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

const ruleWidth = 56

// Presenter writes styled progress output as the discussion advances. It is
// presentation only; the transcript file is the durable record.
type Presenter struct {
	out    io.Writer
	styles styles
}

var _ ports.Presenter = (*Presenter)(nil)

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out, styles: newStyles()}
}

func (p *Presenter) DiscussionStart(topic string, participants []string, rounds int) {
	p.println(p.styles.title.Render("🗣️  Multi-Model Discussion"))
	p.println(p.styles.meta.Render("topic: " + topic))
	p.println(p.styles.meta.Render("participants: " + strings.Join(participants, ", ")))
	p.println(p.styles.meta.Render("planned rounds: " + strconv.Itoa(rounds)))
	p.println("")
}

func (p *Presenter) RoundCommitted(result domain.RoundResult) {
	p.println(p.styles.round.Render("📌 " + result.Round.Label(result.Guidance != "")))

	if result.Guidance != "" {
		p.println(p.styles.guidance.Render("🧑 guidance: " + result.Guidance))
	}
	p.println("")

	for _, entry := range result.Entries {
		p.printEntry(entry)
	}

	p.println(p.styles.tokens.Render(fmt.Sprintf("📊 cumulative tokens: prompt %s · completion %s",
		formatCount(result.PromptTokens), formatCount(result.CompletionTokens))))
	p.println("")
}

func (p *Presenter) BatchEnd(promptTokens, completionTokens int) {
	p.println(p.styles.rule.Render(strings.Repeat("─", ruleWidth)))
	p.println(p.styles.meta.Render(fmt.Sprintf("batch complete · prompt %s · completion %s",
		formatCount(promptTokens), formatCount(completionTokens))))
}

func (p *Presenter) SummaryStart() {
	p.println(p.styles.round.Render("📝 Final Summary"))
	p.println("")
}

func (p *Presenter) SummaryCommitted(result domain.SummaryResult) {
	for _, entry := range result.Entries {
		p.printEntry(entry)
	}
}

func (p *Presenter) Statistics(stats domain.Stats, estimatedCost float64) {
	p.println(p.styles.rule.Render(strings.Repeat("─", ruleWidth)))
	p.println(p.styles.title.Render("📊 Statistics"))
	p.printStat("rounds", strconv.Itoa(stats.Rounds))
	p.printStat("participants", strconv.Itoa(stats.Participants))
	p.printStat("prompt tokens", formatCount(stats.PromptTokens))
	p.printStat("completion tokens", formatCount(stats.CompletionTokens))
	p.printStat("total tokens", formatCount(stats.TotalTokens()))
	p.printStat("estimated cost", fmt.Sprintf("$%.4f", estimatedCost))
}

func (p *Presenter) DiscussionEnd(transcriptPath, logPath string) {
	p.println("")
	p.println("📄 transcript: " + p.styles.path.Render(transcriptPath))
	if logPath != "" {
		p.println("🪵 log: " + p.styles.path.Render(logPath))
	}
}

func (p *Presenter) printEntry(entry domain.RoundEntry) {
	if entry.Failed {
		p.println(p.styles.failure.Render("🤖 " + entry.AgentID))
		p.println(p.styles.failure.Render(entry.Text))
	} else {
		p.println(p.styles.agent.Render("🤖 " + entry.AgentID))
		p.println(p.styles.body.Render(entry.Text))
	}
	p.println("")
}

func (p *Presenter) printStat(key, value string) {
	p.println("  " + p.styles.statKey.Render(key+":") + " " + p.styles.statValue.Render(value))
}

func (p *Presenter) println(line string) {
	_, _ = fmt.Fprintln(p.out, line)
}

// formatCount renders 1234567 as "1,234,567".
func formatCount(v int) string {
	s := strconv.Itoa(v)
	start := 0
	if strings.HasPrefix(s, "-") {
		start = 1
	}

	var b strings.Builder
	b.Grow(len(s) + (len(s)-start)/3)
	for i := 0; i < len(s); i++ {
		if i > start && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
