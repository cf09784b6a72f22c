package application

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/XueJourney/AgentRound/internal/domain"
)

// Transcript section builders. The sink persists lines verbatim, one per
// slice element, so the markdown dialect lives here next to the state that
// produces it.

func headerSection(topic, participants string, tokenLimit int, now time.Time) []string {
	return []string{
		"# 🗣️ Multi-Model Discussion Record",
		"",
		fmt.Sprintf("> **Topic**: %s  ", topic),
		fmt.Sprintf("> **Time**: %s  ", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("> **Participants**: %s  ", participants),
		fmt.Sprintf("> **Token Limit**: %s", groupThousands(tokenLimit)),
		"",
		"---",
		"",
	}
}

func roundSection(result domain.RoundResult) []string {
	lines := []string{
		fmt.Sprintf("## 📌 %s", result.Round.Label(result.Guidance != "")),
		"",
	}

	if result.Guidance != "" {
		lines = append(lines,
			"### 🧑 Human Guidance",
			"",
			fmt.Sprintf("> %s", result.Guidance),
			"",
		)
	}

	for _, entry := range result.Entries {
		lines = append(lines,
			fmt.Sprintf("### 🤖 %s", entry.AgentID),
			"",
			entry.Text,
			"",
		)
	}

	lines = append(lines,
		fmt.Sprintf("> 📊 Cumulative tokens: prompt %s · completion %s",
			groupThousands(result.PromptTokens),
			groupThousands(result.CompletionTokens)),
		"",
		"---",
		"",
	)
	return lines
}

func summaryHeaderSection() []string {
	return []string{
		"## 📝 Final Summary",
		"",
	}
}

func summaryEntriesSection(result domain.SummaryResult) []string {
	lines := make([]string, 0, len(result.Entries)*4)
	for _, entry := range result.Entries {
		lines = append(lines,
			fmt.Sprintf("### 🤖 %s", entry.AgentID),
			"",
			entry.Text,
			"",
		)
	}
	return lines
}

func statisticsSection(stats domain.Stats) []string {
	return []string{
		"---",
		"",
		"## 📊 Statistics",
		"",
		"| Metric | Value |",
		"|--------|-------|",
		fmt.Sprintf("| Total Rounds | %d |", stats.Rounds),
		fmt.Sprintf("| Participants | %d |", stats.Participants),
		fmt.Sprintf("| Prompt Tokens | %s |", groupThousands(stats.PromptTokens)),
		fmt.Sprintf("| Completion Tokens | %s |", groupThousands(stats.CompletionTokens)),
		fmt.Sprintf("| Total Tokens | %s |", groupThousands(stats.TotalTokens())),
		"",
	}
}

// groupThousands renders 1234567 as "1,234,567".
func groupThousands(v int) string {
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
