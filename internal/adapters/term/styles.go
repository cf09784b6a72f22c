package term

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	meta      lipgloss.Style
	round     lipgloss.Style
	guidance  lipgloss.Style
	agent     lipgloss.Style
	failure   lipgloss.Style
	body      lipgloss.Style
	tokens    lipgloss.Style
	rule      lipgloss.Style
	statKey   lipgloss.Style
	statValue lipgloss.Style
	path      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		round:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		guidance:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
		agent:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		failure:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		body:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		tokens:    lipgloss.NewStyle().Faint(true),
		rule:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		statKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		statValue: lipgloss.NewStyle().Bold(true),
		path:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
	}
}
