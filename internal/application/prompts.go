package application

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/XueJourney/AgentRound/internal/domain"
)

// Built-in prompt templates. Any subset can be replaced via the template
// file; replacements are validated against each kind's permitted fields
// before the first dispatch.
const (
	DefaultSystemTemplate = "You are {agent_name}, taking part in a multi-agent roundtable discussion.\n" +
		"Topic: \"{topic}\"\n" +
		"Participants: {participants}\n\n" +
		"Rules:\n" +
		"1. Speak in your own voice, with an independent position and perspective\n" +
		"2. Read the other participants' statements carefully; you may agree, rebut, or extend them\n" +
		"3. Support your position with clear logic and evidence\n" +
		"4. Avoid empty generalities; offer analysis with depth\n" +
		"5. Keep each turn under 300 words"

	DefaultFirstRoundTemplate = "# Agent\n" +
		"[Round {current_round}/{total_rounds} | {remaining} remaining]\n\n" +
		"As {agent_name}, open the discussion with your view on \"{topic}\".\n" +
		"State your position and give your core arguments and supporting evidence."

	DefaultDiscussionTemplate = "# Agent\n" +
		"[Round {current_round}/{total_rounds} | {remaining} remaining]\n\n" +
		"Statements from the other participants last round:\n" +
		"{others_text}\n" +
		"Consider the views above and push the discussion deeper. You may:\n" +
		"- Rebut any view you disagree with, giving reasons\n" +
		"- Add angles the others have missed\n" +
		"- Build further on someone else's argument\n" +
		"- Revise or refine your own earlier position"

	DefaultHumanGuidanceTemplate = "# Human\n" +
		"Guidance from the user:\n" +
		"{human_input}\n\n" +
		"Adjust the direction and emphasis of your discussion according to this guidance."

	DefaultSummaryTemplate = "# Agent\n" +
		"[Final summary]\n\n" +
		"The discussion is about to end. Summarize:\n" +
		"1. Your final position\n" +
		"2. The most valuable points raised, including the other participants'\n" +
		"3. Remaining disagreements or open questions"
)

// Templates carries the raw template text for the five prompt kinds.
// Empty fields fall back to the built-in defaults.
type Templates struct {
	System        string
	FirstRound    string
	Discussion    string
	HumanGuidance string
	Summary       string
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// PromptSet builds every prompt kind from validated templates. All build
// methods are pure string interpolation.
type PromptSet struct {
	templates Templates
}

// NewPromptSet validates that every template only uses its kind's permitted
// placeholders. An unknown placeholder is a configuration error and must be
// caught here, never mid-round.
func NewPromptSet(templates Templates) (*PromptSet, error) {
	applyTemplateDefaults(&templates)

	kinds := []struct {
		name     string
		template string
		fields   []string
	}{
		{"system", templates.System, []string{"agent_name", "topic", "participants"}},
		{"first_round", templates.FirstRound, []string{"current_round", "total_rounds", "remaining", "agent_name", "topic"}},
		{"discussion", templates.Discussion, []string{"current_round", "total_rounds", "remaining", "others_text"}},
		{"human_guidance", templates.HumanGuidance, []string{"human_input"}},
		{"summary", templates.Summary, nil},
	}
	for _, kind := range kinds {
		if err := validateTemplate(kind.name, kind.template, kind.fields); err != nil {
			return nil, err
		}
	}

	return &PromptSet{templates: templates}, nil
}

func applyTemplateDefaults(t *Templates) {
	if t.System == "" {
		t.System = DefaultSystemTemplate
	}
	if t.FirstRound == "" {
		t.FirstRound = DefaultFirstRoundTemplate
	}
	if t.Discussion == "" {
		t.Discussion = DefaultDiscussionTemplate
	}
	if t.HumanGuidance == "" {
		t.HumanGuidance = DefaultHumanGuidanceTemplate
	}
	if t.Summary == "" {
		t.Summary = DefaultSummaryTemplate
	}
}

func validateTemplate(kind, template string, fields []string) error {
	permitted := make(map[string]bool, len(fields))
	for _, field := range fields {
		permitted[field] = true
	}
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !permitted[match[1]] {
			return fmt.Errorf("%s template: unknown placeholder {%s}", kind, match[1])
		}
	}
	return nil
}

func expand(template string, fields map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		if value, ok := fields[m[1:len(m)-1]]; ok {
			return value
		}
		return m
	})
}

// System builds the per-agent system message, installed once at history
// initialization.
func (p *PromptSet) System(agentID, topic, participants string) string {
	return expand(p.templates.System, map[string]string{
		"agent_name":   agentID,
		"topic":        topic,
		"participants": participants,
	})
}

// FirstRound builds the opening prompt for round one.
func (p *PromptSet) FirstRound(round domain.Round, agentID, topic string) string {
	return expand(p.templates.FirstRound, map[string]string{
		"current_round": strconv.Itoa(round.Index),
		"total_rounds":  strconv.Itoa(round.Total),
		"remaining":     strconv.Itoa(round.Remaining()),
		"agent_name":    agentID,
		"topic":         topic,
	})
}

// Discussion builds the prompt for every round after the first, embedding
// the other participants' prior statements.
func (p *PromptSet) Discussion(round domain.Round, othersText string) string {
	return expand(p.templates.Discussion, map[string]string{
		"current_round": strconv.Itoa(round.Index),
		"total_rounds":  strconv.Itoa(round.Total),
		"remaining":     strconv.Itoa(round.Remaining()),
		"others_text":   othersText,
	})
}

// HumanGuidance wraps one-shot steering text from the user.
func (p *PromptSet) HumanGuidance(humanInput string) string {
	return expand(p.templates.HumanGuidance, map[string]string{
		"human_input": humanInput,
	})
}

// Summary returns the fixed synthesis instruction.
func (p *PromptSet) Summary() string {
	return p.templates.Summary
}

// OthersText concatenates the other agents' prior-round statements in
// participant order, skipping the agent itself and anyone absent from the
// prior responses.
func OthersText(prior domain.ResponseMap, participants []string, exclude string) string {
	parts := make([]string, 0, len(participants))
	for _, agent := range participants {
		if agent == exclude {
			continue
		}
		text, ok := prior[agent]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("---\n[%s]:\n%s", agent, text))
	}
	return strings.Join(parts, "\n\n")
}
