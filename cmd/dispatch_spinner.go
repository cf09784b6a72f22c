package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/XueJourney/AgentRound/internal/application"
	"github.com/XueJourney/AgentRound/internal/domain"
)

type dispatchDoneMsg struct {
	err error
}

type dispatchSpinnerModel struct {
	spinner  spinner.Model
	label    string
	dispatch tea.Cmd
	err      error
	done     bool
}

func newDispatchSpinnerModel(label string, dispatch tea.Cmd) dispatchSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return dispatchSpinnerModel{
		spinner:  s,
		label:    label,
		dispatch: dispatch,
	}
}

func (m dispatchSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.dispatch)
}

func (m dispatchSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case dispatchDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m dispatchSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	workCmd := func() tea.Msg {
		return dispatchDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newDispatchSpinnerModel(label, workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(dispatchSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

// spinnerRunner decorates a RoundRunner with a terminal spinner while the
// concurrent phase is in flight. The wrapped runner never sees the TUI.
type spinnerRunner struct {
	inner application.RoundRunner
	out   io.Writer
}

var _ application.RoundRunner = (*spinnerRunner)(nil)

func newSpinnerRunner(inner application.RoundRunner, out io.Writer) *spinnerRunner {
	return &spinnerRunner{inner: inner, out: out}
}

func (r *spinnerRunner) RunRound(ctx context.Context, disc *domain.Discussion, round domain.Round, prior domain.ResponseMap, guidance string) (domain.RoundResult, error) {
	var result domain.RoundResult

	label := fmt.Sprintf("Round %d/%d in flight...", round.Index, round.Total)
	err := runWithSpinner(ctx, r.out, label, func(ctx context.Context) error {
		var runErr error
		result, runErr = r.inner.RunRound(ctx, disc, round, prior, guidance)
		return runErr
	})

	return result, err
}

func (r *spinnerRunner) RunSummary(ctx context.Context, disc *domain.Discussion) (domain.SummaryResult, error) {
	var result domain.SummaryResult

	err := runWithSpinner(ctx, r.out, "Summarizing the discussion...", func(ctx context.Context) error {
		var runErr error
		result, runErr = r.inner.RunSummary(ctx, disc)
		return runErr
	})

	return result, err
}
