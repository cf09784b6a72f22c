package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/XueJourney/AgentRound/internal/ports"
)

// linePrompter reads every interactive decision from one buffered stream.
// EOF is treated as declining: Continue answers no, Guidance stays empty.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var (
	_ ports.ExtensionSource = (*linePrompter)(nil)
	_ ports.GuidanceSource  = (*linePrompter)(nil)
)

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

func (p *linePrompter) readLine() (string, bool, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimSpace(line), true, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(line), false, nil
}

func (p *linePrompter) Continue() (bool, error) {
	_, _ = fmt.Fprint(p.out, "\nStart another batch of rounds? [y/N]: ")

	line, _, err := p.readLine()
	if err != nil {
		return false, fmt.Errorf("read continue decision: %w", err)
	}

	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes", nil
}

func (p *linePrompter) ExtraRounds() (int, error) {
	for {
		_, _ = fmt.Fprint(p.out, "How many extra rounds? ")

		line, eof, err := p.readLine()
		if err != nil {
			return 0, fmt.Errorf("read extra round count: %w", err)
		}

		count, convErr := strconv.Atoi(line)
		if convErr == nil && count >= 0 {
			return count, nil
		}
		if eof {
			return 0, fmt.Errorf("invalid extra round count %q", line)
		}
		_, _ = fmt.Fprintln(p.out, "Enter a whole number of rounds.")
	}
}

func (p *linePrompter) Guidance() (string, error) {
	_, _ = fmt.Fprint(p.out, "Any guidance for the next rounds? (Enter to skip): ")

	line, _, err := p.readLine()
	if err != nil {
		return "", fmt.Errorf("read guidance: %w", err)
	}
	return line, nil
}

func (p *linePrompter) Topic() (string, error) {
	for {
		_, _ = fmt.Fprint(p.out, "Discussion topic: ")

		line, eof, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("read topic: %w", err)
		}
		if line != "" {
			return line, nil
		}
		if eof {
			return "", errors.New("no topic provided")
		}
	}
}

func (p *linePrompter) Rounds() (int, error) {
	for {
		_, _ = fmt.Fprint(p.out, "Number of rounds: ")

		line, eof, err := p.readLine()
		if err != nil {
			return 0, fmt.Errorf("read round count: %w", err)
		}

		count, convErr := strconv.Atoi(line)
		if convErr == nil && count >= 1 {
			return count, nil
		}
		if eof {
			return 0, fmt.Errorf("invalid round count %q", line)
		}
		_, _ = fmt.Fprintln(p.out, "Enter a whole number of rounds, at least 1.")
	}
}

// SelectModels runs the numbered multi-select over the available models: one
// index per prompt, repeated until the user stops confirming. Indices are
// zero-based, matching the listing. Duplicate picks are ignored.
func (p *linePrompter) SelectModels(available []string) ([]string, error) {
	for i, model := range available {
		_, _ = fmt.Fprintf(p.out, "%d) %s\n", i, model)
	}

	var selected []string
	chosen := make(map[string]bool, len(available))

	for {
		_, _ = fmt.Fprintf(p.out, "Select model [0-%d]: ", len(available)-1)

		line, eof, err := p.readLine()
		if err != nil {
			return nil, fmt.Errorf("read model selection: %w", err)
		}

		index, convErr := strconv.Atoi(line)
		switch {
		case convErr != nil || index < 0 || index >= len(available):
			if eof {
				if len(selected) == 0 {
					return nil, errors.New("no models selected")
				}
				return selected, nil
			}
			_, _ = fmt.Fprintln(p.out, "Index out of range, try again.")
			continue
		case chosen[available[index]]:
			_, _ = fmt.Fprintf(p.out, "%s is already selected.\n", available[index])
		default:
			chosen[available[index]] = true
			selected = append(selected, available[index])
			_, _ = fmt.Fprintf(p.out, "Selected: %s\n", strings.Join(selected, ", "))
		}

		if eof {
			return selected, nil
		}

		more, err := p.confirm("Continue selecting? [y/N]: ")
		if err != nil {
			return nil, err
		}
		if !more {
			return selected, nil
		}
	}
}

func (p *linePrompter) confirm(prompt string) (bool, error) {
	_, _ = fmt.Fprint(p.out, prompt)

	line, _, err := p.readLine()
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes", nil
}
