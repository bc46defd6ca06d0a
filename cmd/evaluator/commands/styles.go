package commands

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"speakcoach/evaluator/models"
)

type styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Help    lipgloss.Style
	Good    lipgloss.Style
	Warn    lipgloss.Style
	Bad     lipgloss.Style
}

func newStyles() styles {
	primary := lipgloss.Color("#00ff9f")
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		Section: lipgloss.NewStyle().Bold(true).Underline(true),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
		Good:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950")),
		Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#d29922")),
		Bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149")),
	}
}

func (s styles) score(v int) string {
	text := strconv.Itoa(v) + "/100"
	switch {
	case v >= 75:
		return s.Good.Render(text)
	case v >= 50:
		return s.Warn.Render(text)
	default:
		return s.Bad.Render(text)
	}
}

func (s styles) status(st models.EvaluationStatus) string {
	switch st {
	case models.StatusCompleted:
		return s.Good.Render(string(st))
	case models.StatusFailed:
		return s.Bad.Render(string(st))
	default:
		return s.Warn.Render(string(st))
	}
}
