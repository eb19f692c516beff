package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const pageWidth = 54

// renderPage lays out a titled page with the body between two rules and the
// key help underneath.
func renderPage(title, body, help string) string {
	rule := strings.Repeat("─", pageWidth)
	if strings.TrimSpace(body) == "" {
		body = "-"
	}

	parts := []string{titleStyle.Render(title), rule, "", body, "", rule}
	if strings.TrimSpace(help) != "" {
		parts = append(parts, helpStyle.Render(help))
	}
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func valueOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

// fitText cuts v to max runes, marking the cut with an ellipsis when there
// is room for one.
func fitText(v string, max int) string {
	r := []rune(v)
	switch {
	case max <= 0 || len(r) <= max:
		return v
	case max <= 3:
		return string(r[:max])
	default:
		return string(r[:max-3]) + "..."
	}
}
