package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/contacts/internal/contact"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "5", Dark: "13"})

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})

	nameStyle = lipgloss.NewStyle().Bold(true)

	resultsBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"}).
			Padding(0, 1)
)

// RenderRecord returns a styled single-line rendering of r:
// bold name, then phones and birthday when present.
func RenderRecord(r contact.Record) string {
	var b strings.Builder
	b.WriteString(nameStyle.Render(r.Name().Value()))
	if phones := r.PhoneValues(); len(phones) > 0 {
		b.WriteString("  ")
		b.WriteString(strings.Join(phones, "; "))
	}
	if bd := r.Birthday(); bd != "" {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("birthday " + bd))
	}
	return b.String()
}

// PageHeader returns a styled header for one page of a listing.
func PageHeader(text string) string {
	return titleStyle.Render(text)
}
