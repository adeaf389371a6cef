package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the editor's lipgloss styles, created once at startup so View
// never allocates styles per frame.
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Tier markers in the layers panel.
	OnTop  lipgloss.AdaptiveColor
	Locked lipgloss.AdaptiveColor
	Pinned lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	RankCell lipgloss.Style
	Muted    lipgloss.Style
	Status   lipgloss.Style
	ErrText  lipgloss.Style
	Panel    lipgloss.Style
}

// DefaultTheme returns the standard adaptive theme.
func DefaultTheme() Theme {
	t := Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		OnTop:  lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Locked: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Pinned: lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
	}

	t.Base = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Selected = t.Base.Background(t.Highlight).Bold(true)
	t.Header = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	t.RankCell = lipgloss.NewStyle().Foreground(t.Secondary)
	t.Muted = lipgloss.NewStyle().Foreground(t.Subtext)
	t.Status = lipgloss.NewStyle().Foreground(t.Secondary)
	t.ErrText = lipgloss.NewStyle().Foreground(t.Locked)
	t.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	return t
}
