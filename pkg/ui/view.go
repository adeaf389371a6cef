package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

const (
	minWidth        = 40
	detailThreshold = 90
)

// View implements tea.Model.
func (m Model) View() string {
	if m.focus == focusNewElement && m.form != nil {
		return m.form.View()
	}
	if m.focus == focusQuitConfirm {
		return m.theme.Panel.Render("Unsaved changes. Quit anyway? (y/n)")
	}
	if m.focus == focusDeleteConfirm {
		name := ""
		if el := m.session.Selected(); el != nil {
			name = el.String()
		}
		return m.theme.Panel.Render(fmt.Sprintf("Delete %s? (y/n)", name))
	}
	if m.focus == focusRename {
		return m.theme.Panel.Render("Rename element\n\n" + m.rename.View())
	}

	width := m.width
	if width < minWidth {
		width = minWidth
	}

	var b strings.Builder
	b.WriteString(m.header(width))
	b.WriteString("\n")

	layers := m.layersPanel(width)
	if width >= detailThreshold {
		detail := m.detailPanel(width - lipgloss.Width(layers) - 2)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, layers, detail))
	} else {
		b.WriteString(layers)
	}
	b.WriteString("\n")
	b.WriteString(m.footer(width))
	return b.String()
}

func (m Model) header(width int) string {
	show := m.session.Show()
	title := "no slideshow"
	if show != nil {
		title = fmt.Sprintf("%s  slide %d/%d", show.Name, m.session.SlideIndex()+1, len(show.Slides))
	}
	return m.theme.Header.Render(truncate(title, width))
}

// layersPanel renders the visible set topmost-first with rank badges and
// tier/pin markers.
func (m Model) layersPanel(width int) string {
	ranked := m.session.Ranked()
	if len(ranked) == 0 {
		return m.theme.Panel.Render(m.theme.Muted.Render("empty slide - press n to add an element"))
	}

	panelWidth := width/2 - 2
	if width < detailThreshold {
		panelWidth = width - 4
	}

	var rows []string
	for i, el := range ranked {
		row := m.layerRow(i+1, el, panelWidth)
		if i == m.cursor {
			row = m.theme.Selected.Render(row)
		} else {
			row = m.theme.Base.Render(row)
		}
		rows = append(rows, row)
	}
	return m.theme.Panel.Render(strings.Join(rows, "\n"))
}

func (m Model) layerRow(rank int, el *model.Element, width int) string {
	badge := ""
	if m.cfg.ShowRankBadges {
		badge = fmt.Sprintf("%2d ", rank)
	}
	markers := m.markers(el)
	label := el.Name
	if label == "" {
		label = string(el.Type)
	}
	body := fmt.Sprintf("%s%s %s", badge, label, markers)
	return truncate(body, width)
}

func (m Model) markers(el *model.Element) string {
	var parts []string
	if el.IsAlwaysOnTop {
		parts = append(parts, "▲")
	}
	if el.IsPersistent {
		parts = append(parts, "⬥")
	}
	if el.PreventSettingsChanges || el.LockedSettingsSubOrgTemplate {
		parts = append(parts, "✖")
	}
	return strings.Join(parts, "")
}

func (m Model) detailPanel(width int) string {
	el := m.session.Selected()
	if el == nil {
		return m.theme.Panel.Render(m.theme.Muted.Render("nothing selected"))
	}
	tier := zorder.TierOf(el, m.session.Options())
	lines := []string{
		fmt.Sprintf("id       %d", el.ID),
		fmt.Sprintf("type     %s", el.Type),
		fmt.Sprintf("zIndex   %d", el.ZIndex),
		fmt.Sprintf("tier     %s", tier),
		fmt.Sprintf("pos      %.0f,%.0f  %gx%g", el.X, el.Y, el.Width, el.Height),
	}
	if el.IsPersistent {
		lines = append(lines, "pinned on every slide")
	}
	if el.PreventSettingsChanges {
		lines = append(lines, "settings locked by template")
	}
	var out []string
	for _, l := range lines {
		out = append(out, truncate(l, width))
	}
	return m.theme.Panel.Render(strings.Join(out, "\n"))
}

func (m Model) footer(width int) string {
	if m.errMsg != "" {
		return m.theme.ErrText.Render(truncate(m.errMsg, width))
	}
	line := m.status
	if line == "" {
		line = "j/k select  J/K move  f/b front/back  a on-top  p pin  n new  e rename  d del  u/r undo  tab slide  y copy  q quit"
	}
	if m.session.Dirty() {
		line = "* " + line
	}
	return m.theme.Status.Render(truncate(line, width))
}

// truncate cuts s to the given display width, rune-width aware.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
