package tui

import (
	"fmt"
	"strings"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/detail"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	if m.session != nil && m.session.ConfirmPending() {
		modal := renderDeleteConfirm(m.width, m.session.Task().Name, m.confirmFocus)
		return placeCentered(m.width, m.height, modal)
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := max(m.height-topPadLines-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var body string
	if !m.sidePanelOpen() {
		body = m.renderMain(m.width, bodyH)
	} else {
		pw := m.panelWidth()
		panel := m.renderSidePanel(pw, bodyH)
		if pw >= m.width {
			body = panel
		} else {
			boardW := m.width - pw - splitGapW
			divider := styleMuted().Render(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"))
			body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderMain(boardW, bodyH), " ", divider, panel)
		}
	}

	out := strings.Repeat("\n", topPadLines) + strings.Join([]string{header, body, footer}, "\n")
	return normalizePane(out, m.width, m.height)
}

func (m appModel) renderSidePanel(width, height int) string {
	if m.create.IsOpen() {
		return m.renderCreatePanel(width, height)
	}
	return m.renderDetailPanel(width, height)
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render("Roadmap")
	parts := []string{" " + title}

	if name := m.roadmap.TemplateName(); name != "" {
		crumb := name
		if n := len(m.roadmap.Templates); n > 1 {
			crumb = fmt.Sprintf("%s (%d/%d)", name, m.templateIndex()+1, n)
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render("› "+crumb))
	}
	if m.busy() {
		parts = append(parts, m.spinner.View())
	}
	if m.roadmap.Err != nil && !m.roadmap.Snapshot.Empty() {
		parts = append(parts, styleError().Render(api.MessageOr(m.roadmap.Err, api.MsgLoadFailed)))
	}
	return truncateText(strings.Join(parts, "  "), m.width)
}

func (m appModel) templateIndex() int {
	for i, t := range m.roadmap.Templates {
		if t.ID == m.roadmap.TemplateID {
			return i
		}
	}
	return 0
}

// renderMain is the board, or the loading/error/empty state that stands in for it.
func (m appModel) renderMain(width, height int) string {
	pad := func(lines ...string) string {
		return normalizePane(" "+strings.Join(lines, "\n "), width, height)
	}

	snap := m.roadmap.Snapshot
	switch {
	case m.roadmap.Err != nil && snap.Empty():
		return pad(
			styleError().Render(api.MessageOr(m.roadmap.Err, api.MsgLoadFailed)),
			"",
			styleMuted().Render("r: retry"),
		)
	case m.roadmap.Loading && snap.Empty():
		return pad(m.spinner.View() + " Loading roadmap…")
	case len(m.roadmap.Templates) == 0:
		return pad(styleMuted().Render("No roadmap templates."))
	case len(snap.Areas) == 0 || len(snap.Phases) == 0:
		return pad(styleMuted().Render("This roadmap has no areas or phases yet."), "", styleMuted().Render("n: new task"))
	}

	subject := ""
	if m.panelOpen {
		subject = m.selectedTaskID
	}
	v := boardView{
		board:     m.board,
		cursor:    m.cursor,
		subjectID: subject,
		collapsed: m.collapsed,
	}
	return v.render(width, height)
}

func (m appModel) renderFooter() string {
	lines := make([]string, 0, 2)
	if strings.TrimSpace(m.minibufferText) != "" {
		lines = append(lines, " "+lipgloss.NewStyle().Foreground(colorAccent).Render(m.minibufferText))
	} else {
		lines = append(lines, "")
	}

	help := "←↓↑→: move  enter: open  n: new task  z: fold area  t: template  r: reload  q: quit"
	switch {
	case m.create.IsOpen():
		help = "creating a task"
	case m.session != nil && m.session.Mode() == detail.Editing:
		help = "editing " + strings.TrimSpace(m.session.Task().Name)
	}
	lines = append(lines, " "+styleMuted().Render(truncateText(help, max(m.width-1, 1))))
	return strings.Join(lines, "\n")
}
