package tui

import (
	"fmt"
	"strings"

	"roadmap-cli/internal/detail"
	"roadmap-cli/internal/model"
	"roadmap-cli/internal/store"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// fieldEditor is the input bound to the focused field of an editing session. Single
// line fields use a textinput, multiline ones a textarea.
type fieldEditor struct {
	cursor    int
	key       detail.Field
	multiline bool
	active    bool

	input textinput.Model
	area  textarea.Model
}

func newFieldEditor() fieldEditor {
	e := fieldEditor{}
	e.input = textinput.New()
	e.input.Prompt = ""
	e.input.CharLimit = 500
	e.input.Width = 40

	e.area = textarea.New()
	e.area.Placeholder = "Write…"
	e.area.CharLimit = 0
	e.area.ShowLineNumbers = false
	e.area.SetWidth(40)
	e.area.SetHeight(5)
	return e
}

func (e *fieldEditor) load(f detail.Editable) tea.Cmd {
	e.key = f.Key
	e.multiline = f.Multiline
	e.active = true
	if f.Multiline {
		e.input.Blur()
		e.area.SetValue(f.Text)
		return e.area.Focus()
	}
	e.area.Blur()
	e.input.SetValue(f.Text)
	e.input.CursorEnd()
	return e.input.Focus()
}

func (e *fieldEditor) blur() {
	e.active = false
	e.input.Blur()
	e.area.Blur()
}

func (e *fieldEditor) value() string {
	if e.multiline {
		return e.area.Value()
	}
	return e.input.Value()
}

func (e *fieldEditor) update(msg tea.Msg) tea.Cmd {
	if !e.active {
		return nil
	}
	var cmd tea.Cmd
	if e.multiline {
		e.area, cmd = e.area.Update(msg)
		return cmd
	}
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (e *fieldEditor) resize(w int) {
	w = max(w, 10)
	e.input.Width = w
	e.area.SetWidth(w)
}

// currentEditable returns the field under the editor cursor while editing.
func (m appModel) currentEditable() (detail.Editable, bool) {
	if m.session == nil || m.session.Mode() != detail.Editing {
		return detail.Editable{}, false
	}
	fields := m.session.Fields()
	if m.editor.cursor < 0 || m.editor.cursor >= len(fields) {
		return detail.Editable{}, false
	}
	ed, ok := fields[m.editor.cursor].(detail.Editable)
	return ed, ok
}

func (m *appModel) focusEditorField() tea.Cmd {
	n := len(detail.AllFields())
	m.editor.cursor = min(max(m.editor.cursor, 0), n-1)
	ed, ok := m.currentEditable()
	if !ok {
		return nil
	}
	return m.editor.load(ed)
}

func (m *appModel) moveEditorCursor(delta int) tea.Cmd {
	m.syncEditorValue()
	n := len(detail.AllFields())
	m.editor.cursor = ((m.editor.cursor+delta)%n + n) % n
	return m.focusEditorField()
}

// syncEditorValue writes the editor's text into the session buffer.
func (m *appModel) syncEditorValue() {
	ed, ok := m.currentEditable()
	if !ok || ed.Key != m.editor.key {
		return
	}
	if err := ed.OnChange(m.editor.value()); err != nil {
		m.detailMsg = err.Error()
	}
}

func (m appModel) renderDetailPanel(width, height int) string {
	if m.session == nil {
		return normalizePane("", width, height)
	}
	innerW := max(width-2, 10)
	t := m.session.Task()

	lines := make([]string, 0, 64)

	title := strings.TrimSpace(m.session.Value(detail.FieldName))
	if title == "" {
		title = "(untitled)"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	for _, ln := range wrapPlainTextWithPrefix(title, innerW, "", "") {
		lines = append(lines, titleStyle.Render(ln))
	}
	lines = append(lines, renderTaskCodeLine(t))
	lines = append(lines, renderTabs(m.tab, m.session.Mode()))
	lines = append(lines, styleMuted().Render(strings.Repeat("─", innerW)))

	cursorLine := -1
	switch {
	case m.tab == tabActivity && m.session.Mode() == detail.Viewing:
		lines = append(lines, m.renderActivity(innerW)...)
	default:
		body, cur := m.renderFields(innerW)
		if cur >= 0 {
			cursorLine = len(lines) + cur
		}
		lines = append(lines, body...)
	}

	footer := m.detailFooter(innerW)
	bodyH := max(height-len(footer), 1)

	offset := m.panelScroll
	if cursorLine >= 0 {
		// Keep the focused input visible while editing.
		offset = max(cursorLine-bodyH+4, 0)
	}
	offset = min(offset, max(len(lines)-bodyH, 0))
	lines = lines[offset:]
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}

	body := normalizePane(strings.Join(lines, "\n"), innerW, bodyH)
	out := lipgloss.JoinVertical(lipgloss.Left, body, strings.Join(footer, "\n"))
	return normalizePane(lipgloss.NewStyle().PaddingLeft(1).Render(out), width, height)
}

// renderTaskCodeLine is the short header under the title: a short id and the status.
func renderTaskCodeLine(t model.Task) string {
	id := t.ID
	if len(id) > 8 {
		id = id[:8]
	}
	parts := []string{styleMuted().Render("[" + id + "]")}
	if t.Status != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render("["+model.HumanizeEnum(string(t.Status))+"]"))
	}
	if t.OptionalFlag {
		parts = append(parts, styleMuted().Render("[Optional]"))
	}
	return strings.Join(parts, " ")
}

func renderTabs(active panelTab, mode detail.Mode) string {
	on := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg).Padding(0, 1)
	off := styleMuted().Padding(0, 1)
	tabs := make([]string, 0, 3)
	for _, t := range []panelTab{tabDetails, tabActivity} {
		if t == active {
			tabs = append(tabs, on.Render(t.String()))
		} else {
			tabs = append(tabs, off.Render(t.String()))
		}
	}
	if mode == detail.Editing {
		tabs = append(tabs, lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("  EDITING"))
	}
	return strings.Join(tabs, "")
}

// renderFields draws the Details tab. It returns the lines and, while editing, the
// index of the line holding the focused input (else -1).
func (m appModel) renderFields(width int) ([]string, int) {
	labelStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	groupStyle := lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg)
	valueStyle := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	focusStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	inputStyle := lipgloss.NewStyle().Background(colorInputBg)

	lines := make([]string, 0, 48)
	cursorLine := -1
	group := ""
	for i, fv := range m.session.Fields() {
		var g string
		switch f := fv.(type) {
		case detail.Display:
			g = f.Group
		case detail.Editable:
			g = f.Group
		}
		if g != group {
			group = g
			lines = append(lines, "")
			if g != "" {
				lines = append(lines, groupStyle.Render(g))
			}
		}

		switch f := fv.(type) {
		case detail.Display:
			lines = append(lines, labelStyle.Render(f.Label))
			switch {
			case f.Unset:
				lines = append(lines, "  "+styleMuted().Italic(true).Render("unset"))
			case f.Key == detail.FieldDescription:
				for _, ln := range strings.Split(renderMarkdown(f.Text, width-2), "\n") {
					lines = append(lines, "  "+ln)
				}
			default:
				for _, ln := range wrapPlainTextWithPrefix(f.Text, width, "  ", "  ") {
					lines = append(lines, valueStyle.Render(ln))
				}
			}

		case detail.Editable:
			focused := i == m.editor.cursor
			label := labelStyle.Render(f.Label)
			if focused {
				label = focusStyle.Render("› " + f.Label)
			}
			lines = append(lines, label)
			if focused && m.editor.active {
				cursorLine = len(lines)
				var view string
				if f.Multiline {
					view = m.editor.area.View()
				} else {
					view = inputStyle.Render(m.editor.input.View())
				}
				for _, ln := range strings.Split(view, "\n") {
					lines = append(lines, "  "+ln)
				}
				continue
			}
			text := strings.TrimSpace(f.Text)
			if text == "" {
				lines = append(lines, "  "+styleMuted().Render("—"))
				continue
			}
			for _, ln := range wrapPlainTextWithPrefix(text, width, "  ", "  ") {
				lines = append(lines, valueStyle.Render(ln))
			}
		}
	}
	return lines, cursorLine
}

func (m appModel) renderActivity(width int) []string {
	if m.journal == nil {
		return []string{"", styleMuted().Render("Activity journal is off.")}
	}
	if m.activityErr != nil {
		return []string{"", styleError().Render("Failed to load activity")}
	}
	if len(m.activity) == 0 {
		return []string{"", styleMuted().Render("No activity recorded from this machine yet.")}
	}
	lines := make([]string, 0, len(m.activity)*2+1)
	lines = append(lines, "")
	for _, ev := range m.activity {
		lines = append(lines, renderActivityLine(ev, width))
		if msg := strings.TrimSpace(ev.Message); msg != "" && ev.Outcome == store.OutcomeFailed {
			lines = append(lines, "  "+styleError().Render(truncateText(msg, width-2)))
		}
	}
	return lines
}

func renderActivityLine(ev store.Event, width int) string {
	verb := string(ev.Type)
	switch ev.Type {
	case store.EventTaskCreate:
		verb = "created"
	case store.EventTaskUpdate:
		verb = "updated"
	case store.EventTaskDelete:
		verb = "deleted"
	}
	when := ev.At.Local().Format("2006-01-02 15:04")
	outcome := lipgloss.NewStyle().Foreground(colorOKFg).Render("ok")
	if ev.Outcome == store.OutcomeFailed {
		outcome = styleError().Render("failed")
	}
	line := fmt.Sprintf("%s  %-8s %s", styleMuted().Render(when), verb, outcome)
	return truncateText(line, width)
}

func (m appModel) detailFooter(width int) []string {
	out := make([]string, 0, 3)
	switch {
	case m.session.Saving():
		out = append(out, m.spinner.View()+" Saving…")
	case m.session.Deleting():
		out = append(out, m.spinner.View()+" Deleting…")
	case strings.TrimSpace(m.detailMsg) != "":
		for _, ln := range wrapPlainTextWithPrefix(m.detailMsg, width, "", "") {
			out = append(out, styleError().Render(ln))
		}
	}

	help := "e: edit  d: delete  tab: " + strings.ToLower(otherTab(m.tab).String()) + "  esc: close"
	if m.session.Mode() == detail.Editing {
		help = "tab/shift+tab: field  ctrl+s: save  esc: cancel"
	}
	out = append(out, styleMuted().Render(truncateText(help, width)))
	return out
}

func otherTab(t panelTab) panelTab {
	if t == tabDetails {
		return tabActivity
	}
	return tabDetails
}
