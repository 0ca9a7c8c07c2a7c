package tui

import (
	"errors"

	"roadmap-cli/internal/detail"
	"roadmap-cli/internal/roadmap"

	tea "github.com/charmbracelet/bubbletea"
)

// updateKey routes a key to the surface that owns it: the delete confirmation, the
// creation panel, the detail editor, otherwise the board (with the viewing panel's
// shortcuts).
func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.session != nil && m.session.ConfirmPending():
		return m.updateConfirmKey(msg)
	case m.create.IsOpen():
		return m.updateCreateKey(msg)
	case m.panelOpen && m.session != nil && m.session.Mode() == detail.Editing:
		return m.updateEditKey(msg)
	}
	return m.updateBoardKey(msg)
}

func (m appModel) updateBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hidden := func(areaID string) bool { return m.collapsed[areaID] }

	// The session guards its task against a second save or delete. Replacing or
	// dropping it before the request settles would lose that guard.
	switch msg.String() {
	case "enter", "esc", "n", "t", "T":
		if m.session != nil && m.session.Busy() {
			return m, m.showMinibuffer("Waiting for the server…")
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.cursor = m.board.Horizontal(m.cursor, -1)
	case "right", "l":
		m.cursor = m.board.Horizontal(m.cursor, 1)
	case "up", "k":
		m.cursor = m.board.Vertical(m.cursor, -1, hidden)
	case "down", "j":
		m.cursor = m.board.Vertical(m.cursor, 1, hidden)
	case "enter":
		if t, ok := m.board.Selected(m.cursor); ok {
			return m, m.selectTask(t.ID)
		}
	case "esc":
		if m.panelOpen {
			m.closePanel()
		}
	case "z", " ":
		m.toggleSection()
	case "n":
		return m, m.openCreatePanel()
	case "r":
		return m, m.reload()
	case "t":
		return m, m.cycleTemplate(1)
	case "T":
		return m, m.cycleTemplate(-1)
	}

	if !m.panelOpen || m.session == nil {
		return m, nil
	}
	switch msg.String() {
	case "e":
		return m, m.beginEdit()
	case "d":
		if err := m.session.RequestDelete(); err == nil {
			m.confirmFocus = confirmFocusCancel
		}
	case "tab":
		if m.tab == tabDetails {
			m.tab = tabActivity
		} else {
			m.tab = tabDetails
		}
		m.panelScroll = 0
	case "pgdown", "ctrl+d":
		m.panelScroll += max(m.height/2, 1)
	case "pgup", "ctrl+u":
		m.panelScroll = max(m.panelScroll-max(m.height/2, 1), 0)
	}
	return m, nil
}

// toggleSection collapses or expands the area section under the cursor.
func (m *appModel) toggleSection() {
	if m.cursor.Section < 0 || m.cursor.Section >= len(m.board.Sections) {
		return
	}
	id := m.board.Sections[m.cursor.Section].Area.ID
	if m.collapsed[id] {
		delete(m.collapsed, id)
		return
	}
	m.collapsed[id] = true
}

// cycleTemplate switches to the next (or previous) template and reloads the board.
func (m *appModel) cycleTemplate(delta int) tea.Cmd {
	n := len(m.roadmap.Templates)
	if n < 2 {
		return nil
	}
	idx := 0
	for i, t := range m.roadmap.Templates {
		if t.ID == m.roadmap.TemplateID {
			idx = i
			break
		}
	}
	next := m.roadmap.Templates[((idx+delta)%n+n)%n]
	if !m.roadmap.Select(next.ID) {
		return nil
	}
	m.closePanel()
	m.collapsed = map[string]bool{}
	m.cursor = roadmap.Selection{Item: -1}
	m.rebuildBoard()
	return m.loadSnapshot()
}

func (m *appModel) beginEdit() tea.Cmd {
	if err := m.session.Edit(); err != nil {
		return nil
	}
	m.tab = tabDetails
	m.detailMsg = ""
	m.editor.cursor = 0
	return m.focusEditorField()
}

func (m appModel) updateEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if err := m.session.Cancel(); err != nil {
			return m, nil
		}
		m.editor.blur()
		m.detailMsg = ""
		return m, nil
	case "ctrl+s":
		in, err := m.session.BeginSave()
		if errors.Is(err, detail.ErrBusy) {
			return m, nil
		}
		if err != nil {
			m.detailMsg = err.Error()
			return m, nil
		}
		m.detailMsg = ""
		return m, m.updateTaskCmd(m.roadmap.TemplateID, m.session.TaskID(), in)
	}

	if m.session.Saving() {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		return m, m.moveEditorCursor(1)
	case "shift+tab":
		return m, m.moveEditorCursor(-1)
	case "down":
		if !m.editor.multiline {
			return m, m.moveEditorCursor(1)
		}
	case "up":
		if !m.editor.multiline {
			return m, m.moveEditorCursor(-1)
		}
	case "enter":
		if !m.editor.multiline {
			return m, m.moveEditorCursor(1)
		}
	}

	cmd := m.editor.update(msg)
	m.syncEditorValue()
	return m, cmd
}

func (m appModel) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m, m.confirmDelete()
	case "n", "esc", "q":
		m.session.AbortDelete()
		return m, nil
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m, m.confirmDelete()
		}
		m.session.AbortDelete()
	}
	return m, nil
}

func (m *appModel) confirmDelete() tea.Cmd {
	if _, err := m.session.ConfirmDelete(); err != nil {
		return nil
	}
	m.detailMsg = ""
	return m.deleteTaskCmd(m.roadmap.TemplateID, m.session.Task())
}

// updateFocusedInput forwards non-key messages (cursor blink) to the focused input.
func (m appModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch {
	case m.create.IsOpen():
		return m, m.createForm.update(msg)
	case m.editor.active:
		return m, m.editor.update(msg)
	}
	return m, nil
}
