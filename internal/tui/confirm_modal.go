package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDeleteConfirm is the modal shown before a task is deleted. The buttons carry
// no borders: nested borders on a colored modal surface leave artifacts on some
// terminals.
func renderDeleteConfirm(width int, taskName string, focus confirmModalFocus) string {
	subject := "this task"
	if name := strings.TrimSpace(taskName); name != "" {
		subject = fmt.Sprintf("%q", name)
	}

	button := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	focused := button.Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	buttons := make([]string, 0, 3)
	for _, b := range []struct {
		label string
		focus confirmModalFocus
	}{
		{"Delete", confirmFocusConfirm},
		{"Cancel", confirmFocusCancel},
	} {
		if len(buttons) > 0 {
			buttons = append(buttons, lipgloss.NewStyle().Background(colorControlBg).Render(" "))
		}
		st := button
		if b.focus == focus {
			st = focused
		}
		buttons = append(buttons, st.Render(b.label))
	}

	bodyW := modalBodyWidth(width)
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(bodyW).Render("Delete "+subject+"? This cannot be undone."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		"",
		styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel"),
	)
	return renderModalBox(width, "Delete task", content)
}
