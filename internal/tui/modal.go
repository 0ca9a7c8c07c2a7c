package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	modalMaxW    = 64
	modalPadding = 2
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// modalWidth is the outer width of a modal on a screen width columns wide.
func modalWidth(width int) int {
	w := min(width-4, modalMaxW)
	return max(w, 24)
}

// modalBodyWidth is the usable content width inside renderModalBox.
func modalBodyWidth(width int) int {
	return max(modalWidth(width)-2*modalPadding, 10)
}

// renderModalBox draws a titled modal surface around content.
func renderModalBox(width int, title string, content string) string {
	w := modalWidth(width)
	bodyW := modalBodyWidth(width)

	header := lipgloss.NewStyle().
		Width(w).
		Padding(0, modalPadding).
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Render(truncateText(strings.TrimSpace(title), bodyW))

	body := lipgloss.NewStyle().
		Width(w).
		Padding(1, modalPadding).
		Foreground(colorModalSurfaceFg).
		Background(colorModalSurfaceBg).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// placeCentered centers s on a width x height screen.
func placeCentered(width, height int, s string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
