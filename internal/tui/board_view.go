package tui

import (
	"fmt"
	"strings"
	"time"

	"roadmap-cli/internal/model"
	"roadmap-cli/internal/roadmap"

	"github.com/charmbracelet/lipgloss"
)

const (
	boardGap     = 2
	minColW      = 18
	cardPrefix   = "  "
	subjectMark  = "● "
	emptyCellTxt = "(empty)"
)

type boardView struct {
	board     roadmap.Board
	cursor    roadmap.Selection
	subjectID string
	collapsed map[string]bool
}

// visibleColumns returns the first phase column to draw and how many fit in width,
// keeping the cursor's column on screen.
func visibleColumns(total, cursorCol, width int) (first, count int) {
	if total == 0 {
		return 0, 0
	}
	count = max((width+boardGap)/(minColW+boardGap), 1)
	count = min(count, total)
	first = 0
	if cursorCol >= count {
		first = cursorCol - count + 1
	}
	first = min(first, total-count)
	return first, count
}

// render draws the board at width x height. Lines above the focused card scroll off
// when the board is taller than height.
func (v boardView) render(width, height int) string {
	width = max(width, 0)
	height = max(height, 0)
	b := v.board
	if len(b.Columns) == 0 || len(b.Sections) == 0 {
		return normalizePane("", width, height)
	}
	cursor := b.Clamp(v.cursor)

	first, count := visibleColumns(len(b.Columns), cursor.Column, width)
	colW := max((width-boardGap*(count-1))/count, 10)

	lines := make([]string, 0, 64)
	lines = append(lines, v.renderHeaderRow(first, count, colW, cursor))
	lines = append(lines, "")

	cursorLine := 0
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	sectionFocusStyle := sectionStyle.Foreground(colorAccent)
	countStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg)

	for si, sec := range b.Sections {
		folded := v.collapsed[sec.Area.ID]
		chevron := "▾ "
		if folded {
			chevron = "▸ "
		}
		name := strings.TrimSpace(sec.Area.Name)
		if name == "" {
			name = "(unnamed area)"
		}
		st := sectionStyle
		if si == cursor.Section {
			st = sectionFocusStyle
			cursorLine = len(lines)
		}
		head := st.Render(chevron+name) + "  " + countStyle.Render(taskCountLabel(sec.Total))
		lines = append(lines, truncateText(head, width))
		if folded {
			lines = append(lines, "")
			continue
		}

		cells := make([]string, 0, count)
		for ci := first; ci < first+count; ci++ {
			focusItem := -2
			if si == cursor.Section && ci == cursor.Column {
				focusItem = cursor.Item
			}
			cell, selTop := v.renderCell(sec.Cells[ci].Tasks, focusItem, colW)
			if selTop >= 0 {
				cursorLine = len(lines) + selTop
			}
			cells = append(cells, normalizePane(cell, colW, 0))
		}
		lines = append(lines, strings.Split(joinWithGap(cells, boardGap), "\n")...)
		lines = append(lines, "")
	}

	if n := len(b.Unplaced); n > 0 {
		lines = append(lines, styleMuted().Render(fmt.Sprintf("%s without an area or phase of this roadmap", taskCountLabel(n))))
	}

	// The header row stays pinned; the rest scrolls to keep the cursor visible.
	if height > 2 && len(lines) > height {
		bodyH := height - 2
		offset := min(max(cursorLine-2-bodyH/2, 0), len(lines)-2-bodyH)
		rest := lines[2+offset:]
		lines = append([]string{lines[0], lines[1]}, rest...)
	}
	return normalizePane(strings.Join(lines, "\n"), width, height)
}

func (v boardView) renderHeaderRow(first, count, colW int, cursor roadmap.Selection) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg).Padding(0, 1)
	headerSelectedStyle := headerStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)

	heads := make([]string, 0, count)
	for ci := first; ci < first+count; ci++ {
		col := v.board.Columns[ci]
		name := strings.TrimSpace(col.Phase.Name)
		if name == "" {
			name = "(unnamed phase)"
		}
		badge := fmt.Sprintf(" %d", col.Count)
		label := truncateText(name, max(colW-2-len(badge), 1)) + badge
		hs := headerStyle
		if ci == cursor.Column {
			hs = headerSelectedStyle
		}
		heads = append(heads, hs.Width(colW).Render(label))
	}
	return joinWithGap(heads, boardGap)
}

// renderCell draws the cards of one area/phase cell. focusItem is the cursor's item in
// this cell (-1 for the empty-cell marker, -2 when the cursor is elsewhere). It
// returns the line offset of the focused card, or -1.
func (v boardView) renderCell(tasks []model.Task, focusItem int, colW int) (string, int) {
	if len(tasks) == 0 {
		if focusItem == -1 {
			st := lipgloss.NewStyle().Width(colW).Padding(0, 1).Foreground(colorSelectedFg).Background(colorSelectedBg)
			return st.Render(emptyCellTxt), 0
		}
		return styleMuted().Padding(0, 1).Render(emptyCellTxt), -1
	}

	lines := make([]string, 0, len(tasks)*3)
	selTop := -1
	for i, t := range tasks {
		selected := i == focusItem
		if selected {
			selTop = len(lines)
		}
		card := renderCard(t, selected, t.ID == v.subjectID, colW)
		lines = append(lines, strings.Split(card, "\n")...)
		if i < len(tasks)-1 {
			sepW := max(colW-2, 0)
			lines = append(lines, styleMuted().Render(" "+strings.Repeat("─", sepW)+" "))
		}
	}
	return strings.Join(lines, "\n"), selTop
}

// renderCard draws one task: wrapped title, then status, progress and planned dates.
// Whitespace defines the card, not borders.
func renderCard(t model.Task, selected, subject bool, colW int) string {
	itemStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	innerW := max(colW-2, 0)

	title := strings.TrimSpace(t.Name)
	if title == "" {
		title = "(untitled)"
	}
	prefix := cardPrefix
	if subject {
		prefix = subjectMark
	}
	titleStyle := lipgloss.NewStyle().Bold(true)
	switch {
	case selected:
		titleStyle = titleStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
	case t.Status == model.StatusCompleted:
		titleStyle = faintIfDark(lipgloss.NewStyle()).Foreground(colorMuted).Strikethrough(true)
	}

	content := make([]string, 0, 4)
	for _, ln := range wrapPlainTextWithPrefix(title, innerW, prefix, cardPrefix) {
		content = append(content, titleStyle.Render(ln))
	}
	for _, ln := range wrapTokens(cardMetaTokens(t, selected), max(innerW-len(cardPrefix), 1)) {
		content = append(content, cardPrefix+ln)
	}

	inner := normalizePane(strings.Join(content, "\n"), innerW, 0)
	if selected {
		return itemStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Render(inner)
	}
	return itemStyle.Render(inner)
}

func cardMetaTokens(t model.Task, selected bool) []token {
	style := func(c lipgloss.TerminalColor) lipgloss.Style {
		st := lipgloss.NewStyle().Foreground(c)
		if selected {
			st = st.Background(colorSelectedBg)
		}
		return st
	}

	tokens := make([]token, 0, 3)
	if t.Status != "" {
		tokens = append(tokens, newToken(style(statusColor(t.Status)).Render(model.HumanizeEnum(string(t.Status)))))
	}
	tokens = append(tokens, newToken(style(colorCardMetaFg).Render(model.FormatPct(t.PctComplete)+"%")))
	if dates := plannedRange(t); dates != "" {
		tokens = append(tokens, newToken(style(colorCardMetaFg).Render(dates)))
	}
	return tokens
}

// plannedRange renders "2 Jan 2024 → 19 Oct 2025" from the planned dates, or "" when neither is set.
func plannedRange(t model.Task) string {
	start := formatShortDate(model.Deref(t.PlannedStart))
	finish := formatShortDate(model.Deref(t.PlannedFinish))
	switch {
	case start == "" && finish == "":
		return ""
	case start == "":
		return "→ " + finish
	case finish == "":
		return start + " →"
	}
	return start + " → " + finish
}

// formatShortDate accepts the date forms the repository returns (date or RFC 3339
// timestamp). Anything else is shown as-is.
func formatShortDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2 Jan 2006")
		}
	}
	return s
}

func taskCountLabel(n int) string {
	if n == 1 {
		return "1 Task"
	}
	return fmt.Sprintf("%d Tasks", n)
}
