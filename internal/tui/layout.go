package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall. This makes split-pane rendering stable when using lipgloss.JoinHorizontal.
// A height of 0 keeps the line count.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		ln := lines[i]
		// Avoid computing StringWidth on extremely long lines: cut early so subsequent
		// width computations are bounded.
		if width > 0 && len(ln) > 8192 {
			ln = cutWithEllipsis(ln, width)
		}

		w := xansi.StringWidth(ln)
		if w > width {
			ln = cutWithEllipsis(ln, width)
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln = ln + strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}

	return strings.Join(lines, "\n")
}

func cutWithEllipsis(s string, width int) string {
	switch {
	case width <= 0:
		return ""
	case width == 1:
		return xansi.Cut(s, 0, 1)
	default:
		return xansi.Cut(s, 0, width-1) + "…"
	}
}

// truncateText shortens s to at most width columns.
func truncateText(s string, width int) string {
	if xansi.StringWidth(s) <= width {
		return s
	}
	return cutWithEllipsis(s, width)
}

// wrapPlainTextWithPrefix word-wraps s to maxW columns. The first line starts with
// firstPrefix and continuation lines with contPrefix. Words wider than a line are
// hard-cut.
func wrapPlainTextWithPrefix(s string, maxW int, firstPrefix, contPrefix string) []string {
	if maxW <= 0 {
		return []string{""}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{firstPrefix}
	}
	firstAvail := max(maxW-xansi.StringWidth(firstPrefix), 1)
	contAvail := max(maxW-xansi.StringWidth(contPrefix), 1)

	lines := make([]string, 0, 4)
	linePrefix := firstPrefix
	avail := firstAvail

	cur := ""
	curW := 0
	flush := func() {
		lines = append(lines, linePrefix+cur)
		linePrefix = contPrefix
		avail = contAvail
		cur = ""
		curW = 0
	}
	// placeLong hard-cuts a word that does not fit on a line of its own.
	placeLong := func(w string) {
		rest := w
		for xansi.StringWidth(rest) > avail {
			lines = append(lines, linePrefix+xansi.Cut(rest, 0, avail))
			rest = xansi.Cut(rest, avail, xansi.StringWidth(rest))
			linePrefix = contPrefix
			avail = contAvail
		}
		cur = rest
		curW = xansi.StringWidth(rest)
	}

	for _, w := range strings.Fields(s) {
		wordW := xansi.StringWidth(w)
		if cur != "" {
			if curW+1+wordW <= avail {
				cur = cur + " " + w
				curW += 1 + wordW
				continue
			}
			flush()
		}
		if wordW <= avail {
			cur = w
			curW = wordW
			continue
		}
		placeLong(w)
	}

	if cur != "" || len(lines) == 0 {
		lines = append(lines, linePrefix+cur)
	}
	return lines
}

type token struct {
	s string
	w int
}

func newToken(s string) token { return token{s: s, w: xansi.StringWidth(s)} }

// wrapTokens lays styled tokens out on lines of at most maxW columns, one space apart.
func wrapTokens(tokens []token, maxW int) []string {
	if maxW <= 0 {
		return []string{""}
	}
	if len(tokens) == 0 {
		return nil
	}
	lines := make([]string, 0, 2)
	cur := make([]string, 0, 4)
	used := 0
	flush := func() {
		lines = append(lines, strings.Join(cur, " "))
		cur = nil
		used = 0
	}
	for _, tok := range tokens {
		next := tok.w
		if used > 0 {
			next++
		}
		if used+next <= maxW {
			cur = append(cur, tok.s)
			used += next
			continue
		}
		if len(cur) > 0 {
			flush()
		}
		// A single token wider than maxW is hard-cut (no ellipsis).
		if tok.w > maxW {
			lines = append(lines, xansi.Cut(tok.s, 0, maxW))
			continue
		}
		cur = append(cur, tok.s)
		used = tok.w
	}
	if len(cur) > 0 {
		flush()
	}
	return lines
}

// joinWithGap joins rendered blocks side by side with gap spaces between them.
func joinWithGap(blocks []string, gap int) string {
	if len(blocks) == 0 {
		return ""
	}
	out := blocks[0]
	sep := strings.Repeat(" ", max(gap, 0))
	for _, b := range blocks[1:] {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, b)
	}
	return out
}
