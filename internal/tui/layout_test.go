package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePane_PadsAndCuts(t *testing.T) {
	out := normalizePane("short\nthis line is far too long", 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d: expected width 10, got %d (%q)", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis on cut line, got %q", lines[1])
	}
}

func TestNormalizePane_ZeroHeightKeepsLines(t *testing.T) {
	out := normalizePane("a\nb\nc\nd", 2, 0)
	if n := len(strings.Split(out, "\n")); n != 4 {
		t.Fatalf("expected 4 lines, got %d", n)
	}
}

func TestWrapPlainTextWithPrefix(t *testing.T) {
	got := wrapPlainTextWithPrefix("write the roadmap spec", 12, "● ", "  ")
	want := []string{"● write the", "  roadmap", "  spec"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q; want %q", got, want)
	}
}

func TestWrapPlainTextWithPrefix_HardCutsLongWords(t *testing.T) {
	got := wrapPlainTextWithPrefix("abcdefghij", 6, "  ", "  ")
	for _, ln := range got {
		if w := xansi.StringWidth(ln); w > 6 {
			t.Fatalf("line %q wider than 6", ln)
		}
	}
	if strings.Join(got, "") != "  abcd  efgh  ij" {
		t.Fatalf("unexpected hard cut: %q", got)
	}
}

func TestWrapTokens(t *testing.T) {
	tokens := []token{newToken("In Progress"), newToken("40%"), newToken("2 Jan 2024 →")}
	got := wrapTokens(tokens, 16)
	if len(got) != 2 || got[0] != "In Progress 40%" || got[1] != "2 Jan 2024 →" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestColorFGBGIsDark(t *testing.T) {
	cases := []struct {
		in       string
		dark, ok bool
	}{
		{in: "15;0", dark: true, ok: true},
		{in: "0;15", dark: false, ok: true},
		{in: "15;default;0", dark: true, ok: true},
		{in: "", ok: false},
		{in: "15;x", ok: false},
	}
	for _, tc := range cases {
		dark, ok := colorFGBGIsDark(tc.in)
		if dark != tc.dark || ok != tc.ok {
			t.Fatalf("colorFGBGIsDark(%q) = %v, %v; want %v, %v", tc.in, dark, ok, tc.dark, tc.ok)
		}
	}
}

func TestTaskPanelWidth_FullWidthWhenNarrow(t *testing.T) {
	m := newAppModel(Options{Repo: newFakeRepo()})
	m.width = 60
	if got := m.panelWidth(); got != 60 {
		t.Fatalf("expected panel to take the full width, got %d", got)
	}
	m.width = 160
	if got := m.panelWidth(); got != maxPanelW {
		t.Fatalf("expected capped panel width, got %d", got)
	}
}
