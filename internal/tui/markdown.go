package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

type mdRendererKey struct {
	dark  bool
	width int
}

// Task descriptions are rendered on every frame the panel is open, so renderers are
// kept per background and wrap width. A fixed style is used instead of
// glamour.WithAutoStyle, which queries the terminal and can block.
var mdRenderers sync.Map // mdRendererKey -> *glamour.TermRenderer

// renderMarkdown renders a task description for the detail panel. The raw text is
// returned when glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	key := mdRendererKey{dark: lipgloss.HasDarkBackground(), width: max(width, 10)}

	r, ok := mdRenderers.Load(key)
	if !ok {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(key.dark)),
			glamour.WithWordWrap(key.width),
		)
		if err != nil {
			return md
		}
		r, _ = mdRenderers.LoadOrStore(key, tr)
	}

	out, err := r.(*glamour.TermRenderer).Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// markdownStyleConfig starts from glamour's light or dark style and recolors it with
// the board palette. Block margins are dropped so descriptions line up with the
// other detail fields.
func markdownStyleConfig(dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}

	text := mdColor(colorSurfaceFg, dark)
	for _, h := range []*ansi.StyleBlock{&cfg.Heading, &cfg.H1, &cfg.H2, &cfg.H3, &cfg.H4, &cfg.H5, &cfg.H6} {
		h.Color = text
	}
	cfg.Text.Color = text
	cfg.Code.Color = text
	cfg.CodeBlock.Color = text
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = mdColor(colorControlBg, dark)
	}

	underline := true
	link := mdColor(colorAccent, dark)
	cfg.Link.Color, cfg.Link.Underline = link, &underline
	cfg.LinkText.Color, cfg.LinkText.Underline = link, &underline

	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	faint := false
	cfg.BlockQuote.Faint = &faint

	var zero uint
	cfg.Document.Margin = &zero
	cfg.Paragraph.Margin = &zero
	cfg.List.Margin = &zero
	cfg.CodeBlock.Margin = &zero
	return cfg
}

// mdColor picks one side of an adaptive palette color, or nil for any other color.
func mdColor(c lipgloss.TerminalColor, dark bool) *string {
	adaptive, ok := c.(lipgloss.AdaptiveColor)
	if !ok {
		return nil
	}
	v := adaptive.Light
	if dark {
		v = adaptive.Dark
	}
	return &v
}
