package tui

import (
	"strings"
	"testing"

	"roadmap-cli/internal/model"
	"roadmap-cli/internal/roadmap"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestVisibleColumns_KeepsCursorOnScreen(t *testing.T) {
	cases := []struct {
		name                 string
		total, cursor, w     int
		wantFirst, wantCount int
	}{
		{name: "all fit", total: 3, cursor: 2, w: 200, wantFirst: 0, wantCount: 3},
		{name: "cursor in view", total: 6, cursor: 1, w: 60, wantFirst: 0, wantCount: 3},
		{name: "scrolls right", total: 6, cursor: 5, w: 60, wantFirst: 3, wantCount: 3},
		{name: "narrow shows one", total: 4, cursor: 2, w: 10, wantFirst: 2, wantCount: 1},
		{name: "no columns", total: 0, cursor: 0, w: 80, wantFirst: 0, wantCount: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, count := visibleColumns(tc.total, tc.cursor, tc.w)
			if first != tc.wantFirst || count != tc.wantCount {
				t.Fatalf("visibleColumns(%d, %d, %d) = %d, %d; want %d, %d",
					tc.total, tc.cursor, tc.w, first, count, tc.wantFirst, tc.wantCount)
			}
		})
	}
}

func TestFormatShortDate(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"2024-03-05":           "5 Mar 2024",
		"2024-03-05T10:00:00Z": "5 Mar 2024",
		"next week":            "next week",
	}
	for in, want := range cases {
		if got := formatShortDate(in); got != want {
			t.Fatalf("formatShortDate(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestPlannedRange(t *testing.T) {
	start, finish := "2024-01-02", "2024-02-03"
	if got := plannedRange(model.Task{}); got != "" {
		t.Fatalf("expected empty range, got %q", got)
	}
	if got := plannedRange(model.Task{PlannedStart: &start}); got != "2 Jan 2024 →" {
		t.Fatalf("unexpected open range %q", got)
	}
	if got := plannedRange(model.Task{PlannedStart: &start, PlannedFinish: &finish}); got != "2 Jan 2024 → 3 Feb 2024" {
		t.Fatalf("unexpected range %q", got)
	}
}

func TestTaskCountLabel(t *testing.T) {
	if got := taskCountLabel(1); got != "1 Task" {
		t.Fatalf("got %q", got)
	}
	if got := taskCountLabel(0); got != "0 Tasks" {
		t.Fatalf("got %q", got)
	}
}

func TestBoardView_RenderIsExactSize(t *testing.T) {
	repo := newFakeRepo()
	snap := roadmap.Snapshot{TemplateID: "tpl1", Areas: repo.areas, Phases: repo.phases, Tasks: repo.tasks}
	b := roadmap.BuildBoard(snap)

	v := boardView{board: b, cursor: b.Clamp(roadmap.Selection{Item: -1}), collapsed: map[string]bool{}}
	out := v.render(80, 12)
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 80 {
			t.Fatalf("line %d: expected width 80, got %d", i, w)
		}
	}
	if !strings.Contains(out, "Define 2") {
		t.Fatalf("expected phase header with count:\n%s", out)
	}
}

func TestBoardView_FoldedAreaHidesCards(t *testing.T) {
	repo := newFakeRepo()
	snap := roadmap.Snapshot{TemplateID: "tpl1", Areas: repo.areas, Phases: repo.phases, Tasks: repo.tasks}
	b := roadmap.BuildBoard(snap)

	v := boardView{board: b, cursor: b.Clamp(roadmap.Selection{Item: -1}), collapsed: map[string]bool{"A1": true}}
	out := v.render(100, 30)
	if strings.Contains(out, "Write brief") {
		t.Fatalf("expected folded Frontend to hide its cards:\n%s", out)
	}
	if !strings.Contains(out, "▸ Frontend") || !strings.Contains(out, "Design API") {
		t.Fatalf("expected folded header and the other area's cards:\n%s", out)
	}
}

func TestBoardView_ReportsUnplacedTasks(t *testing.T) {
	repo := newFakeRepo()
	other := "elsewhere"
	tasks := append(repo.tasks, model.Task{ID: "t9", Name: "Orphan", AreaID: &other, PhaseID: &other})
	snap := roadmap.Snapshot{TemplateID: "tpl1", Areas: repo.areas, Phases: repo.phases, Tasks: tasks}
	b := roadmap.BuildBoard(snap)

	v := boardView{board: b, cursor: b.Clamp(roadmap.Selection{Item: -1}), collapsed: map[string]bool{}}
	if out := v.render(100, 40); !strings.Contains(out, "1 Task without an area or phase") {
		t.Fatalf("expected unplaced notice:\n%s", out)
	}
}
