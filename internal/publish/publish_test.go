package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roadmap-cli/internal/model"
	"roadmap-cli/internal/roadmap"
)

func sp(s string) *string { return &s }

func testSnapshot() roadmap.Snapshot {
	return roadmap.Snapshot{
		TemplateID: "tpl-1",
		Areas:      []model.Area{{ID: "A1", Name: "Engineering"}, {ID: "A2", Name: "Commercial"}},
		Phases:     []model.Phase{{ID: "P1", Name: "Assess"}, {ID: "P2", Name: "Select | Define"}},
		Tasks: []model.Task{
			{
				ID: "t-1", Name: "Concept report", AreaID: sp("A1"), PhaseID: sp("P1"),
				Description: "Some **markdown**.", Status: model.StatusInProgress, State: model.StateOnTrack,
				PctComplete: 60, PctWeight: 20, PlannedStart: sp("2024-03-01"),
			},
			{ID: "t-2", Name: "Contracting", AreaID: sp("A2"), PhaseID: sp("P2"), Outcome: "Signed"},
			{ID: "t-3", Name: "Stray", AreaID: sp("gone"), PhaseID: sp("P1")},
		},
	}
}

func TestRenderTaskMarkdown_IncludesMetaDatesAndDescription(t *testing.T) {
	t.Parallel()

	md, err := RenderTaskMarkdown(testSnapshot(), "t-1")
	if err != nil {
		t.Fatalf("RenderTaskMarkdown: %v", err)
	}
	for _, want := range []string{
		"# Concept report",
		"- Area: Engineering (A1)",
		"- Status: In progress",
		"- Complete: 60%",
		"- Planned: 2024-03-01 → -",
		"## Description",
		"Some **markdown**.",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Outcome") {
		t.Fatalf("expected no outcome section without an outcome:\n%s", md)
	}
}

func TestRenderTaskMarkdown_UnknownTask(t *testing.T) {
	t.Parallel()

	if _, err := RenderTaskMarkdown(testSnapshot(), "nope"); err == nil {
		t.Fatalf("expected error for unknown task")
	}
}

func TestRenderIndexMarkdown_BoardTable(t *testing.T) {
	t.Parallel()

	md := RenderIndexMarkdown("Field Development", testSnapshot())
	for _, want := range []string{
		"# Field Development (tpl-1)",
		"| Area | Assess (2) | Select \\| Define (1) |",
		"| **Engineering** (1) | [Concept report](tasks/t-1.md) |  |",
		"## Without an area or phase",
		"- [Stray](tasks/t-3.md)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestWriteTemplate_WritesIndexAndTasks(t *testing.T) {
	t.Parallel()

	to := t.TempDir()
	res, err := WriteTemplate(testSnapshot(), to, WriteOptions{TemplateName: "Field Development"})
	if err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	if len(res.Written) != 4 {
		t.Fatalf("expected 4 written files; got %d (%v)", len(res.Written), res.Written)
	}
	if _, err := os.Stat(filepath.Join(to, "templates", "tpl-1", "index.md")); err != nil {
		t.Fatalf("stat index.md: %v", err)
	}
	if _, err := os.Stat(filepath.Join(to, "templates", "tpl-1", "tasks", "t-2.md")); err != nil {
		t.Fatalf("stat t-2.md: %v", err)
	}

	if _, err := WriteTemplate(testSnapshot(), to, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
	if _, err := WriteTemplate(testSnapshot(), to, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("WriteTemplate overwrite: %v", err)
	}
}
