package publish

import (
	"bytes"
	"fmt"
	"strings"

	"roadmap-cli/internal/model"
	"roadmap-cli/internal/roadmap"
)

// RenderTaskMarkdown renders one task page. Area and phase names come from snap.
func RenderTaskMarkdown(snap roadmap.Snapshot, taskID string) (string, error) {
	t, ok := snap.Task(strings.TrimSpace(taskID))
	if !ok {
		return "", fmt.Errorf("task not found: %s", taskID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + titleOf(t))
	writeLn("")

	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + t.ID)
	writeLn("- Area: " + named(snap.AreaName(model.Deref(t.AreaID)), model.Deref(t.AreaID)))
	writeLn("- Phase: " + named(snap.PhaseName(model.Deref(t.PhaseID)), model.Deref(t.PhaseID)))
	if t.Status != "" {
		writeLn("- Status: " + model.HumanizeEnum(string(t.Status)))
	}
	if t.State != "" {
		writeLn("- State: " + model.HumanizeEnum(string(t.State)))
	}
	writeLn("- Complete: " + model.FormatPct(t.PctComplete) + "%")
	writeLn("- Weight: " + model.FormatPct(t.PctWeight) + "%")
	if t.OptionalFlag {
		writeLn("- Optional: true")
	}
	if v := strings.TrimSpace(t.Responsible); v != "" {
		writeLn("- Responsible: " + v)
	}
	if v := strings.TrimSpace(t.PrecedentTask); v != "" {
		writeLn("- Precedent task: " + v)
	}

	dates := [][3]string{
		{"Planned", model.Deref(t.PlannedStart), model.Deref(t.PlannedFinish)},
		{"Forecast", model.Deref(t.ForeActStart), model.Deref(t.ForeActFinish)},
		{"Actual", model.Deref(t.ActualStart), model.Deref(t.ActualFinish)},
	}
	wroteHeader := false
	for _, d := range dates {
		if strings.TrimSpace(d[1]) == "" && strings.TrimSpace(d[2]) == "" {
			continue
		}
		if !wroteHeader {
			writeLn("")
			writeLn("## Dates")
			writeLn("")
			wroteHeader = true
		}
		writeLn(fmt.Sprintf("- %s: %s → %s", d[0], orDash(d[1]), orDash(d[2])))
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}

	if strings.TrimSpace(t.Outcome) != "" || strings.TrimSpace(t.OutcomeDescription) != "" {
		writeLn("")
		writeLn("## Outcome")
		writeLn("")
		if v := strings.TrimSpace(t.Outcome); v != "" {
			writeLn("**" + v + "**")
			writeLn("")
		}
		if v := strings.TrimSpace(t.OutcomeDescription); v != "" {
			writeLn(v)
		}
	}

	return buf.String(), nil
}

// RenderIndexMarkdown renders the board of one template as a table: one row per area,
// one column per phase, tasks linked to their pages.
func RenderIndexMarkdown(templateName string, snap roadmap.Snapshot) string {
	b := roadmap.BuildBoard(snap)

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(templateName)
	if title == "" {
		title = snap.TemplateID
	} else {
		title += " (" + snap.TemplateID + ")"
	}
	writeLn("# " + title)
	writeLn("")

	if len(b.Columns) == 0 || len(b.Sections) == 0 {
		writeLn("This roadmap has no areas or phases yet.")
		return buf.String()
	}

	header := []string{"Area"}
	rule := []string{"---"}
	for _, col := range b.Columns {
		header = append(header, fmt.Sprintf("%s (%d)", cell(col.Phase.Name), col.Count))
		rule = append(rule, "---")
	}
	writeLn("| " + strings.Join(header, " | ") + " |")
	writeLn("| " + strings.Join(rule, " | ") + " |")

	for _, sec := range b.Sections {
		row := []string{fmt.Sprintf("**%s** (%d)", cell(sec.Area.Name), sec.Total)}
		for _, c := range sec.Cells {
			links := make([]string, 0, len(c.Tasks))
			for _, t := range c.Tasks {
				links = append(links, taskLink(t))
			}
			row = append(row, strings.Join(links, "<br>"))
		}
		writeLn("| " + strings.Join(row, " | ") + " |")
	}

	if len(b.Unplaced) > 0 {
		writeLn("")
		writeLn("## Without an area or phase")
		writeLn("")
		for _, t := range b.Unplaced {
			writeLn("- " + taskLink(t))
		}
	}
	return buf.String()
}

func titleOf(t model.Task) string {
	if s := strings.TrimSpace(t.Name); s != "" {
		return s
	}
	return "(untitled)"
}

func taskLink(t model.Task) string {
	return fmt.Sprintf("[%s](tasks/%s.md)", cell(titleOf(t)), t.ID)
}

// cell keeps a value from breaking the table row.
func cell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func named(name, id string) string {
	switch {
	case id == "":
		return "(none)"
	case strings.TrimSpace(name) == "":
		return id
	}
	return strings.TrimSpace(name) + " (" + id + ")"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return strings.TrimSpace(s)
}
