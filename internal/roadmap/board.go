package roadmap

import (
	"strings"

	"roadmap-cli/internal/model"
)

// Column is a phase header: the phase and the number of tasks in it across all areas.
type Column struct {
	Phase model.Phase
	Count int
}

// Cell holds the tasks of one area in one phase.
type Cell struct {
	Tasks []model.Task
}

// Section is one area row. Cells line up with Board.Columns.
type Section struct {
	Area  model.Area
	Total int
	Cells []Cell
}

// Board is the area x phase grid the board view draws.
type Board struct {
	Columns  []Column
	Sections []Section
	// Unplaced are tasks whose area or phase is missing from the snapshot.
	Unplaced []model.Task
}

func BuildBoard(s Snapshot) Board {
	b := Board{
		Columns:  make([]Column, 0, len(s.Phases)),
		Sections: make([]Section, 0, len(s.Areas)),
	}
	for _, p := range s.Phases {
		b.Columns = append(b.Columns, Column{Phase: p, Count: s.TasksByPhase(p.ID)})
	}
	for _, a := range s.Areas {
		sec := Section{
			Area:  a,
			Total: len(s.TasksByArea(a.ID)),
			Cells: make([]Cell, 0, len(s.Phases)),
		}
		for _, p := range s.Phases {
			sec.Cells = append(sec.Cells, Cell{Tasks: s.TasksByAreaAndPhase(a.ID, p.ID)})
		}
		b.Sections = append(b.Sections, sec)
	}
	for _, t := range s.Tasks {
		if !hasArea(s.Areas, t.AreaID) || !hasPhase(s.Phases, t.PhaseID) {
			b.Unplaced = append(b.Unplaced, t)
		}
	}
	return b
}

func hasArea(areas []model.Area, id *string) bool {
	if id == nil {
		return false
	}
	for _, a := range areas {
		if a.ID == *id {
			return true
		}
	}
	return false
}

func hasPhase(phases []model.Phase, id *string) bool {
	if id == nil {
		return false
	}
	for _, p := range phases {
		if p.ID == *id {
			return true
		}
	}
	return false
}

// Selection is the focused card. TaskID is the stable anchor; the indexes follow it
// across refreshes.
type Selection struct {
	Section int
	Column  int
	Item    int
	TaskID  string
}

func (b Board) cell(sec, col int) []model.Task {
	if sec < 0 || sec >= len(b.Sections) {
		return nil
	}
	cells := b.Sections[sec].Cells
	if col < 0 || col >= len(cells) {
		return nil
	}
	return cells[col].Tasks
}

func (b Board) indexOfTaskID(taskID string) (int, int, int, bool) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return 0, 0, 0, false
	}
	for si := range b.Sections {
		for ci := range b.Sections[si].Cells {
			for ii, t := range b.Sections[si].Cells[ci].Tasks {
				if t.ID == taskID {
					return si, ci, ii, true
				}
			}
		}
	}
	return 0, 0, 0, false
}

// Clamp keeps sel inside the grid, preferring the position of sel.TaskID when that task
// is still on the board.
func (b Board) Clamp(sel Selection) Selection {
	if len(b.Sections) == 0 || len(b.Columns) == 0 {
		return Selection{Item: -1}
	}
	if si, ci, ii, ok := b.indexOfTaskID(sel.TaskID); ok {
		sel.Section, sel.Column, sel.Item = si, ci, ii
	} else {
		sel.TaskID = ""
	}

	sel.Section = clampInt(sel.Section, 0, len(b.Sections)-1)
	sel.Column = clampInt(sel.Column, 0, len(b.Columns)-1)

	tasks := b.cell(sel.Section, sel.Column)
	if len(tasks) == 0 {
		sel.Item = -1
		return sel
	}
	sel.Item = clampInt(sel.Item, 0, len(tasks)-1)
	sel.TaskID = tasks[sel.Item].ID
	return sel
}

// Selected returns the task under sel, if any.
func (b Board) Selected(sel Selection) (model.Task, bool) {
	sel = b.Clamp(sel)
	tasks := b.cell(sel.Section, sel.Column)
	if sel.Item < 0 || sel.Item >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[sel.Item], true
}

// Horizontal moves sel by delta phase columns within the same area.
func (b Board) Horizontal(sel Selection, delta int) Selection {
	sel = b.Clamp(sel)
	if len(b.Columns) == 0 {
		return sel
	}
	sel.Column = clampInt(sel.Column+delta, 0, len(b.Columns)-1)
	sel.TaskID = ""
	return b.Clamp(sel)
}

// Vertical moves sel by delta cards. Leaving a cell continues in the same phase column
// of the next visible area; hidden reports areas that are collapsed.
func (b Board) Vertical(sel Selection, delta int, hidden func(areaID string) bool) Selection {
	sel = b.Clamp(sel)
	if len(b.Sections) == 0 || delta == 0 {
		return sel
	}
	isHidden := func(si int) bool {
		return hidden != nil && hidden(b.Sections[si].Area.ID)
	}

	tasks := b.cell(sel.Section, sel.Column)
	next := sel.Item + delta
	if !isHidden(sel.Section) && next >= 0 && next < len(tasks) {
		sel.Item = next
		sel.TaskID = tasks[next].ID
		return sel
	}

	step := 1
	if delta < 0 {
		step = -1
	}
	for si := sel.Section + step; si >= 0 && si < len(b.Sections); si += step {
		if isHidden(si) {
			continue
		}
		target := b.cell(si, sel.Column)
		if len(target) == 0 {
			continue
		}
		item := 0
		if step < 0 {
			item = len(target) - 1
		}
		return Selection{Section: si, Column: sel.Column, Item: item, TaskID: target[item].ID}
	}
	return sel
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
