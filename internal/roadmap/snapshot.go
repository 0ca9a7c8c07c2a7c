// Package roadmap aggregates the areas, phases and tasks of one roadmap template and
// derives the area x phase groupings the board is drawn from.
//
// Groupings are pure filters over the current Snapshot. Nothing is indexed or cached:
// a refreshed snapshot is all it takes for every derived view to be current again.
package roadmap

import (
	"strings"

	"roadmap-cli/internal/model"
)

// Snapshot is the fetched state of one template.
type Snapshot struct {
	TemplateID string
	Areas      []model.Area
	Phases     []model.Phase
	Tasks      []model.Task
}

// TasksByPhase counts the tasks in phaseID across all areas.
func (s Snapshot) TasksByPhase(phaseID string) int {
	n := 0
	for _, t := range s.Tasks {
		if t.InPhase(phaseID) {
			n++
		}
	}
	return n
}

// TasksByArea returns the tasks in areaID, in fetch order.
func (s Snapshot) TasksByArea(areaID string) []model.Task {
	out := []model.Task{}
	for _, t := range s.Tasks {
		if t.InArea(areaID) {
			out = append(out, t)
		}
	}
	return out
}

// TasksByAreaAndPhase returns the tasks in both areaID and phaseID, in fetch order.
func (s Snapshot) TasksByAreaAndPhase(areaID, phaseID string) []model.Task {
	out := []model.Task{}
	for _, t := range s.Tasks {
		if t.InArea(areaID) && t.InPhase(phaseID) {
			out = append(out, t)
		}
	}
	return out
}

// Without returns a copy of s with taskID removed.
func (s Snapshot) Without(taskID string) Snapshot {
	out := s
	out.Tasks = make([]model.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID != taskID {
			out.Tasks = append(out.Tasks, t)
		}
	}
	return out
}

func (s Snapshot) Task(taskID string) (model.Task, bool) {
	taskID = strings.TrimSpace(taskID)
	for _, t := range s.Tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s Snapshot) AreaName(areaID string) string {
	for _, a := range s.Areas {
		if a.ID == areaID {
			return a.Name
		}
	}
	return ""
}

func (s Snapshot) PhaseName(phaseID string) string {
	for _, p := range s.Phases {
		if p.ID == phaseID {
			return p.Name
		}
	}
	return ""
}

// Empty reports whether the snapshot has nothing to draw.
func (s Snapshot) Empty() bool {
	return len(s.Areas) == 0 && len(s.Phases) == 0 && len(s.Tasks) == 0
}
