package tui

import (
	"roadmap-cli/internal/model"
	"roadmap-cli/internal/roadmap"
	"roadmap-cli/internal/store"
)

type panelTab int

const (
	tabDetails panelTab = iota
	tabActivity
)

func (t panelTab) String() string {
	if t == tabActivity {
		return "Activity"
	}
	return "Details"
}

// Results of repository calls. Each carries what it was issued for (a load sequence
// number or a task id) so responses that arrive after the user moved on are dropped.
type (
	templatesLoadedMsg struct {
		seq       uint64
		templates []model.Template
		err       error
	}

	snapshotLoadedMsg struct {
		seq  uint64
		snap roadmap.Snapshot
		err  error
	}

	optionsLoadedMsg struct {
		seq    uint64
		areas  []model.Area
		phases []model.Phase
		err    error
	}

	taskCreatedMsg struct {
		task model.Task
		err  error
	}

	taskUpdatedMsg struct {
		taskID string
		task   model.Task
		err    error
	}

	taskDeletedMsg struct {
		taskID string
		err    error
	}

	activityLoadedMsg struct {
		taskID string
		events []store.Event
		err    error
	}

	minibufferClearMsg struct {
		seq int
	}
)

const (
	topPadLines   = 1
	minBoardW     = 40
	minPanelW     = 36
	maxPanelW     = 64
	splitGapW     = 2
	activityLimit = 50
)
