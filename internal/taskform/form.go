// Package taskform holds the task creation form and the side panel state around it.
package taskform

import (
	"fmt"
	"strings"

	"roadmap-cli/internal/model"
)

// Form is the textual state of the creation form.
type Form struct {
	Name          string
	Description   string
	PlannedStart  string
	PlannedFinish string
	ForeActStart  string
	ForeActFinish string
	PctWeight     string
	PctComplete   string
	Optional      bool
	State         string
	Status        string
	AreaID        string
	PhaseID       string
}

// Blank is the form a freshly opened panel shows.
func Blank() Form {
	return Form{
		PctWeight:   "0",
		PctComplete: "0",
		State:       string(model.StatePlanned),
		Status:      string(model.StatusNotStarted),
	}
}

// ValidationError names a required field that is missing.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// Validate checks the required fields: name, area and phase.
func (f Form) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return &ValidationError{Field: "name"}
	case strings.TrimSpace(f.AreaID) == "":
		return &ValidationError{Field: "area"}
	case strings.TrimSpace(f.PhaseID) == "":
		return &ValidationError{Field: "phase"}
	}
	return nil
}

// Payload converts the form into the create payload. Blank dates and a blank area or
// phase are sent as null.
func (f Form) Payload() (model.TaskInput, error) {
	weight, err := model.ParsePct(f.PctWeight)
	if err != nil {
		return model.TaskInput{}, fmt.Errorf("pct_weight: not a number: %q", f.PctWeight)
	}
	complete, err := model.ParsePct(f.PctComplete)
	if err != nil {
		return model.TaskInput{}, fmt.Errorf("pct_complete: not a number: %q", f.PctComplete)
	}
	return model.TaskInput{
		Name:          strings.TrimSpace(f.Name),
		Description:   f.Description,
		PlannedStart:  model.NullableString(f.PlannedStart),
		PlannedFinish: model.NullableString(f.PlannedFinish),
		ForeActStart:  model.NullableString(f.ForeActStart),
		ForeActFinish: model.NullableString(f.ForeActFinish),
		PctWeight:     weight,
		PctComplete:   complete,
		OptionalFlag:  f.Optional,
		State:         model.TaskState(strings.TrimSpace(f.State)),
		Status:        model.TaskStatus(strings.TrimSpace(f.Status)),
		AreaID:        model.NullableString(f.AreaID),
		PhaseID:       model.NullableString(f.PhaseID),
	}, nil
}
