package detail

import (
	"fmt"
	"strconv"
	"strings"

	"roadmap-cli/internal/model"
)

// Field names an editable attribute of a task. Values match the wire names, except
// Area and Phase which are sent as area_id and phase_id.
type Field string

const (
	FieldName               Field = "name"
	FieldDescription        Field = "description"
	FieldStatus             Field = "status"
	FieldState              Field = "state"
	FieldPhase              Field = "phase"
	FieldArea               Field = "area"
	FieldPlannedStart       Field = "planned_start"
	FieldPlannedFinish      Field = "planned_finish"
	FieldForeActStart       Field = "fore_act_start"
	FieldForeActFinish      Field = "fore_act_finish"
	FieldActualStart        Field = "actual_start"
	FieldActualFinish       Field = "actual_finish"
	FieldPctWeight          Field = "pct_weight"
	FieldPctComplete        Field = "pct_complete"
	FieldOptional           Field = "optional_flag"
	FieldOutcome            Field = "outcome"
	FieldOutcomeDescription Field = "outcome_description"
	FieldResponsible        Field = "responsible"
	FieldPrecedentTask      Field = "precedent_task"
)

type fieldSpec struct {
	field     Field
	label     string
	group     string
	multiline bool
}

// fieldSpecs is the display order of the detail panel.
var fieldSpecs = []fieldSpec{
	{field: FieldName, label: "Task name"},
	{field: FieldDescription, label: "Task description", multiline: true},
	{field: FieldStatus, label: "Status", group: "Classification"},
	{field: FieldState, label: "State", group: "Classification"},
	{field: FieldPhase, label: "Phase", group: "Classification"},
	{field: FieldArea, label: "Area", group: "Classification"},
	{field: FieldPlannedStart, label: "Start", group: "Planned Dates"},
	{field: FieldPlannedFinish, label: "Finish", group: "Planned Dates"},
	{field: FieldForeActStart, label: "Start", group: "Forecast Dates"},
	{field: FieldForeActFinish, label: "Finish", group: "Forecast Dates"},
	{field: FieldActualStart, label: "Start", group: "Actual Dates"},
	{field: FieldActualFinish, label: "Finish", group: "Actual Dates"},
	{field: FieldPctWeight, label: "Weight %", group: "Progress"},
	{field: FieldPctComplete, label: "Complete %", group: "Progress"},
	{field: FieldOptional, label: "Optional", group: "Progress"},
	{field: FieldOutcome, label: "Outcome", group: "Outcome"},
	{field: FieldOutcomeDescription, label: "Outcome description", group: "Outcome", multiline: true},
	{field: FieldResponsible, label: "Responsible", group: "Outcome"},
	{field: FieldPrecedentTask, label: "Precedent task", group: "Outcome"},
}

// AllFields returns every editable field in display order.
func AllFields() []Field {
	out := make([]Field, 0, len(fieldSpecs))
	for _, fs := range fieldSpecs {
		out = append(out, fs.field)
	}
	return out
}

func lookupField(f Field) (fieldSpec, bool) {
	for _, fs := range fieldSpecs {
		if fs.field == f {
			return fs, true
		}
	}
	return fieldSpec{}, false
}

// ParseField accepts wire names and the aliases area_id and phase_id.
func ParseField(s string) (Field, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "area_id":
		return FieldArea, nil
	case "phase_id":
		return FieldPhase, nil
	}
	if _, ok := lookupField(Field(s)); !ok {
		return "", fmt.Errorf("unknown field: %q", s)
	}
	return Field(s), nil
}

// Values is the textual form of a task's editable fields.
type Values map[Field]string

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Placeholder selects how absent task fields are seeded into the view.
type Placeholder int

const (
	// PlaceholderUnset leaves absent fields empty; they render as unset.
	PlaceholderUnset Placeholder = iota
	// PlaceholderDemo fills absent fields with the product's sample values.
	PlaceholderDemo
)

func ParsePlaceholder(s string) (Placeholder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return PlaceholderUnset, nil
	case "demo":
		return PlaceholderDemo, nil
	default:
		return PlaceholderUnset, fmt.Errorf("invalid placeholder policy: %q (expected unset|demo)", s)
	}
}

func (p Placeholder) String() string {
	if p == PlaceholderDemo {
		return "demo"
	}
	return "unset"
}

var demoDefaults = Values{
	FieldDescription:        "Developing a master project schedule involves organising and structuring all aspects of the project into a cohesive timeline...",
	FieldStatus:             "In Progress",
	FieldState:              "Behind Schedule",
	FieldPhase:              "Define",
	FieldArea:               "Operations Management",
	FieldPlannedStart:       "1 January 2024",
	FieldPlannedFinish:      "19 October 2025",
	FieldForeActStart:       "1 January 2024",
	FieldForeActFinish:      "19 October 2025",
	FieldActualStart:        "1 January 2024",
	FieldActualFinish:       "19 October 2025",
	FieldOutcome:            "Sample Outcome Name",
	FieldOutcomeDescription: "Framsys methodology is designed to streamline project delivery...",
	FieldResponsible:        "John Doe the Second",
	FieldPrecedentTask:      "Sample Task Name 1",
}

// Seed derives the view values of t under policy p.
func Seed(t model.Task, p Placeholder) Values {
	v := Values{
		FieldName:               t.Name,
		FieldDescription:        t.Description,
		FieldStatus:             string(t.Status),
		FieldState:              string(t.State),
		FieldPhase:              model.Deref(t.PhaseID),
		FieldArea:               model.Deref(t.AreaID),
		FieldPlannedStart:       model.Deref(t.PlannedStart),
		FieldPlannedFinish:      model.Deref(t.PlannedFinish),
		FieldForeActStart:       model.Deref(t.ForeActStart),
		FieldForeActFinish:      model.Deref(t.ForeActFinish),
		FieldActualStart:        model.Deref(t.ActualStart),
		FieldActualFinish:       model.Deref(t.ActualFinish),
		FieldPctWeight:          model.FormatPct(t.PctWeight),
		FieldPctComplete:        model.FormatPct(t.PctComplete),
		FieldOptional:           strconv.FormatBool(t.OptionalFlag),
		FieldOutcome:            t.Outcome,
		FieldOutcomeDescription: t.OutcomeDescription,
		FieldResponsible:        t.Responsible,
		FieldPrecedentTask:      t.PrecedentTask,
	}
	if p == PlaceholderDemo {
		for f, def := range demoDefaults {
			if strings.TrimSpace(v[f]) == "" {
				v[f] = def
			}
		}
	}
	return v
}

// Payload converts edited values into the update payload. Percentages and the optional
// flag are parsed here; blank dates, area and phase become null.
func Payload(v Values) (model.TaskInput, error) {
	weight, err := model.ParsePct(v[FieldPctWeight])
	if err != nil {
		return model.TaskInput{}, fmt.Errorf("%s: not a number: %q", FieldPctWeight, v[FieldPctWeight])
	}
	complete, err := model.ParsePct(v[FieldPctComplete])
	if err != nil {
		return model.TaskInput{}, fmt.Errorf("%s: not a number: %q", FieldPctComplete, v[FieldPctComplete])
	}
	optional, err := parseFlag(v[FieldOptional])
	if err != nil {
		return model.TaskInput{}, fmt.Errorf("%s: %w", FieldOptional, err)
	}
	return model.TaskInput{
		Name:               v[FieldName],
		Description:        v[FieldDescription],
		PlannedStart:       model.NullableString(v[FieldPlannedStart]),
		PlannedFinish:      model.NullableString(v[FieldPlannedFinish]),
		ForeActStart:       model.NullableString(v[FieldForeActStart]),
		ForeActFinish:      model.NullableString(v[FieldForeActFinish]),
		ActualStart:        model.NullableString(v[FieldActualStart]),
		ActualFinish:       model.NullableString(v[FieldActualFinish]),
		PctWeight:          weight,
		PctComplete:        complete,
		OptionalFlag:       optional,
		State:              model.TaskState(strings.TrimSpace(v[FieldState])),
		Status:             model.TaskStatus(strings.TrimSpace(v[FieldStatus])),
		AreaID:             model.NullableString(v[FieldArea]),
		PhaseID:            model.NullableString(v[FieldPhase]),
		Outcome:            v[FieldOutcome],
		OutcomeDescription: v[FieldOutcomeDescription],
		Responsible:        v[FieldResponsible],
		PrecedentTask:      v[FieldPrecedentTask],
	}, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "n", "0", "off":
		return false, nil
	case "true", "yes", "y", "1", "on":
		return true, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", s)
	}
}
