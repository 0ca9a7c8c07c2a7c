package model

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TaskState string

const (
	StatePlanned        TaskState = "planned"
	StateInProgress     TaskState = "in_progress"
	StateBehindSchedule TaskState = "behind_schedule"
	StateOnTrack        TaskState = "on_track"
	StateCompleted      TaskState = "completed"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOnHold     TaskStatus = "on_hold"
)

type Template struct {
	ID   string `json:"cuid"`
	Name string `json:"name"`
}

type Area struct {
	ID   string `json:"cuid"`
	Name string `json:"name"`
}

type Phase struct {
	ID   string `json:"cuid"`
	Name string `json:"name"`
}

type Task struct {
	ID          string `json:"cuid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	PlannedStart  *string `json:"planned_start"`
	PlannedFinish *string `json:"planned_finish"`
	ForeActStart  *string `json:"fore_act_start"`
	ForeActFinish *string `json:"fore_act_finish"`
	ActualStart   *string `json:"actual_start"`
	ActualFinish  *string `json:"actual_finish"`

	PctWeight    float64 `json:"pct_weight"`
	PctComplete  float64 `json:"pct_complete"`
	OptionalFlag bool    `json:"optional_flag"`

	State  TaskState  `json:"state,omitempty"`
	Status TaskStatus `json:"status,omitempty"`

	AreaID  *string `json:"area_id"`
	PhaseID *string `json:"phase_id"`

	Outcome            string `json:"outcome,omitempty"`
	OutcomeDescription string `json:"outcome_description,omitempty"`
	Responsible        string `json:"responsible,omitempty"`
	PrecedentTask      string `json:"precedent_task,omitempty"`
}

// TaskInput is the write payload for create and update.
//
// Nullable fields carry no omitempty: an absent value is sent as an explicit JSON null so
// the server never stores "" where no value is intended.
type TaskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	PlannedStart  *string `json:"planned_start"`
	PlannedFinish *string `json:"planned_finish"`
	ForeActStart  *string `json:"fore_act_start"`
	ForeActFinish *string `json:"fore_act_finish"`
	ActualStart   *string `json:"actual_start"`
	ActualFinish  *string `json:"actual_finish"`

	PctWeight    float64 `json:"pct_weight"`
	PctComplete  float64 `json:"pct_complete"`
	OptionalFlag bool    `json:"optional_flag"`

	State  TaskState  `json:"state"`
	Status TaskStatus `json:"status"`

	AreaID  *string `json:"area_id"`
	PhaseID *string `json:"phase_id"`

	Outcome            string `json:"outcome"`
	OutcomeDescription string `json:"outcome_description"`
	Responsible        string `json:"responsible"`
	PrecedentTask      string `json:"precedent_task"`
}

// InputFromTask returns the payload that would persist t unchanged.
func InputFromTask(t Task) TaskInput {
	return TaskInput{
		Name:               t.Name,
		Description:        t.Description,
		PlannedStart:       NullableString(Deref(t.PlannedStart)),
		PlannedFinish:      NullableString(Deref(t.PlannedFinish)),
		ForeActStart:       NullableString(Deref(t.ForeActStart)),
		ForeActFinish:      NullableString(Deref(t.ForeActFinish)),
		ActualStart:        NullableString(Deref(t.ActualStart)),
		ActualFinish:       NullableString(Deref(t.ActualFinish)),
		PctWeight:          t.PctWeight,
		PctComplete:        t.PctComplete,
		OptionalFlag:       t.OptionalFlag,
		State:              t.State,
		Status:             t.Status,
		AreaID:             NullableString(Deref(t.AreaID)),
		PhaseID:            NullableString(Deref(t.PhaseID)),
		Outcome:            t.Outcome,
		OutcomeDescription: t.OutcomeDescription,
		Responsible:        t.Responsible,
		PrecedentTask:      t.PrecedentTask,
	}
}

// NullableString maps blank text to nil.
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// InArea reports whether the task references areaID.
func (t Task) InArea(areaID string) bool {
	return t.AreaID != nil && *t.AreaID == areaID
}

// InPhase reports whether the task references phaseID.
func (t Task) InPhase(phaseID string) bool {
	return t.PhaseID != nil && *t.PhaseID == phaseID
}

// FormatPct renders a percentage the way it is edited: no trailing zeros.
func FormatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParsePct is the submission-time conversion of a textual percentage.
// Blank input is zero.
func ParsePct(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// HumanizeEnum turns "not_started" into "Not started".
func HumanizeEnum(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
