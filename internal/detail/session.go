// Package detail is the view/edit state machine behind the task detail panel.
//
// A Session starts in Viewing for the task it was created with. Edit seeds a buffer
// from the task's own values (placeholders only ever decorate the view); Set changes
// one buffer field at a time; Cancel throws the buffer away. Saving and deleting are split into Begin/Succeeded/Failed steps so the
// interactive app can run the network call asynchronously while the session rejects a
// second request.
package detail

import (
	"context"
	"errors"
	"strings"

	"roadmap-cli/internal/model"
)

// Mode is the panel state: reading the task or editing a buffer of its fields.
type Mode int

const (
	// Viewing shows the task read-only; delete is allowed here.
	Viewing Mode = iota
	// Editing shows inputs bound to the buffer.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

var (
	// ErrBusy is returned while a save or delete is in flight.
	ErrBusy         = errors.New("a request for this task is already in flight")
	// ErrNotEditing is returned by buffer operations outside Editing.
	ErrNotEditing   = errors.New("task is not being edited")
	// ErrNotViewing is returned when edit or delete is asked for while editing.
	ErrNotViewing   = errors.New("finish editing before deleting")
	// ErrNoConfirm is returned by ConfirmDelete without a prior RequestDelete.
	ErrNoConfirm    = errors.New("delete was not requested")
	// ErrNameRequired rejects a save with a blank name before any network call.
	ErrNameRequired = errors.New("name is required")
)

// Names resolves area and phase ids for display. roadmap.Snapshot implements it.
type Names interface {
	AreaName(id string) string
	PhaseName(id string) string
}

// Updater is the write side used by Save. *api.Client implements it.
type Updater interface {
	UpdateTask(ctx context.Context, taskID string, in model.TaskInput) (model.Task, error)
}

// Deleter is the write side used by Delete. *api.Client implements it.
type Deleter interface {
	DeleteTask(ctx context.Context, taskID string) error
}

// Session is the detail panel state of one task. It allows one save or delete in
// flight at a time.
type Session struct {
	task   model.Task
	policy Placeholder
	names  Names

	mode   Mode
	view   Values
	buffer Values

	saving        bool
	deleting      bool
	confirmDelete bool
	deleted       bool

	err error
}

// New starts a Viewing session for t. names may be nil.
func New(t model.Task, policy Placeholder, names Names) *Session {
	return &Session{
		task:   t,
		policy: policy,
		names:  names,
		mode:   Viewing,
		view:   Seed(t, policy),
	}
}

// Task is the backing task: the one the session started with, or the server's copy
// after a successful save.
func (s *Session) Task() model.Task { return s.task }
func (s *Session) TaskID() string   { return s.task.ID }
func (s *Session) Mode() Mode       { return s.mode }
func (s *Session) Saving() bool     { return s.saving }
func (s *Session) Deleting() bool   { return s.deleting }
func (s *Session) Deleted() bool    { return s.deleted }

// Busy reports whether a save or delete is in flight.
func (s *Session) Busy() bool { return s.saving || s.deleting }

// ConfirmPending reports whether a delete awaits confirmation.
func (s *Session) ConfirmPending() bool { return s.confirmDelete }

// Err is the last recoverable error, cleared by the next successful transition.
func (s *Session) Err() error { return s.err }

// SetNames swaps the id resolver after a refresh.
func (s *Session) SetNames(n Names) { s.names = n }

// Value returns the current text of f: the buffer while editing, the view otherwise.
func (s *Session) Value(f Field) string {
	if s.mode == Editing {
		return s.buffer[f]
	}
	return s.view[f]
}

// Values returns a copy of the current values.
func (s *Session) Values() Values {
	if s.mode == Editing {
		return s.buffer.Clone()
	}
	return s.view.Clone()
}

// Edit enters Editing with a buffer seeded from the task. Refused while a request is
// in flight or a delete awaits confirmation.
func (s *Session) Edit() error {
	if s.mode != Viewing {
		return ErrNotViewing
	}
	if s.Busy() || s.confirmDelete {
		return ErrBusy
	}
	s.buffer = Seed(s.task, PlaceholderUnset)
	s.mode = Editing
	s.err = nil
	return nil
}

// Set changes exactly one buffer field.
func (s *Session) Set(f Field, value string) error {
	if s.mode != Editing {
		return ErrNotEditing
	}
	if s.saving {
		return ErrBusy
	}
	if _, ok := lookupField(f); !ok {
		return errors.New("unknown field: " + string(f))
	}
	s.buffer[f] = value
	return nil
}

// Cancel drops the buffer and returns to the seeded view.
func (s *Session) Cancel() error {
	if s.mode != Editing {
		return ErrNotEditing
	}
	if s.saving {
		return ErrBusy
	}
	s.buffer = nil
	s.mode = Viewing
	s.err = nil
	return nil
}

// BeginSave returns the update payload for the buffer and marks the save in flight.
// Conversion failures leave the session editing with the error recorded.
func (s *Session) BeginSave() (model.TaskInput, error) {
	if s.mode != Editing {
		return model.TaskInput{}, ErrNotEditing
	}
	if s.saving {
		return model.TaskInput{}, ErrBusy
	}
	if strings.TrimSpace(s.buffer[FieldName]) == "" {
		s.err = ErrNameRequired
		return model.TaskInput{}, ErrNameRequired
	}
	in, err := Payload(s.buffer)
	if err != nil {
		s.err = err
		return model.TaskInput{}, err
	}
	s.saving = true
	s.err = nil
	return in, nil
}

// SaveSucceeded replaces the backing task with the server's copy and returns to Viewing.
func (s *Session) SaveSucceeded(t model.Task) {
	if !s.saving {
		return
	}
	s.saving = false
	s.task = t
	s.view = Seed(t, s.policy)
	s.buffer = nil
	s.mode = Viewing
	s.err = nil
}

// SaveFailed keeps the buffer and the Editing mode.
func (s *Session) SaveFailed(err error) {
	if !s.saving {
		return
	}
	s.saving = false
	s.err = err
}

// RequestDelete asks for confirmation. Only allowed while viewing.
func (s *Session) RequestDelete() error {
	if s.mode != Viewing {
		return ErrNotViewing
	}
	if s.Busy() {
		return ErrBusy
	}
	s.confirmDelete = true
	return nil
}

// AbortDelete withdraws a pending delete request.
func (s *Session) AbortDelete() {
	s.confirmDelete = false
}

// ConfirmDelete marks the delete in flight and returns the task id to delete.
func (s *Session) ConfirmDelete() (string, error) {
	if !s.confirmDelete {
		return "", ErrNoConfirm
	}
	if s.Busy() {
		return "", ErrBusy
	}
	s.confirmDelete = false
	s.deleting = true
	s.err = nil
	return s.task.ID, nil
}

// DeleteSucceeded marks the task deleted. The caller drops it from its collections.
func (s *Session) DeleteSucceeded() {
	if !s.deleting {
		return
	}
	s.deleting = false
	s.deleted = true
}

// DeleteFailed leaves the task displayed with the error recorded.
func (s *Session) DeleteFailed(err error) {
	if !s.deleting {
		return
	}
	s.deleting = false
	s.err = err
}

// Save runs BeginSave, the update call and the matching completion step.
func (s *Session) Save(ctx context.Context, u Updater) (model.Task, error) {
	in, err := s.BeginSave()
	if err != nil {
		return model.Task{}, err
	}
	t, err := u.UpdateTask(ctx, s.task.ID, in)
	if err != nil {
		s.SaveFailed(err)
		return model.Task{}, err
	}
	s.SaveSucceeded(t)
	return t, nil
}

// Delete requests, confirms and performs the delete. Callers obtain confirmation from
// the user before calling it.
func (s *Session) Delete(ctx context.Context, d Deleter) error {
	if err := s.RequestDelete(); err != nil {
		return err
	}
	id, err := s.ConfirmDelete()
	if err != nil {
		return err
	}
	if err := d.DeleteTask(ctx, id); err != nil {
		s.DeleteFailed(err)
		return err
	}
	s.DeleteSucceeded()
	return nil
}
