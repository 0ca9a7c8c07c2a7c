package taskform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/model"

	"golang.org/x/sync/errgroup"
)

var (
	ErrSubmitting     = errors.New("a task is already being created")
	ErrOptionsLoading = errors.New("area and phase options are still loading")
	ErrClosed         = errors.New("creation panel is closed")
)

// OptionsSource loads the select options of the panel. *api.Client implements it.
type OptionsSource interface {
	ListAreas(ctx context.Context, templateID string) ([]model.Area, error)
	ListPhases(ctx context.Context, templateID string) ([]model.Phase, error)
}

// Creator is the write side used by Submit. *api.Client implements it.
type Creator interface {
	CreateTask(ctx context.Context, templateID string, in model.TaskInput) (model.Task, error)
}

// LoadOptions fetches areas and phases concurrently.
func LoadOptions(ctx context.Context, src OptionsSource, templateID string) ([]model.Area, []model.Phase, error) {
	var areas []model.Area
	var phases []model.Phase
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		areas, err = src.ListAreas(gctx, templateID)
		return err
	})
	g.Go(func() error {
		var err error
		phases, err = src.ListPhases(gctx, templateID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return areas, phases, nil
}

// Panel is the creation side panel. It is closed until Open and never touches the
// board's task collection; the caller refreshes after SubmitSucceeded.
type Panel struct {
	Form Form

	open       bool
	templateID string

	areas          []model.Area
	phases         []model.Phase
	optionsLoading bool
	optionsSeq     uint64

	submitting bool
	message    string
}

func NewPanel() *Panel {
	return &Panel{Form: Blank()}
}

func (p *Panel) IsOpen() bool          { return p.open }
func (p *Panel) TemplateID() string    { return p.templateID }
func (p *Panel) Areas() []model.Area   { return p.areas }
func (p *Panel) Phases() []model.Phase { return p.phases }
func (p *Panel) Submitting() bool      { return p.submitting }

// Message is the inline error shown in the panel, empty when there is none.
func (p *Panel) Message() string { return p.message }

// SelectsEnabled reports whether the area and phase selects accept input.
func (p *Panel) SelectsEnabled() bool { return !p.optionsLoading }

// CanSubmit reports whether the submit action is enabled.
func (p *Panel) CanSubmit() bool { return p.open && !p.optionsLoading && !p.submitting }

// Open shows the panel for templateID and starts the options fetch. It returns the
// fetch sequence number; ok is false when the panel was already open.
func (p *Panel) Open(templateID string) (seq uint64, ok bool) {
	if p.open {
		return 0, false
	}
	p.open = true
	p.templateID = strings.TrimSpace(templateID)
	p.areas, p.phases = nil, nil
	p.message = ""
	p.optionsLoading = true
	p.optionsSeq++
	return p.optionsSeq, true
}

func (p *Panel) OptionsLoaded(seq uint64, areas []model.Area, phases []model.Phase) bool {
	if !p.open || seq != p.optionsSeq {
		return false
	}
	p.optionsLoading = false
	p.areas = areas
	p.phases = phases
	return true
}

func (p *Panel) OptionsFailed(seq uint64, err error) bool {
	if !p.open || seq != p.optionsSeq {
		return false
	}
	p.optionsLoading = false
	p.message = api.MessageOr(err, api.MsgOptionsFailed)
	return true
}

// BeginSubmit validates the form and returns the create payload, marking the
// submission in flight. Validation failures never reach the network.
func (p *Panel) BeginSubmit() (string, model.TaskInput, error) {
	if !p.open {
		return "", model.TaskInput{}, ErrClosed
	}
	if p.submitting {
		return "", model.TaskInput{}, ErrSubmitting
	}
	if p.optionsLoading {
		return "", model.TaskInput{}, ErrOptionsLoading
	}
	if err := p.Form.Validate(); err != nil {
		p.message = err.Error()
		return "", model.TaskInput{}, err
	}
	in, err := p.Form.Payload()
	if err != nil {
		p.message = err.Error()
		return "", model.TaskInput{}, err
	}
	p.submitting = true
	p.message = ""
	return p.templateID, in, nil
}

// SubmitSucceeded closes the panel and resets the form.
func (p *Panel) SubmitSucceeded() {
	if !p.submitting {
		return
	}
	p.submitting = false
	p.reset()
}

// SubmitFailed keeps the panel open with the input intact.
func (p *Panel) SubmitFailed(err error) {
	if !p.submitting {
		return
	}
	p.submitting = false
	p.message = api.MessageOr(err, api.MsgCreateFailed)
}

// Close hides the panel. It is a no-op while a submission is in flight.
func (p *Panel) Close() bool {
	if !p.open || p.submitting {
		return false
	}
	p.reset()
	return true
}

func (p *Panel) reset() {
	p.open = false
	p.Form = Blank()
	p.areas, p.phases = nil, nil
	p.optionsLoading = false
	p.message = ""
}

// Submit runs BeginSubmit, the create call and the matching completion step.
func (p *Panel) Submit(ctx context.Context, c Creator) (model.Task, error) {
	templateID, in, err := p.BeginSubmit()
	if err != nil {
		return model.Task{}, err
	}
	t, err := c.CreateTask(ctx, templateID, in)
	if err != nil {
		p.SubmitFailed(err)
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	p.SubmitSucceeded()
	return t, nil
}
