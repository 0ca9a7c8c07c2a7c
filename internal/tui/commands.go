package tui

import (
	"context"
	"time"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/model"
	"roadmap-cli/internal/roadmap"
	"roadmap-cli/internal/store"
	"roadmap-cli/internal/taskform"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const minibufferAutoClearAfter = 3 * time.Second

// Every repository call runs as a tea.Cmd off the event loop; the Update handlers for
// the *Msg types are the only place results touch model state.

func (m appModel) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m appModel) loadTemplatesCmd(seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		templates, err := m.repo.ListTemplates(ctx)
		if err != nil {
			m.logger.Warn("list templates failed", zap.Error(err))
		}
		return templatesLoadedMsg{seq: seq, templates: templates, err: err}
	}
}

func (m appModel) loadSnapshotCmd(seq uint64, templateID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		snap, err := roadmap.Fetch(ctx, m.repo, templateID)
		if err != nil {
			m.logger.Warn("load roadmap failed", zap.String("template_id", templateID), zap.Error(err))
		}
		return snapshotLoadedMsg{seq: seq, snap: snap, err: err}
	}
}

func (m appModel) loadOptionsCmd(seq uint64, templateID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		areas, phases, err := taskform.LoadOptions(ctx, m.repo, templateID)
		if err != nil {
			m.logger.Warn("load dropdown options failed", zap.String("template_id", templateID), zap.Error(err))
		}
		return optionsLoadedMsg{seq: seq, areas: areas, phases: phases, err: err}
	}
}

func (m appModel) createTaskCmd(templateID string, in model.TaskInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		t, err := m.repo.CreateTask(ctx, templateID, in)
		ev := store.Event{Type: store.EventTaskCreate, TemplateID: templateID, TaskID: t.ID, TaskName: in.Name}
		if err != nil {
			m.logger.Error("create task failed", zap.String("template_id", templateID), zap.Error(err))
			ev.Outcome = store.OutcomeFailed
			ev.Message = api.MessageOr(err, api.MsgCreateFailed)
		}
		m.record(ctx, ev, in)
		return taskCreatedMsg{task: t, err: err}
	}
}

func (m appModel) updateTaskCmd(templateID, taskID string, in model.TaskInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		t, err := m.repo.UpdateTask(ctx, taskID, in)
		ev := store.Event{Type: store.EventTaskUpdate, TemplateID: templateID, TaskID: taskID, TaskName: in.Name}
		if err != nil {
			m.logger.Error("update task failed", zap.String("task_id", taskID), zap.Error(err))
			ev.Outcome = store.OutcomeFailed
			ev.Message = api.MessageOr(err, api.MsgUpdateFailed)
		}
		m.record(ctx, ev, in)
		return taskUpdatedMsg{taskID: taskID, task: t, err: err}
	}
}

func (m appModel) deleteTaskCmd(templateID string, t model.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		err := m.repo.DeleteTask(ctx, t.ID)
		ev := store.Event{Type: store.EventTaskDelete, TemplateID: templateID, TaskID: t.ID, TaskName: t.Name}
		if err != nil {
			m.logger.Error("delete task failed", zap.String("task_id", t.ID), zap.Error(err))
			ev.Outcome = store.OutcomeFailed
			ev.Message = api.MessageOr(err, api.MsgDeleteFailed)
		}
		m.record(ctx, ev, nil)
		return taskDeletedMsg{taskID: t.ID, err: err}
	}
}

func (m appModel) loadActivityCmd(taskID string) tea.Cmd {
	if m.journal == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		events, err := m.journal.ForTask(ctx, taskID, activityLimit)
		if err != nil {
			m.logger.Warn("read activity failed", zap.String("task_id", taskID), zap.Error(err))
		}
		return activityLoadedMsg{taskID: taskID, events: events, err: err}
	}
}

// record appends ev to the journal. Journal failures are logged, never surfaced: the
// mutation itself already happened.
func (m appModel) record(ctx context.Context, ev store.Event, payload any) {
	if m.journal == nil {
		return
	}
	if _, err := m.journal.Record(ctx, ev, payload); err != nil {
		m.logger.Warn("record activity failed", zap.String("type", string(ev.Type)), zap.String("task_id", ev.TaskID), zap.Error(err))
	}
}

func clearMinibufferAfter(seq int) tea.Cmd {
	return tea.Tick(minibufferAutoClearAfter, func(time.Time) tea.Msg { return minibufferClearMsg{seq: seq} })
}
