package cli

import (
	"fmt"
	"strings"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/detail"
	"roadmap-cli/internal/model"
	"roadmap-cli/internal/roadmap"
	"roadmap-cli/internal/store"
	"roadmap-cli/internal/taskform"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		templateID string
		areaID     string
		phaseID    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := app.callContext(cmd)
			defer cancel()
			tid, err := resolveTemplate(ctx, c, templateID)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := c.ListTasks(ctx, tid)
			if err != nil {
				return writeErr(cmd, repoError(err, "template", tid, api.MsgLoadFailed))
			}

			areaID = strings.TrimSpace(areaID)
			phaseID = strings.TrimSpace(phaseID)
			out := make([]model.Task, 0, len(tasks))
			for _, t := range tasks {
				if areaID != "" && !t.InArea(areaID) {
					continue
				}
				if phaseID != "" && !t.InPhase(phaseID) {
					continue
				}
				out = append(out, t)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Template id (default: the first template)")
	cmd.Flags().StringVar(&areaID, "area", "", "Only tasks in this area")
	cmd.Flags().StringVar(&phaseID, "phase", "", "Only tasks in this phase")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := app.callContext(cmd)
			defer cancel()
			id := strings.TrimSpace(args[0])
			t, err := c.GetTask(ctx, id)
			if err != nil {
				return writeErr(cmd, repoError(err, "task", id, api.MsgLoadFailed))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var templateID string
	form := taskform.Blank()

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := app.callContext(cmd)
			defer cancel()
			tid, err := resolveTemplate(ctx, c, templateID)
			if err != nil {
				return writeErr(cmd, err)
			}

			// Same flow as the creation panel: options first, then a validated submit.
			p := taskform.NewPanel()
			seq, _ := p.Open(tid)
			areas, phases, err := taskform.LoadOptions(ctx, c, tid)
			if err != nil {
				p.OptionsFailed(seq, err)
				return writeErr(cmd, repoError(err, "template", tid, api.MsgOptionsFailed))
			}
			p.OptionsLoaded(seq, areas, phases)
			if !hasArea(areas, form.AreaID) {
				return writeErr(cmd, errNotFound("area", form.AreaID))
			}
			if !hasPhase(phases, form.PhaseID) {
				return writeErr(cmd, errNotFound("phase", form.PhaseID))
			}
			p.Form = form

			in, err := form.Payload()
			if err != nil {
				return writeErr(cmd, err)
			}

			journal := app.openJournal(ctx)
			defer journal.Close()

			t, err := p.Submit(ctx, c)
			ev := store.Event{Type: store.EventTaskCreate, TemplateID: tid, TaskID: t.ID, TaskName: in.Name}
			if err != nil {
				ev.Outcome = store.OutcomeFailed
				ev.Message = api.MessageOr(err, api.MsgCreateFailed)
				app.logger.Error("create task failed", zap.String("template_id", tid), zap.Error(err))
				app.record(ctx, journal, ev, in)
				return writeErr(cmd, repoError(err, "", "", api.MsgCreateFailed))
			}
			app.record(ctx, journal, ev, in)
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Template id (default: the first template)")
	cmd.Flags().StringVar(&form.Name, "name", "", "Task name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Task description")
	cmd.Flags().StringVar(&form.AreaID, "area", "", "Area id")
	cmd.Flags().StringVar(&form.PhaseID, "phase", "", "Phase id")
	cmd.Flags().StringVar(&form.State, "state", form.State, "State (planned|in_progress|behind_schedule|on_track|completed)")
	cmd.Flags().StringVar(&form.Status, "status", form.Status, "Status (not_started|in_progress|completed|on_hold)")
	cmd.Flags().StringVar(&form.PlannedStart, "planned-start", "", "Planned start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.PlannedFinish, "planned-finish", "", "Planned finish (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.ForeActStart, "forecast-start", "", "Forecast start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.ForeActFinish, "forecast-finish", "", "Forecast finish (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.PctWeight, "weight", form.PctWeight, "Weight percentage")
	cmd.Flags().StringVar(&form.PctComplete, "complete", form.PctComplete, "Completion percentage")
	cmd.Flags().BoolVar(&form.Optional, "optional", false, "Mark the task optional")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var (
		name string
		sets []string
	)

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Long: strings.TrimSpace(`
Update a task. Fields not named keep their current value; the full task is sent.

Fields: name, description, status, state, area, phase, planned_start, planned_finish,
fore_act_start, fore_act_finish, actual_start, actual_finish, pct_weight, pct_complete,
optional_flag, outcome, outcome_description, responsible, precedent_task.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseSets(sets)
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("name") {
				changes = append(changes, fieldChange{field: detail.FieldName, value: name})
			}
			if len(changes) == 0 {
				return writeErr(cmd, fmt.Errorf("nothing to update: pass --name or --set field=value"))
			}

			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := app.callContext(cmd)
			defer cancel()
			id := strings.TrimSpace(args[0])
			current, err := c.GetTask(ctx, id)
			if err != nil {
				return writeErr(cmd, repoError(err, "task", id, api.MsgLoadFailed))
			}

			// Absent fields are seeded as unset so an update never writes sample values.
			s := detail.New(current, detail.PlaceholderUnset, roadmap.Snapshot{})
			if err := s.Edit(); err != nil {
				return writeErr(cmd, err)
			}
			for _, ch := range changes {
				if err := s.Set(ch.field, ch.value); err != nil {
					return writeErr(cmd, err)
				}
			}

			// Conversion and required-name failures are reported before any network call.
			in, err := detail.Payload(s.Values())
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(in.Name) == "" {
				return writeErr(cmd, detail.ErrNameRequired)
			}

			journal := app.openJournal(ctx)
			defer journal.Close()

			t, err := s.Save(ctx, c)
			ev := store.Event{Type: store.EventTaskUpdate, TaskID: id, TaskName: in.Name}
			if err != nil {
				ev.Outcome = store.OutcomeFailed
				ev.Message = api.MessageOr(err, api.MsgUpdateFailed)
				app.logger.Error("update task failed", zap.String("task_id", id), zap.Error(err))
				app.record(ctx, journal, ev, in)
				return writeErr(cmd, repoError(err, "task", id, api.MsgUpdateFailed))
			}
			app.record(ctx, journal, ev, in)
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a field (field=value, repeatable; empty value clears)")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errConfirmRequired)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := app.callContext(cmd)
			defer cancel()
			id := strings.TrimSpace(args[0])
			current, err := c.GetTask(ctx, id)
			if err != nil {
				return writeErr(cmd, repoError(err, "task", id, api.MsgLoadFailed))
			}

			journal := app.openJournal(ctx)
			defer journal.Close()

			s := detail.New(current, detail.PlaceholderUnset, roadmap.Snapshot{})
			ev := store.Event{Type: store.EventTaskDelete, TaskID: id, TaskName: current.Name}
			if err := s.Delete(ctx, c); err != nil {
				ev.Outcome = store.OutcomeFailed
				ev.Message = api.MessageOr(err, api.MsgDeleteFailed)
				app.logger.Error("delete task failed", zap.String("task_id", id), zap.Error(err))
				app.record(ctx, journal, ev, nil)
				return writeErr(cmd, repoError(err, "task", id, api.MsgDeleteFailed))
			}
			app.record(ctx, journal, ev, nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	return cmd
}

type fieldChange struct {
	field detail.Field
	value string
}

// parseSets turns repeated --set field=value flags into changes, in order.
func parseSets(sets []string) ([]fieldChange, error) {
	out := make([]fieldChange, 0, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q (expected field=value)", s)
		}
		f, err := detail.ParseField(k)
		if err != nil {
			return nil, err
		}
		out = append(out, fieldChange{field: f, value: v})
	}
	return out, nil
}

func hasArea(areas []model.Area, id string) bool {
	for _, a := range areas {
		if a.ID == strings.TrimSpace(id) {
			return true
		}
	}
	return false
}

func hasPhase(phases []model.Phase, id string) bool {
	for _, p := range phases {
		if p.ID == strings.TrimSpace(id) {
			return true
		}
	}
	return false
}
