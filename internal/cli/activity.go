package cli

import (
	"errors"
	"strings"

	"roadmap-cli/internal/store"

	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Local activity journal",
	}
	cmd.AddCommand(newActivityListCmd(app))
	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var (
		taskID string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded task mutations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.cfg.ActivityEnabled() {
				return writeErr(cmd, errors.New("activity journal is off (activity.path: off)"))
			}
			ctx := cmd.Context()
			j, err := store.Open(ctx, app.cfg.Activity.Path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			var events []store.Event
			if id := strings.TrimSpace(taskID); id != "" {
				events, err = j.ForTask(ctx, id, limit)
			} else {
				events, err = j.Recent(ctx, limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": events})
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "Only events of this task")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events (0 = all)")
	return cmd
}
