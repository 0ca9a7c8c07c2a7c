// Package cli is the roadmap command line: the interactive board when run without
// arguments, scriptable JSON/YAML commands otherwise.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/config"
	"roadmap-cli/internal/detail"
	"roadmap-cli/internal/format"
	"roadmap-cli/internal/logging"
	"roadmap-cli/internal/store"
	"roadmap-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	BaseURL    string
	PrettyJSON bool
	Format     string

	cfg           *config.Config
	logger        *zap.Logger
	closeLogger   func()
	templateForUI string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "roadmap",
		Short:        "Roadmap board (TUI) and task CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  roadmap

  # Scriptable commands
  roadmap templates list
  roadmap tasks list --area <area-id>
  roadmap tasks update <task-id> --set status=completed --set pct_complete=100

  # Local in-memory API for trying things out
  roadmap dev-server --addr :8787
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("ROADMAP_CONFIG", ""), "Path to config.yaml (default: ~/.roadmap/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Repository base URL (overrides api.base_url)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ROADMAP_FORMAT", "json"), "Output format (json|yaml)")
	cmd.Flags().StringVar(&app.templateForUI, "template", "", "Template to open (default: the first one)")

	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newAreasCmd(app))
	cmd.AddCommand(newPhasesCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newActivityCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDevServerCmd(app))

	return cmd
}

// init loads the config and opens the log file. Flags win over the file and the
// environment.
func (app *App) init() error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(app.BaseURL); v != "" {
		cfg.API.BaseURL = v
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, closeLogger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.logger = logger
	app.closeLogger = closeLogger
	return nil
}

func (app *App) close() {
	if app.closeLogger != nil {
		app.closeLogger()
		app.closeLogger = nil
	}
}

func (app *App) client() (*api.Client, error) {
	return api.New(api.Options{
		BaseURL: app.cfg.API.BaseURL,
		Token:   app.cfg.API.Token,
		Timeout: app.cfg.API.Timeout,
		Logger:  app.logger,
	})
}

// callContext bounds one repository call by api.timeout.
func (app *App) callContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), app.cfg.API.Timeout)
}

// openJournal returns nil when the journal is off or cannot be opened; the failure is
// logged and the command carries on without history.
func (app *App) openJournal(ctx context.Context) *store.Journal {
	if !app.cfg.ActivityEnabled() {
		return nil
	}
	j, err := store.Open(ctx, app.cfg.Activity.Path)
	if err != nil {
		app.logger.Warn("open activity journal failed", zap.String("path", app.cfg.Activity.Path), zap.Error(err))
		return nil
	}
	return j
}

func (app *App) record(ctx context.Context, j *store.Journal, ev store.Event, payload any) {
	if _, err := j.Record(ctx, ev, payload); err != nil {
		app.logger.Warn("record activity failed", zap.String("type", string(ev.Type)), zap.String("task_id", ev.TaskID), zap.Error(err))
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	c, err := app.client()
	if err != nil {
		return err
	}
	placeholders, err := detail.ParsePlaceholder(app.cfg.Detail.Placeholders)
	if err != nil {
		return err
	}
	journal := app.openJournal(cmd.Context())
	defer journal.Close()

	app.logger.Info("starting tui", zap.String("base_url", app.cfg.API.BaseURL))
	return tui.Run(tui.Options{
		Repo:         c,
		Journal:      journal,
		Logger:       app.logger,
		Timeout:      app.cfg.API.Timeout,
		Placeholders: placeholders,
		Theme:        app.cfg.TUI.Theme,
		TemplateID:   app.templateForUI,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
