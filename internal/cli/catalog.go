package cli

import (
	"context"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/roadmap"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Roadmap template commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List roadmap templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := app.callContext(cmd)
			defer cancel()
			templates, err := c.ListTemplates(ctx)
			if err != nil {
				return writeErr(cmd, repoError(err, "", "", api.MsgLoadFailed))
			}
			return writeOut(cmd, app, map[string]any{"data": templates})
		},
	})
	return cmd
}

func newAreasCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "areas",
		Short: "Area commands",
	}
	cmd.AddCommand(newCatalogListCmd(app, "List the areas of a template",
		func(ctx context.Context, c *api.Client, templateID string) (any, error) {
			return c.ListAreas(ctx, templateID)
		}))
	return cmd
}

func newPhasesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phases",
		Short: "Phase commands",
	}
	cmd.AddCommand(newCatalogListCmd(app, "List the phases of a template",
		func(ctx context.Context, c *api.Client, templateID string) (any, error) {
			return c.ListPhases(ctx, templateID)
		}))
	return cmd
}

func newCatalogListCmd(app *App, short string, list func(context.Context, *api.Client, string) (any, error)) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
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
			out, err := list(ctx, c, tid)
			if err != nil {
				return writeErr(cmd, repoError(err, "template", tid, api.MsgLoadFailed))
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&templateID, "template", "", "Template id (default: the first template)")
	return cmd
}

// resolveTemplate applies the default-selection policy when --template is omitted.
func resolveTemplate(ctx context.Context, src roadmap.Source, explicit string) (string, error) {
	tid, err := roadmap.DefaultTemplate(ctx, src, explicit)
	if err != nil {
		return "", repoError(err, "", "", api.MsgLoadFailed)
	}
	return tid, nil
}
