package cli

import (
	"errors"
	"fmt"
	"time"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/gitrepo"
	"roadmap-cli/internal/publish"
	"roadmap-cli/internal/roadmap"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		templateID string
		to         string
		overwrite  bool
		commit     bool
		message    string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write a template's board and tasks as markdown files",
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
			var st roadmap.State
			st.ApplyTemplates(templates)
			st.Select(templateID)
			if st.TemplateID == "" {
				return writeErr(cmd, errors.New("no roadmap templates"))
			}

			snap, err := roadmap.Fetch(ctx, c, st.TemplateID)
			if err != nil {
				return writeErr(cmd, repoError(err, "template", st.TemplateID, api.MsgLoadFailed))
			}
			res, err := publish.WriteTemplate(snap, to, publish.WriteOptions{
				TemplateName: st.TemplateName(),
				Overwrite:    overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			out := publishOut{WriteResult: res}
			if commit {
				msg := message
				if msg == "" {
					msg = fmt.Sprintf("roadmap: publish %s (%s)", st.TemplateName(), time.Now().UTC().Format(time.DateOnly))
				}
				out.Committed, err = gitrepo.CommitPaths(cmd.Context(), to, res.Written, msg)
				if errors.Is(err, gitrepo.ErrNotRepo) {
					return writeErr(cmd, fmt.Errorf("--commit: %s is %w", to, err))
				}
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Template id (default: the first template)")
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the written files when --to is inside a git repository")
	cmd.Flags().StringVar(&message, "message", "", "Commit message for --commit")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

type publishOut struct {
	publish.WriteResult
	Committed bool `json:"committed"`
}
