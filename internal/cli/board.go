package cli

import (
	"roadmap-cli/internal/api"
	"roadmap-cli/internal/roadmap"

	"github.com/spf13/cobra"
)

type boardPhase struct {
	ID    string `json:"cuid"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type boardCell struct {
	PhaseID string   `json:"phase_id"`
	TaskIDs []string `json:"task_ids"`
}

type boardArea struct {
	ID    string      `json:"cuid"`
	Name  string      `json:"name"`
	Total int         `json:"total"`
	Cells []boardCell `json:"cells"`
}

type boardOut struct {
	TemplateID string       `json:"template_id"`
	Phases     []boardPhase `json:"phases"`
	Areas      []boardArea  `json:"areas"`
	Unplaced   []string     `json:"unplaced"`
}

func newBoardCmd(app *App) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the area x phase board of a template",
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
			snap, err := roadmap.Fetch(ctx, c, tid)
			if err != nil {
				return writeErr(cmd, repoError(err, "template", tid, api.MsgLoadFailed))
			}
			return writeOut(cmd, app, map[string]any{"data": boardFrom(roadmap.BuildBoard(snap), tid)})
		},
	}
	cmd.Flags().StringVar(&templateID, "template", "", "Template id (default: the first template)")
	return cmd
}

func boardFrom(b roadmap.Board, templateID string) boardOut {
	out := boardOut{
		TemplateID: templateID,
		Phases:     make([]boardPhase, 0, len(b.Columns)),
		Areas:      make([]boardArea, 0, len(b.Sections)),
		Unplaced:   make([]string, 0, len(b.Unplaced)),
	}
	for _, col := range b.Columns {
		out.Phases = append(out.Phases, boardPhase{ID: col.Phase.ID, Name: col.Phase.Name, Count: col.Count})
	}
	for _, sec := range b.Sections {
		a := boardArea{ID: sec.Area.ID, Name: sec.Area.Name, Total: sec.Total, Cells: make([]boardCell, 0, len(sec.Cells))}
		for i, cell := range sec.Cells {
			ids := make([]string, 0, len(cell.Tasks))
			for _, t := range cell.Tasks {
				ids = append(ids, t.ID)
			}
			a.Cells = append(a.Cells, boardCell{PhaseID: b.Columns[i].Phase.ID, TaskIDs: ids})
		}
		out.Areas = append(out.Areas, a)
	}
	for _, t := range b.Unplaced {
		out.Unplaced = append(out.Unplaced, t.ID)
	}
	return out
}
