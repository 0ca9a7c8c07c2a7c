package roadmap

import (
	"context"
	"fmt"
	"strings"

	"roadmap-cli/internal/model"

	"golang.org/x/sync/errgroup"
)

// Source is the read side of the task repository. *api.Client implements it.
type Source interface {
	ListTemplates(ctx context.Context) ([]model.Template, error)
	ListAreas(ctx context.Context, templateID string) ([]model.Area, error)
	ListPhases(ctx context.Context, templateID string) ([]model.Phase, error)
	ListTasks(ctx context.Context, templateID string) ([]model.Task, error)
}

// Fetch loads the three collections of templateID concurrently. Any failure fails the
// whole fetch; a partial snapshot is never returned.
func Fetch(ctx context.Context, src Source, templateID string) (Snapshot, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return Snapshot{}, fmt.Errorf("missing template id")
	}

	snap := Snapshot{TemplateID: templateID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		areas, err := src.ListAreas(gctx, templateID)
		if err != nil {
			return fmt.Errorf("list areas: %w", err)
		}
		snap.Areas = areas
		return nil
	})
	g.Go(func() error {
		phases, err := src.ListPhases(gctx, templateID)
		if err != nil {
			return fmt.Errorf("list phases: %w", err)
		}
		snap.Phases = phases
		return nil
	})
	g.Go(func() error {
		tasks, err := src.ListTasks(gctx, templateID)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		snap.Tasks = tasks
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	if snap.Areas == nil {
		snap.Areas = []model.Area{}
	}
	if snap.Phases == nil {
		snap.Phases = []model.Phase{}
	}
	if snap.Tasks == nil {
		snap.Tasks = []model.Task{}
	}
	return snap, nil
}

// DefaultTemplate applies the default-selection policy: the explicit id when given,
// otherwise the first template the repository returns.
func DefaultTemplate(ctx context.Context, src Source, explicit string) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return id, nil
	}
	templates, err := src.ListTemplates(ctx)
	if err != nil {
		return "", fmt.Errorf("list templates: %w", err)
	}
	if len(templates) == 0 {
		return "", fmt.Errorf("no roadmap templates")
	}
	return templates[0].ID, nil
}
