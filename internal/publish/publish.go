// Package publish writes a roadmap template as a tree of markdown files: an index with
// the area x phase board and one page per task.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"roadmap-cli/internal/roadmap"
)

type WriteOptions struct {
	TemplateName string
	Overwrite    bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTemplate writes toDir/templates/<id>/index.md and one tasks/<task-id>.md per task.
func WriteTemplate(snap roadmap.Snapshot, toDir string, opt WriteOptions) (WriteResult, error) {
	templateID := strings.TrimSpace(snap.TemplateID)
	if templateID == "" {
		return WriteResult{}, errors.New("missing template id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	templateDir := filepath.Join(toDir, "templates", templateID)
	tasksDir := filepath.Join(templateDir, "tasks")
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(templateDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(opt.TemplateName, snap)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first error.
	written := []string{indexPath}
	for _, t := range snap.Tasks {
		md, err := RenderTaskMarkdown(snap, t.ID)
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(tasksDir, t.ID+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
