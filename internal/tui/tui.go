// Package tui is the interactive roadmap board: phase columns, area sections, the task
// detail panel and the creation side panel.
package tui

import (
	"time"

	"roadmap-cli/internal/detail"
	"roadmap-cli/internal/roadmap"
	"roadmap-cli/internal/store"
	"roadmap-cli/internal/taskform"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Repository is everything the board needs from the remote task repository.
// *api.Client implements it.
type Repository interface {
	roadmap.Source
	taskform.Creator
	detail.Updater
	detail.Deleter
}

type Options struct {
	Repo Repository
	// Journal may be nil (activity journal off).
	Journal *store.Journal
	Logger  *zap.Logger
	// Timeout bounds every repository call. Zero means 30s.
	Timeout time.Duration

	Placeholders detail.Placeholder
	// Theme is light, dark or auto.
	Theme string
	// TemplateID preselects a template; empty picks the first one.
	TemplateID string
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
