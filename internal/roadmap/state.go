package roadmap

import (
	"strings"

	"roadmap-cli/internal/model"
)

// State is the aggregator as seen by the interactive app: which template is selected,
// the last good snapshot, and whether a fetch is outstanding.
//
// Each BeginLoad hands out a sequence number; results carrying an older number are
// dropped, so a slow response for a previous template never overwrites a newer one.
type State struct {
	Templates  []model.Template
	TemplateID string
	Snapshot   Snapshot

	Loading bool
	Err     error

	seq uint64
}

// ApplyTemplates records the template list. The first template becomes the selection
// only when nothing is selected yet; an existing selection is never re-evaluated.
// It reports whether the selection changed.
func (s *State) ApplyTemplates(templates []model.Template) bool {
	s.Templates = templates
	if strings.TrimSpace(s.TemplateID) != "" || len(templates) == 0 {
		return false
	}
	s.TemplateID = templates[0].ID
	return true
}

// Select switches to templateID. The previous snapshot is cleared.
func (s *State) Select(templateID string) bool {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" || templateID == s.TemplateID {
		return false
	}
	s.TemplateID = templateID
	s.Snapshot = Snapshot{}
	s.Err = nil
	return true
}

func (s *State) TemplateName() string {
	for _, t := range s.Templates {
		if t.ID == s.TemplateID {
			return t.Name
		}
	}
	return ""
}

// BeginLoad marks a fetch as outstanding and returns its sequence number.
func (s *State) BeginLoad() uint64 {
	s.seq++
	s.Loading = true
	s.Err = nil
	return s.seq
}

// TemplatesLoaded applies a template list fetched under seq. It reports whether the
// result was applied.
func (s *State) TemplatesLoaded(seq uint64, templates []model.Template) bool {
	if seq != s.seq {
		return false
	}
	s.Loading = false
	s.ApplyTemplates(templates)
	return true
}

// LoadSucceeded stores snap when seq is the latest load. It reports whether the result
// was applied.
func (s *State) LoadSucceeded(seq uint64, snap Snapshot) bool {
	if seq != s.seq || snap.TemplateID != s.TemplateID {
		return false
	}
	s.Snapshot = snap
	s.Loading = false
	s.Err = nil
	return true
}

// LoadFailed records err when seq is the latest load. The previous snapshot stays.
func (s *State) LoadFailed(seq uint64, err error) bool {
	if seq != s.seq {
		return false
	}
	s.Loading = false
	s.Err = err
	return true
}

// Remove drops taskID from the current snapshot ahead of the re-fetch that follows a
// delete.
func (s *State) Remove(taskID string) {
	s.Snapshot = s.Snapshot.Without(taskID)
}
