package detail

import (
	"strings"

	"roadmap-cli/internal/model"
)

// FieldView is how one field is presented: Display while viewing, Editable while
// editing. Renderers switch on the concrete type.
type FieldView interface {
	FieldKey() Field
	isFieldView()
}

// Display is a read-only field. Unset marks a field with no value.
type Display struct {
	Key       Field
	Label     string
	Group     string
	Text      string
	Unset     bool
	Multiline bool
}

// Editable is an input bound to the session's buffer.
type Editable struct {
	Key       Field
	Label     string
	Group     string
	Text      string
	Multiline bool
	OnChange  func(value string) error
}

func (d Display) FieldKey() Field  { return d.Key }
func (e Editable) FieldKey() Field { return e.Key }
func (Display) isFieldView()       {}
func (Editable) isFieldView()      {}

// Fields returns one view per field, in display order, chosen by the current mode.
func (s *Session) Fields() []FieldView {
	out := make([]FieldView, 0, len(fieldSpecs))
	for _, fs := range fieldSpecs {
		if s.mode == Editing {
			key := fs.field
			out = append(out, Editable{
				Key:       key,
				Label:     fs.label,
				Group:     fs.group,
				Text:      s.buffer[key],
				Multiline: fs.multiline,
				OnChange:  func(v string) error { return s.Set(key, v) },
			})
			continue
		}
		raw := s.view[fs.field]
		out = append(out, Display{
			Key:       fs.field,
			Label:     fs.label,
			Group:     fs.group,
			Text:      s.displayText(fs.field, raw),
			Unset:     strings.TrimSpace(raw) == "",
			Multiline: fs.multiline,
		})
	}
	return out
}

func (s *Session) displayText(f Field, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch f {
	case FieldArea:
		if s.names != nil {
			if n := s.names.AreaName(raw); n != "" {
				return n
			}
		}
	case FieldPhase:
		if s.names != nil {
			if n := s.names.PhaseName(raw); n != "" {
				return n
			}
		}
	case FieldStatus, FieldState:
		return model.HumanizeEnum(raw)
	case FieldOptional:
		if raw == "true" {
			return "Yes"
		}
		return "No"
	case FieldPctWeight, FieldPctComplete:
		return raw + "%"
	}
	return raw
}
