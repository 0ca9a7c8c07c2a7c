package detail

import (
	"testing"

	"roadmap-cli/internal/model"
)

func fieldByKey(t *testing.T, views []FieldView, key Field) FieldView {
	t.Helper()
	for _, fv := range views {
		if fv.FieldKey() == key {
			return fv
		}
	}
	t.Fatalf("field %s not found", key)
	return nil
}

func TestFields_DisplayResolvesNamesAndMarksUnset(t *testing.T) {
	s := New(sampleTask(), PlaceholderUnset, names{})
	views := s.Fields()

	if len(views) != len(AllFields()) {
		t.Fatalf("expected %d fields, got %d", len(AllFields()), len(views))
	}

	area := fieldByKey(t, views, FieldArea).(Display)
	if area.Text != "Frontend" {
		t.Fatalf("expected area name, got %q", area.Text)
	}
	status := fieldByKey(t, views, FieldStatus).(Display)
	if status.Text != "In progress" {
		t.Fatalf("expected humanized status, got %q", status.Text)
	}
	outcome := fieldByKey(t, views, FieldOutcome).(Display)
	if !outcome.Unset || outcome.Text != "" {
		t.Fatalf("expected outcome unset, got %+v", outcome)
	}
	pct := fieldByKey(t, views, FieldPctComplete).(Display)
	if pct.Text != "42.5%" {
		t.Fatalf("expected 42.5%%, got %q", pct.Text)
	}
}

func TestFields_EditableWritesThroughToBuffer(t *testing.T) {
	s := New(sampleTask(), PlaceholderUnset, nil)
	_ = s.Edit()

	ed, ok := fieldByKey(t, s.Fields(), FieldOutcome).(Editable)
	if !ok {
		t.Fatalf("expected Editable while editing")
	}
	if err := ed.OnChange("Shipped"); err != nil {
		t.Fatalf("on change: %v", err)
	}
	if s.Value(FieldOutcome) != "Shipped" {
		t.Fatalf("expected buffer updated, got %q", s.Value(FieldOutcome))
	}
	if s.Task().Outcome != "" {
		t.Fatalf("task must not change before save")
	}
}

func TestSeed_DemoPlaceholders(t *testing.T) {
	v := Seed(model.Task{ID: "t", Name: "Bare"}, PlaceholderDemo)
	if v[FieldResponsible] != "John Doe the Second" {
		t.Fatalf("expected demo responsible, got %q", v[FieldResponsible])
	}
	if v[FieldPlannedStart] != "1 January 2024" || v[FieldPlannedFinish] != "19 October 2025" {
		t.Fatalf("unexpected demo dates: %q %q", v[FieldPlannedStart], v[FieldPlannedFinish])
	}
	if v[FieldName] != "Bare" {
		t.Fatalf("present fields must be kept, got %q", v[FieldName])
	}

	plain := Seed(model.Task{ID: "t", Name: "Bare"}, PlaceholderUnset)
	if plain[FieldResponsible] != "" || plain[FieldPlannedStart] != "" {
		t.Fatalf("unset policy must not invent values")
	}
}

func TestParsePlaceholderAndField(t *testing.T) {
	for in, want := range map[string]Placeholder{"": PlaceholderUnset, "unset": PlaceholderUnset, "Demo": PlaceholderDemo} {
		got, err := ParsePlaceholder(in)
		if err != nil || got != want {
			t.Fatalf("ParsePlaceholder(%q)=%v,%v", in, got, err)
		}
	}
	if _, err := ParsePlaceholder("loud"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}

	if f, err := ParseField("area_id"); err != nil || f != FieldArea {
		t.Fatalf("expected area alias, got %q %v", f, err)
	}
	if _, err := ParseField("project"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
