package model

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTaskInput_NullFieldsEncodeAsNull(t *testing.T) {
	in := TaskInput{Name: "Write brief", AreaID: NullableString("A1"), PhaseID: NullableString("P1")}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"planned_start":null`, `"fore_act_finish":null`, `"area_id":"A1"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in payload, got %s", want, s)
		}
	}
	if strings.Contains(s, `"planned_start":""`) {
		t.Fatalf("blank date must not be sent as empty string: %s", s)
	}
}

func TestParsePct(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: " 25 ", want: 25},
		{in: "12.5%", want: 12.5},
		{in: "abc", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParsePct(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePct(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePct(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePct(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
	if got := FormatPct(40); got != "40" {
		t.Fatalf("FormatPct(40)=%q", got)
	}
}

func TestInputFromTask_RoundTripsNullables(t *testing.T) {
	start := "2025-04-01"
	task := Task{ID: "t1", Name: "n", PlannedStart: &start, PctWeight: 10}
	in := InputFromTask(task)
	if in.PlannedStart == nil || *in.PlannedStart != start {
		t.Fatalf("expected planned start carried over, got %v", in.PlannedStart)
	}
	if in.PlannedFinish != nil || in.AreaID != nil {
		t.Fatalf("expected absent fields to stay nil")
	}
	if HumanizeEnum(string(StatusNotStarted)) != "Not started" {
		t.Fatalf("unexpected humanized status")
	}
}

func TestHumanizeEnum(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"on_hold", "On hold"},
		{" completed ", "Completed"},
		{"élevé_priorité", "Élevé priorité"},
		{"über_fällig", "Über fällig"},
	}
	for _, tc := range cases {
		got := HumanizeEnum(tc.in)
		if got != tc.want {
			t.Fatalf("HumanizeEnum(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("HumanizeEnum(%q) produced invalid UTF-8", tc.in)
		}
	}
}
