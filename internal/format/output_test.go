package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWrite_JSONAndYAMLUseWireNames(t *testing.T) {
	v := map[string]any{"data": []map[string]any{{"cuid": "t1", "area_id": nil}}}

	var js bytes.Buffer
	if err := Write(&js, v, "json", false); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := strings.TrimSpace(js.String()); got != `{"data":[{"area_id":null,"cuid":"t1"}]}` {
		t.Fatalf("unexpected json: %s", got)
	}

	var ym bytes.Buffer
	if err := Write(&ym, v, "yaml", false); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(ym.String(), "cuid: t1") {
		t.Fatalf("unexpected yaml: %s", ym.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
