package format

import (
	"bytes"
	"strings"
	"testing"
)

type episodeRow struct {
	ID             string         `json:"id"`
	StructureBoard map[string]any `json:"structureBoard"`
	Count          int            `json:"count"`
}

type rows [][]string

func (r rows) TableHeader() []string { return []string{"ID", "TITLE"} }
func (r rows) TableRows() [][]string { return r }

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"a": 1}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{\"a\":1}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWriteEDN_Keywords(t *testing.T) {
	var buf bytes.Buffer
	v := episodeRow{ID: "e1", StructureBoard: map[string]any{"groups": []any{}}, Count: 3}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{:count 3 :id "e1" :structure-board {:groups []}}`
	if got != want {
		t.Fatalf("expected %s; got %s", want, got)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []int{1, 2}, "b": nil}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :a [\n    1\n    2\n  ]\n  :b nil\n}\n"
	if buf.String() != want {
		t.Fatalf("expected %q; got %q", want, buf.String())
	}
}

func TestEDNKeyword(t *testing.T) {
	cases := map[string]string{
		"id":             ":id",
		"projectId":      ":project-id",
		"lastEdited":     ":last-edited",
		"speaker name":   ":speaker-name",
		"speaker_ref":    ":speaker-ref",
		"structureBoard": ":structure-board",
	}
	for in, want := range cases {
		if got := ednKeyword(in); got != want {
			t.Fatalf("ednKeyword(%q): expected %q; got %q", in, want, got)
		}
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, rows{{"e1", "Pilot"}, {"e2"}}, "table", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Pilot") || !strings.Contains(out, "e2") || !strings.Contains(out, "╭") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestWriteTable_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []int{1}, "table", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "[1]\n" {
		t.Fatalf("expected json fallback; got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "yaml", false); err == nil {
		t.Fatalf("expected error")
	}
	if Valid("yaml") || !Valid("EDN") {
		t.Fatalf("unexpected Valid results")
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("expected buffer not to be a terminal")
	}
}
