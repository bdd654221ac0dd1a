package section

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notekit/chartparse/internal/note"
)

func TestSynonymTable_CanonicalHeaders(t *testing.T) {
	table := NewSynonymTable()
	tests := []struct {
		header string
		want   note.SectionKey
	}{
		{"Subjective", note.Subjective},
		{"OBJECTIVE", note.Objective},
		{"Assessment", note.Assessment},
		{"Plan", note.Plan},
		{"Review of Systems", note.ROS},
		{"Past Medical History", note.Background},
		{"Medications", note.Medications},
		{"Allergies", note.Allergies},
	}
	for _, tc := range tests {
		got, ok := table.Lookup(tc.header)
		if !ok {
			t.Errorf("Lookup(%q): no hit", tc.header)
			continue
		}
		if got != tc.want {
			t.Errorf("Lookup(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestSynonymTable_Abbreviations(t *testing.T) {
	table := NewSynonymTable()
	tests := []struct {
		header string
		want   note.SectionKey
	}{
		{"HPI", note.Subjective},
		{"hx/PE", note.Subjective},
		{"Imp", note.Assessment},
		{"A/P", note.Assessment},
		{"tx plan", note.Plan},
		{"ROS", note.ROS},
		{"PMH", note.Background},
		{"Meds", note.Medications},
		{"NKDA", note.Allergies},
		{"Drug Sensitivities", note.Allergies},
	}
	for _, tc := range tests {
		got, ok := table.Lookup(tc.header)
		if !ok {
			t.Errorf("Lookup(%q): no hit", tc.header)
			continue
		}
		if got != tc.want {
			t.Errorf("Lookup(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestSynonymTable_NormalizesDecoration(t *testing.T) {
	table := NewSynonymTable()
	for _, header := range []string{"Plan:", "  plan  ", "PLAN:", "Tx  Plan:"} {
		got, ok := table.Lookup(header)
		if !ok || got != note.Plan {
			t.Errorf("Lookup(%q) = %q, %v; want plan hit", header, got, ok)
		}
	}
}

func TestSynonymTable_Miss(t *testing.T) {
	table := NewSynonymTable()
	for _, header := range []string{"BP", "Lorem Ipsum", ""} {
		if _, ok := table.Lookup(header); ok {
			t.Errorf("Lookup(%q) should miss", header)
		}
	}
}

func TestLoadSynonymTable_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.yaml")
	content := "interval hx: subjective\ndispo: plan\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadSynonymTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := table.Lookup("Interval Hx")
	if !ok || got != note.Subjective {
		t.Errorf("overlay alias not resolved: %q, %v", got, ok)
	}
	got, ok = table.Lookup("dispo:")
	if !ok || got != note.Plan {
		t.Errorf("overlay alias not resolved: %q, %v", got, ok)
	}
	// Built-ins survive the merge.
	if _, ok := table.Lookup("HPI"); !ok {
		t.Error("built-in alias lost after overlay")
	}
}

func TestLoadSynonymTable_RejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.yaml")
	if err := os.WriteFile(path, []byte("foo: nonsense\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSynonymTable(path); err == nil {
		t.Error("expected error for unknown canonical key")
	}
}

func TestLoadSynonymTable_EmptyPath(t *testing.T) {
	table, err := LoadSynonymTable("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() == 0 {
		t.Error("expected built-in aliases")
	}
}
