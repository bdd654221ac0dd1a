package score

import (
	"math"
	"testing"

	"github.com/notekit/chartparse/internal/note"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompleteness_EmptyNote(t *testing.T) {
	n := &note.ParsedNote{Sections: note.NewSectionMap()}
	if got := Completeness(n); got != 0 {
		t.Errorf("empty note: got %v, want 0", got)
	}
}

func TestCompleteness_CoreSectionsDominate(t *testing.T) {
	n := &note.ParsedNote{Sections: note.NewSectionMap()}
	n.Sections.Append(note.Subjective, "text")
	n.Sections.Append(note.Objective, "text")
	n.Sections.Append(note.Assessment, "text")
	n.Sections.Append(note.Plan, "text")

	if got := Completeness(n); !approxEqual(got, 0.6) {
		t.Errorf("four core sections: got %v, want 0.6", got)
	}
}

func TestCompleteness_NonCoreSectionsDoNotScore(t *testing.T) {
	n := &note.ParsedNote{Sections: note.NewSectionMap()}
	n.Sections.Append(note.ROS, "text")
	n.Sections.Append(note.Unclassified, "text")

	if got := Completeness(n); got != 0 {
		t.Errorf("non-core sections: got %v, want 0", got)
	}
}

func TestCompleteness_Monotonic(t *testing.T) {
	hr := 80
	age := 60

	n := &note.ParsedNote{Sections: note.NewSectionMap()}
	prev := Completeness(n)

	steps := []func(){
		func() { n.Sections.Append(note.Subjective, "text") },
		func() { n.Sections.Append(note.Plan, "text") },
		func() { n.Vitals.HR = &hr },
		func() { n.Medications = []string{"metformin"} },
		func() { n.Diagnoses = []string{"hypertension"} },
		func() { n.Allergies = []string{note.NKDA} },
		func() { n.Demographics.Age = &age },
	}
	for i, add := range steps {
		add()
		got := Completeness(n)
		if got <= prev {
			t.Fatalf("step %d: score %v did not increase from %v", i, got, prev)
		}
		prev = got
	}
}

func TestCompleteness_ClampedToOne(t *testing.T) {
	hr := 80
	age := 60

	n := &note.ParsedNote{
		Sections:     note.NewSectionMap(),
		Medications:  []string{"metformin"},
		Diagnoses:    []string{"hypertension"},
		Allergies:    []string{note.NKDA},
		Demographics: note.Demographics{Age: &age, Gender: "female"},
	}
	n.Vitals.HR = &hr
	for _, key := range note.CoreSections {
		n.Sections.Append(key, "text")
	}
	n.Sections.Append(note.ROS, "text")

	if got := Completeness(n); got != 1 {
		t.Errorf("fully populated note: got %v, want exactly 1", got)
	}
}

func TestCompleteness_NKDAStillCountsAsAllergyEvidence(t *testing.T) {
	base := &note.ParsedNote{Sections: note.NewSectionMap()}
	withNKDA := &note.ParsedNote{
		Sections:  note.NewSectionMap(),
		Allergies: []string{note.NKDA},
	}
	if Completeness(withNKDA) <= Completeness(base) {
		t.Error("recorded NKDA should raise the score over no allergy data")
	}
}

func TestCompleteness_UnknownGenderDoesNotScore(t *testing.T) {
	n := &note.ParsedNote{
		Sections:     note.NewSectionMap(),
		Demographics: note.Demographics{Gender: "unknown"},
	}
	if got := Completeness(n); got != 0 {
		t.Errorf("unknown gender: got %v, want 0", got)
	}
}
