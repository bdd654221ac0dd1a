package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/notekit/chartparse/internal/entity"
	"github.com/notekit/chartparse/internal/note"
	"github.com/notekit/chartparse/internal/section"
)

const cleanNote = `Chief Complaint: Chest pain for two days.

HPI: The patient is a 72 year old male with hypertension who reports intermittent chest pain.

Objective:
BP: 145/92
HR: 88
RR: 18
Temp: 98.6

Assessment:
1. Hypertension, poorly controlled
2. Stable angina

Plan:
- Start atorvastatin 40mg
- Follow up in 2 weeks`

const messyNote = `hx/PE: 58 yo F presents with worsening cough. BP 138/85 P 92 on arrival.
Imp: likely viral bronchitis
tx plan: supportive care, rest, fluids`

func newTestParser(t *testing.T, opts Options) *Parser {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewParser(section.NewSynonymTable(), entity.NewLexicon(), log, opts)
}

func TestParse_CleanNote(t *testing.T) {
	p := newTestParser(t, DefaultOptions())
	result := p.Parse(context.Background(), cleanNote)

	for _, key := range note.CoreSections {
		if !result.Sections.Has(key) {
			t.Errorf("expected section %q to be present", key)
		}
	}
	if result.Demographics.Age == nil || *result.Demographics.Age != 72 {
		t.Errorf("age: got %v, want 72", result.Demographics.Age)
	}
	if result.Demographics.Gender != "male" {
		t.Errorf("gender: got %q, want male", result.Demographics.Gender)
	}
	if result.Vitals.BP == nil || *result.Vitals.BP != "145/92" {
		t.Errorf("bp: got %v, want 145/92", result.Vitals.BP)
	}
	if result.Vitals.HR == nil || *result.Vitals.HR != 88 {
		t.Errorf("hr: got %v, want 88", result.Vitals.HR)
	}
	if len(result.Diagnoses) != 2 {
		t.Errorf("diagnoses: got %v, want 2 items", result.Diagnoses)
	}
	if len(result.Medications) == 0 {
		t.Errorf("expected the planned medication to be picked up, got none")
	}
	if result.Confidence <= 0.6 {
		t.Errorf("confidence: got %v, want > 0.6", result.Confidence)
	}
}

func TestParse_MessyAbbreviatedNote(t *testing.T) {
	p := newTestParser(t, DefaultOptions())
	result := p.Parse(context.Background(), messyNote)

	for _, key := range []note.SectionKey{note.Subjective, note.Assessment, note.Plan} {
		if !result.Sections.Has(key) {
			t.Errorf("expected abbreviated header to resolve to %q", key)
		}
	}
	if result.Demographics.Age == nil || *result.Demographics.Age != 58 {
		t.Errorf("age: got %v, want 58", result.Demographics.Age)
	}
	if result.Demographics.Gender != "female" {
		t.Errorf("gender: got %q, want female", result.Demographics.Gender)
	}
	if result.Vitals.BP == nil || *result.Vitals.BP != "138/85" {
		t.Errorf("bp: got %v, want 138/85", result.Vitals.BP)
	}

	clean := p.Parse(context.Background(), cleanNote)
	if result.Confidence <= 0.3 {
		t.Errorf("confidence: got %v, want > 0.3", result.Confidence)
	}
	if result.Confidence >= clean.Confidence {
		t.Errorf("messy note (%v) should score below the clean note (%v)", result.Confidence, clean.Confidence)
	}
}

func TestParse_MissingPlanSection(t *testing.T) {
	noteText := `Subjective: Patient doing well on current regimen.
Objective: BP: 120/80
Assessment: Hypertension, controlled.`

	p := newTestParser(t, DefaultOptions())
	result := p.Parse(context.Background(), noteText)

	if result.Sections.Has(note.Plan) {
		t.Error("plan section should be absent, not fabricated")
	}
	for _, key := range []note.SectionKey{note.Subjective, note.Objective, note.Assessment} {
		if !result.Sections.Has(key) {
			t.Errorf("expected section %q to be present", key)
		}
	}
}

func TestParse_RepeatedContentStaysBoundedAndDeduplicated(t *testing.T) {
	block := `Subjective: Patient reports ongoing fatigue and insomnia.
Medications: metformin, lisinopril
Assessment: hypertension
`
	huge := strings.Repeat(block, 5000)

	p := newTestParser(t, DefaultOptions())

	start := time.Now()
	result := p.Parse(context.Background(), huge)
	elapsed := time.Since(start)

	if elapsed > 10*time.Second {
		t.Fatalf("parse took %v, expected the time budget to bound it", elapsed)
	}
	if len(result.Medications) > 2 {
		t.Errorf("repeated medications should deduplicate, got %d items", len(result.Medications))
	}
	if len(result.Diagnoses) > 1 {
		t.Errorf("repeated diagnoses should deduplicate, got %d items", len(result.Diagnoses))
	}
}

func TestParse_EmptyInput(t *testing.T) {
	p := newTestParser(t, DefaultOptions())
	result := p.Parse(context.Background(), "")

	if result.Sections.Len() != 0 {
		t.Errorf("expected no sections, got %v", result.Sections.Keys())
	}
	if result.Confidence != 0 {
		t.Errorf("confidence: got %v, want 0", result.Confidence)
	}
	if result.Warnings == nil {
		t.Error("warnings should serialize as [], not null")
	}
}

func TestParse_BinaryGarbageNeverPanics(t *testing.T) {
	garbage := strings.Repeat("\x00\x01\x02\xff\xfe\x80garbled\x07", 512)

	p := newTestParser(t, DefaultOptions())
	result := p.Parse(context.Background(), garbage)

	if result.Confidence >= 0.3 {
		t.Errorf("garbage should score low, got %v", result.Confidence)
	}
}

func TestParse_CancelledContextTruncates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestParser(t, DefaultOptions())
	result := p.Parse(ctx, cleanNote)

	if !WasTruncated(result) {
		t.Errorf("expected a truncation warning, got %v", result.Warnings)
	}
}

func TestParse_BareNKDALineUnderAllergiesHeader(t *testing.T) {
	noteText := `Subjective: Routine follow up, no new complaints.

Allergies:
NKDA

Plan:
- Continue current regimen`

	p := newTestParser(t, DefaultOptions())
	result := p.Parse(context.Background(), noteText)

	if len(result.Allergies) != 1 || result.Allergies[0] != note.NKDA {
		t.Errorf("allergies: got %v, want [%s]", result.Allergies, note.NKDA)
	}
}

func TestParse_SparseNoteMarshalsEmptyLists(t *testing.T) {
	p := newTestParser(t, DefaultOptions())
	result := p.Parse(context.Background(), "Subjective: feeling fine today.")

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, field := range []string{`"medications":[]`, `"allergies":[]`, `"diagnoses":[]`, `"warnings":[]`} {
		if !strings.Contains(body, field) {
			t.Errorf("expected %s in %s", field, body)
		}
	}
}
