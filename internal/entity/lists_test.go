package entity

import (
	"reflect"
	"testing"
)

func TestMedicationList_Bullets(t *testing.T) {
	lex := NewLexicon()
	text := `- Lisinopril 10mg daily
- Metformin 500mg BID
- Atorvastatin 40mg qhs`

	got := MedicationList(text, lex)
	want := []string{"Lisinopril 10mg daily", "Metformin 500mg BID", "Atorvastatin 40mg qhs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMedicationList_NumberedList(t *testing.T) {
	lex := NewLexicon()
	text := `1. Warfarin 5mg
2. Aspirin 81mg
3) Omeprazole 20mg`

	got := MedicationList(text, lex)
	want := []string{"Warfarin 5mg", "Aspirin 81mg", "Omeprazole 20mg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMedicationList_CommaShorthand(t *testing.T) {
	lex := NewLexicon()
	got := MedicationList("lisinopril 10mg, metformin 500mg BID, ASA 81mg", lex)
	want := []string{"lisinopril 10mg", "metformin 500mg BID", "ASA 81mg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMedicationList_ProseLineNotSplitOnCommas(t *testing.T) {
	lex := NewLexicon()
	// A review-of-systems sentence must not become three "medications".
	got := MedicationList("Patient denies fever, chills, and cough at this time.", lex)
	if len(got) != 0 {
		t.Errorf("prose should yield nothing, got %v", got)
	}
}

func TestMedicationList_VocabularyFallback(t *testing.T) {
	lex := NewLexicon()
	got := MedicationList("Continues home metformin and was started on lisinopril last month.", lex)
	// No list structure at all, so the vocabulary scan runs.
	want := []string{"metformin", "lisinopril"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMedicationList_DuplicatesCollapse(t *testing.T) {
	lex := NewLexicon()
	text := `- Metformin 500mg
- metformin 500mg
- Lisinopril 10mg`

	got := MedicationList(text, lex)
	want := []string{"Metformin 500mg", "Lisinopril 10mg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiagnosisList_Bullets(t *testing.T) {
	lex := NewLexicon()
	text := `1. Hypertension, poorly controlled.
2. Type 2 diabetes mellitus`

	got := DiagnosisList(text, lex)
	want := []string{"Hypertension, poorly controlled", "Type 2 diabetes mellitus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiagnosisList_VocabularyPrefersSpecificTerm(t *testing.T) {
	lex := NewLexicon()
	got := DiagnosisList("Long history of diabetes mellitus with neuropathy.", lex)
	want := []string{"diabetes mellitus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestListItems_EmptyInput(t *testing.T) {
	lex := NewLexicon()
	if got := MedicationList("", lex); len(got) != 0 {
		t.Errorf("empty input should yield nothing, got %v", got)
	}
	if got := DiagnosisList("   \n  ", lex); len(got) != 0 {
		t.Errorf("blank input should yield nothing, got %v", got)
	}
}
