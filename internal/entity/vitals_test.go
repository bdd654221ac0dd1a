package entity

import "testing"

func TestVitals_LabeledStyle(t *testing.T) {
	text := `BP: 145/92
HR: 88
RR: 18
Temp: 98.6
SpO2: 97%`

	v := Vitals(text)

	if v.BP == nil || *v.BP != "145/92" {
		t.Errorf("bp: got %v, want 145/92", v.BP)
	}
	if v.HR == nil || *v.HR != 88 {
		t.Errorf("hr: got %v, want 88", v.HR)
	}
	if v.RR == nil || *v.RR != 18 {
		t.Errorf("rr: got %v, want 18", v.RR)
	}
	if v.Temp == nil || *v.Temp != 98.6 {
		t.Errorf("temp: got %v, want 98.6", v.Temp)
	}
	if v.SpO2 == nil || *v.SpO2 != 97 {
		t.Errorf("spo2: got %v, want 97", v.SpO2)
	}
}

func TestVitals_NarrativeStyle(t *testing.T) {
	text := "Blood pressure today is 128/82 and the pulse was 76. " +
		"Temperature 99.1, oxygen saturation 95%."

	v := Vitals(text)

	if v.BP == nil || *v.BP != "128/82" {
		t.Errorf("bp: got %v, want 128/82", v.BP)
	}
	if v.HR == nil || *v.HR != 76 {
		t.Errorf("hr: got %v, want 76", v.HR)
	}
	if v.Temp == nil || *v.Temp != 99.1 {
		t.Errorf("temp: got %v, want 99.1", v.Temp)
	}
	if v.SpO2 == nil || *v.SpO2 != 95 {
		t.Errorf("spo2: got %v, want 95", v.SpO2)
	}
}

func TestVitals_ShorthandStyle(t *testing.T) {
	text := "BP 138/85 P 92 R 16 T 98.2 O2 96%"

	v := Vitals(text)

	if v.BP == nil || *v.BP != "138/85" {
		t.Errorf("bp: got %v, want 138/85", v.BP)
	}
	if v.HR == nil || *v.HR != 92 {
		t.Errorf("hr: got %v, want 92", v.HR)
	}
	if v.RR == nil || *v.RR != 16 {
		t.Errorf("rr: got %v, want 16", v.RR)
	}
	if v.Temp == nil || *v.Temp != 98.2 {
		t.Errorf("temp: got %v, want 98.2", v.Temp)
	}
	if v.SpO2 == nil || *v.SpO2 != 96 {
		t.Errorf("spo2: got %v, want 96", v.SpO2)
	}
}

func TestVitals_BPKeptAsLiteralString(t *testing.T) {
	v := Vitals("BP: 145 / 92")
	if v.BP == nil || *v.BP != "145/92" {
		t.Errorf("spaced reading should compact to 145/92, got %v", v.BP)
	}
}

func TestVitals_FirstReadingWins(t *testing.T) {
	v := Vitals("BP: 145/92 ... repeat BP: 150/95")
	if v.BP == nil || *v.BP != "145/92" {
		t.Errorf("first reading should win, got %v", v.BP)
	}
}

func TestVitals_ImplausibleValuesDiscarded(t *testing.T) {
	v := Vitals("HR: 999 RR: 99 SpO2: 200% Temp: 150")
	if v.HR != nil {
		t.Errorf("hr 999 should be discarded, got %d", *v.HR)
	}
	if v.RR != nil {
		t.Errorf("rr 99 should be discarded, got %d", *v.RR)
	}
	if v.SpO2 != nil {
		t.Errorf("spo2 200 should be discarded, got %d", *v.SpO2)
	}
	if v.Temp != nil {
		t.Errorf("temp 150 should be discarded, got %v", *v.Temp)
	}
}

func TestVitals_FieldsAreIndependent(t *testing.T) {
	v := Vitals("HR: 72, otherwise vitals not recorded")
	if v.HR == nil || *v.HR != 72 {
		t.Errorf("hr: got %v, want 72", v.HR)
	}
	if v.BP != nil || v.RR != nil || v.Temp != nil || v.SpO2 != nil {
		t.Errorf("other fields should stay nil: %+v", v)
	}
}

func TestVitals_LowercaseProseDoesNotTriggerShorthand(t *testing.T) {
	v := Vitals("took 2 tablets at 10 pm with water")
	if v.Any() {
		t.Errorf("expected no vitals in plain prose, got %+v", v)
	}
}

func TestVitals_EmptyInput(t *testing.T) {
	if Vitals("").Any() {
		t.Error("expected empty vital set")
	}
}
