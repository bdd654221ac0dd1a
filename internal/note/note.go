// Package note defines the structured record a parse produces.
package note

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SectionKey is a canonical section identifier in the SOAP-plus model.
type SectionKey string

const (
	Subjective   SectionKey = "subjective"
	Objective    SectionKey = "objective"
	Assessment   SectionKey = "assessment"
	Plan         SectionKey = "plan"
	ROS          SectionKey = "ros"
	Background   SectionKey = "background"
	Medications  SectionKey = "medications"
	Allergies    SectionKey = "allergies"
	Unclassified SectionKey = "unclassified"
)

// CoreSections are the four sections that drive the completeness score.
var CoreSections = []SectionKey{Subjective, Objective, Assessment, Plan}

// NKDA is the sentinel for any "no known drug allergies" phrasing.
const NKDA = "NKDA"

// SectionMap maps canonical keys to section text, preserving the order in
// which keys first appeared in the source. Repeat occurrences of a key
// append to the existing block rather than overwrite it. Blocks accumulate
// as line slices and join on read, so appending stays linear even when a
// long note feeds thousands of lines into one section.
type SectionMap struct {
	keys  []SectionKey
	parts map[SectionKey][]string
}

func NewSectionMap() *SectionMap {
	return &SectionMap{parts: make(map[SectionKey][]string)}
}

// Append adds text under key, opening the block on first use.
// Empty text still opens the block so a bare header registers the section.
func (m *SectionMap) Append(key SectionKey, text string) {
	if _, ok := m.parts[key]; !ok {
		m.keys = append(m.keys, key)
		m.parts[key] = nil
	}
	if text != "" {
		m.parts[key] = append(m.parts[key], text)
	}
}

// Get returns the text for key and whether the section is present.
func (m *SectionMap) Get(key SectionKey) (string, bool) {
	parts, ok := m.parts[key]
	if !ok {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

// Has reports whether key is present.
func (m *SectionMap) Has(key SectionKey) bool {
	_, ok := m.parts[key]
	return ok
}

// Keys returns section keys in first-seen order.
func (m *SectionMap) Keys() []SectionKey {
	out := make([]SectionKey, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of sections present.
func (m *SectionMap) Len() int {
	return len(m.keys)
}

// MarshalJSON emits the sections as a JSON object in first-seen order.
func (m *SectionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(strings.Join(m.parts[k], "\n"))
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Demographics holds patient age and gender when stated in the note.
type Demographics struct {
	Age    *int   `json:"age"`
	Gender string `json:"gender"` // male, female, or unknown
}

// VitalSet holds the standard physiological measurements. Each field is
// independent; nil means the reading was not found.
type VitalSet struct {
	BP   *string  `json:"bp"` // literal "SYS/DIA", never split
	HR   *int     `json:"hr"`
	RR   *int     `json:"rr"`
	Temp *float64 `json:"temp"`
	SpO2 *int     `json:"spo2"`
}

// Any reports whether at least one reading was found.
func (v VitalSet) Any() bool {
	return v.BP != nil || v.HR != nil || v.RR != nil || v.Temp != nil || v.SpO2 != nil
}

// ParsedNote is the full structured result of one parse. It is built fresh
// per call and never mutated after being returned.
type ParsedNote struct {
	Sections     *SectionMap  `json:"sections"`
	Demographics Demographics `json:"demographics"`
	Vitals       VitalSet     `json:"vitals"`
	Medications  []string     `json:"medications"`
	Allergies    []string     `json:"allergies"`
	Diagnoses    []string     `json:"diagnoses"`
	Confidence   float64      `json:"confidence"`
	Warnings     []string     `json:"warnings"`
}
