// Package section splits canonical note text into a map of recognized
// clinical sections.
package section

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/notekit/chartparse/internal/note"
	"gopkg.in/yaml.v3"
)

// SynonymTable maps lowercase header aliases to canonical section keys.
// It is built once at process start and read-only thereafter, so it is safe
// to share across concurrent parse calls.
type SynonymTable struct {
	aliases map[string]note.SectionKey
}

// defaultAliases covers canonical headers plus the abbreviations and
// synonyms commonly seen in dictated or hand-typed notes.
var defaultAliases = map[string]note.SectionKey{
	// Subjective / history
	"subjective":                 note.Subjective,
	"s":                          note.Subjective,
	"hpi":                        note.Subjective,
	"history of present illness": note.Subjective,
	"history":                    note.Subjective,
	"hx":                         note.Subjective,
	"hx/pe":                      note.Subjective,
	"chief complaint":            note.Subjective,
	"cc":                         note.Subjective,
	"interval history":           note.Subjective,

	// Objective / exam
	"objective":            note.Objective,
	"o":                    note.Objective,
	"physical exam":        note.Objective,
	"physical examination": note.Objective,
	"pe":                   note.Objective,
	"exam":                 note.Objective,
	"vitals":               note.Objective,
	"vital signs":          note.Objective,
	"labs":                 note.Objective,
	"objective findings":   note.Objective,

	// Assessment
	"assessment":             note.Assessment,
	"a":                      note.Assessment,
	"imp":                    note.Assessment,
	"impression":             note.Assessment,
	"a/p":                    note.Assessment,
	"assessment and plan":    note.Assessment,
	"assessment & plan":      note.Assessment,
	"diagnosis":              note.Assessment,
	"diagnoses":              note.Assessment,
	"problem list":           note.Assessment,
	"clinical impression":    note.Assessment,
	"differential":           note.Assessment,
	"differential diagnosis": note.Assessment,

	// Plan
	"plan":            note.Plan,
	"p":               note.Plan,
	"tx plan":         note.Plan,
	"treatment plan":  note.Plan,
	"treatment":       note.Plan,
	"recommendations": note.Plan,
	"plan of care":    note.Plan,
	"disposition":     note.Plan,
	"follow up":       note.Plan,
	"follow-up":       note.Plan,

	// Review of systems
	"ros":               note.ROS,
	"review of systems": note.ROS,

	// Background
	"background":            note.Background,
	"pmh":                   note.Background,
	"past medical history":  note.Background,
	"past surgical history": note.Background,
	"psh":                   note.Background,
	"social history":        note.Background,
	"sh":                    note.Background,
	"family history":        note.Background,
	"fh":                    note.Background,

	// Medications
	"medications":         note.Medications,
	"meds":                note.Medications,
	"current medications": note.Medications,
	"home medications":    note.Medications,
	"medication list":     note.Medications,

	// Allergies
	"allergies":          note.Allergies,
	"allergy":            note.Allergies,
	"drug allergies":     note.Allergies,
	"drug sensitivities": note.Allergies,
	"nkda":               note.Allergies,
}

// NewSynonymTable builds the table from the compiled-in aliases.
func NewSynonymTable() *SynonymTable {
	aliases := make(map[string]note.SectionKey, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	return &SynonymTable{aliases: aliases}
}

// LoadSynonymTable builds the table with extra aliases merged from a YAML
// file of the form `alias: canonical-key`. Unknown canonical keys in the
// file are rejected so a typo cannot silently route sections nowhere.
func LoadSynonymTable(path string) (*SynonymTable, error) {
	t := NewSynonymTable()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms file: %w", err)
	}
	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse synonyms file: %w", err)
	}
	valid := map[note.SectionKey]bool{
		note.Subjective: true, note.Objective: true, note.Assessment: true,
		note.Plan: true, note.ROS: true, note.Background: true,
		note.Medications: true, note.Allergies: true,
	}
	for alias, key := range extra {
		k := note.SectionKey(strings.ToLower(strings.TrimSpace(key)))
		if !valid[k] {
			return nil, fmt.Errorf("synonyms file: alias %q maps to unknown key %q", alias, key)
		}
		t.aliases[canonicalAlias(alias)] = k
	}
	return t, nil
}

// Lookup resolves a header candidate to a canonical key.
func (t *SynonymTable) Lookup(header string) (note.SectionKey, bool) {
	key, ok := t.aliases[canonicalAlias(header)]
	return key, ok
}

// Len returns the number of registered aliases.
func (t *SynonymTable) Len() int {
	return len(t.aliases)
}

var aliasSpaceRe = regexp.MustCompile(`\s+`)

// canonicalAlias lowercases, trims punctuation decoration, and collapses
// internal whitespace so "Tx  Plan:" and "tx plan" hit the same entry.
func canonicalAlias(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, ":.-– ")
	s = aliasSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
