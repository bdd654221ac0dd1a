// Package score derives a completeness score from a parsed note. The score
// is a heuristic proxy for how much of the record was populated, not a
// calibrated probability: the contract is only that a strictly more
// complete parse never scores lower, clamped to [0, 1].
package score

import "github.com/notekit/chartparse/internal/note"

// Fixed presence increments. The four core sections dominate; entity
// families fill in the rest.
const (
	coreSectionWeight  = 0.15
	vitalsWeight       = 0.10
	medicationsWeight  = 0.10
	diagnosesWeight    = 0.10
	allergiesWeight    = 0.05
	demographicsWeight = 0.05
)

// Completeness returns the derived confidence for n.
func Completeness(n *note.ParsedNote) float64 {
	c := 0.0

	if n.Sections != nil {
		for _, key := range note.CoreSections {
			if n.Sections.Has(key) {
				c += coreSectionWeight
			}
		}
	}
	if n.Vitals.Any() {
		c += vitalsWeight
	}
	if len(n.Medications) > 0 {
		c += medicationsWeight
	}
	if len(n.Diagnoses) > 0 {
		c += diagnosesWeight
	}
	if len(n.Allergies) > 0 {
		c += allergiesWeight
	}
	if n.Demographics.Age != nil || (n.Demographics.Gender != "" && n.Demographics.Gender != "unknown") {
		c += demographicsWeight
	}

	if c > 1 {
		c = 1
	}
	return c
}
