package entity

import (
	"regexp"
	"strings"
)

// bulletItemRe matches one bulleted or numbered list line and captures its
// content. Applied as a single FindAll pass over the whole block.
var bulletItemRe = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d{1,2}[.)])\s+(.+)$`)

// MedicationList extracts medications from a medications section: bullet or
// numbered lists first, then comma-shorthand lines, then a vocabulary scan
// as last resort.
func MedicationList(text string, lex *Lexicon) []string {
	if items := listItems(text); len(items) > 0 {
		return items
	}
	return lex.ScanMedications(text)
}

// DiagnosisList extracts diagnoses from an assessment-style section using
// the same list-first strategy.
func DiagnosisList(text string, lex *Lexicon) []string {
	if items := listItems(text); len(items) > 0 {
		return items
	}
	return lex.ScanDiagnoses(text)
}

// listItems tries the structured list styles: one item per bullet/numbered
// line, or comma-separated shorthand when the block has no bullets.
func listItems(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var items []string
	for _, m := range bulletItemRe.FindAllStringSubmatch(text, -1) {
		if it := cleanItem(m[1]); it != "" {
			items = append(items, it)
		}
	}
	if len(items) > 0 {
		return dedupeFold(items)
	}

	// Comma shorthand: short lines whose commas separate items rather
	// than clauses ("lisinopril 10mg, metformin 500mg BID, ASA 81mg").
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, ",") {
			continue
		}
		if looksLikeProse(line) {
			continue
		}
		for _, part := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' }) {
			if it := cleanItem(part); it != "" {
				items = append(items, it)
			}
		}
	}
	return dedupeFold(items)
}

// looksLikeProse filters out narrative sentences so "denies fever, chills,
// and cough" is not mistaken for an item list.
func looksLikeProse(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range []string{" and ", " denies ", " reports ", " with ", " without ", " the "} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return strings.HasSuffix(strings.TrimSpace(line), ".") && len(strings.Fields(line)) > 12
}

func cleanItem(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".;")
	return strings.TrimSpace(s)
}
