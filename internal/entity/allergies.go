package entity

import (
	"regexp"
	"strings"

	"github.com/notekit/chartparse/internal/note"
)

// noKnownAllergyPatterns cover the phrasings that all mean "no known drug
// allergies". Any hit normalizes the whole result to the NKDA sentinel.
var noKnownAllergyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnkda\b`),
	regexp.MustCompile(`(?i)\bnka\b`),
	regexp.MustCompile(`(?i)\bno\s+known\s+(?:drug\s+|food\s+)?allerg`),
	regexp.MustCompile(`(?i)\bdenies\s+(?:any\s+)?(?:drug\s+)?allerg`),
	regexp.MustCompile(`(?i)allerg\w*[^:\n]{0,40}:\s*(?:none|no|denied|negative)\b`),
	regexp.MustCompile(`(?i)sensitivities[^:\n]{0,40}:\s*(?:none|no|denied)\b`),
	// A section whose entire body is a bare negative ("Allergies:" header
	// followed by "None").
	regexp.MustCompile(`(?i)^\s*(?:none|no|denied|negative)\.?\s*$`),
}

// allergenReactionRe captures inline "allergic to penicillin (rash)" style
// mentions, with the optional reaction in parentheses or after a dash.
var allergenReactionRe = regexp.MustCompile(
	`(?i)\ballerg(?:ic|y)\s+to\s+([a-z][a-z -]{1,40}?)(?:\s*\(([^)\n]{1,60})\)|\s*[-–]\s*([a-z ]{1,60}))?(?:[.,;\n]|$)`)

// AllergyList extracts allergies from an allergy section. Every
// no-known-allergy phrasing collapses to the single sentinel; explicit
// "allergic to X (reaction)" mentions are trusted over list splitting so a
// narrative sentence is not chopped into fake items.
func AllergyList(text string) []string {
	if isNoKnownAllergies(text) {
		return []string{note.NKDA}
	}
	if items := inlineAllergens(text); len(items) > 0 {
		return items
	}
	return listItems(text)
}

// AllergyScan is the narrative fallback used when no allergy section
// exists: it only trusts the sentinel phrasings and explicit "allergic to"
// mentions, never bare lists.
func AllergyScan(text string) []string {
	if isNoKnownAllergies(text) {
		return []string{note.NKDA}
	}
	return inlineAllergens(text)
}

func isNoKnownAllergies(text string) bool {
	for _, re := range noKnownAllergyPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func inlineAllergens(text string) []string {
	var items []string
	for _, m := range allergenReactionRe.FindAllStringSubmatch(text, -1) {
		allergen := cleanItem(m[1])
		if allergen == "" {
			continue
		}
		reaction := cleanItem(m[2])
		if reaction == "" {
			reaction = cleanItem(m[3])
		}
		if reaction != "" {
			items = append(items, allergen+" ("+strings.ToLower(reaction)+")")
		} else {
			items = append(items, allergen)
		}
	}
	return dedupeFold(items)
}
