// Package entity holds the rule-based extractor families. Each extractor
// is fail-soft: malformed or absent input yields an empty or zero result,
// never an error. Pattern application is always a single bulk match pass
// per compiled pattern over a bounded string.
package entity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/notekit/chartparse/internal/note"
)

// Age patterns in priority order; the first match wins.
var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpatient is a?\s*(\d{1,3})[\s-]*years?[\s-]*old`),
	regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*(?:years?|yrs?)[\s-]*(?:old|of age)`),
	regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*(?:yo|y/o|y\.o\.)\b`),
	regexp.MustCompile(`(?i)\bage\s*[:=]?\s*(\d{1,3})\b`),
}

// Gender patterns in priority order. The shorthand form ("58 yo F") is
// anchored to the age phrase so a stray capital letter cannot match.
var genderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:sex|gender)\s*[:=]?\s*(male|female|m|f)\b`),
	regexp.MustCompile(`(?i)\b(male|female|man|woman|gentleman|lady)\b`),
	regexp.MustCompile(`(?i)\b\d{1,3}\s*(?:yo|y/o|y\.o\.)\s*(m|f)\b`),
}

const maxHumanAge = 130

// Demographics extracts patient age and gender from narrative text.
func Demographics(text string) note.Demographics {
	d := note.Demographics{Gender: "unknown"}

	for _, re := range agePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 || n > maxHumanAge {
			continue
		}
		age := n
		d.Age = &age
		break
	}

	for _, re := range genderPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if g := normalizeGender(m[1]); g != "" {
			d.Gender = g
			break
		}
	}

	return d
}

func normalizeGender(token string) string {
	switch strings.ToLower(token) {
	case "male", "m", "man", "gentleman":
		return "male"
	case "female", "f", "woman", "lady":
		return "female"
	}
	return ""
}
