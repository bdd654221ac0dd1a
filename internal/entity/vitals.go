package entity

import (
	"regexp"
	"strconv"

	"github.com/notekit/chartparse/internal/note"
)

// Each vital is tried against an ordered pattern list covering the three
// lexical styles seen in notes: labeled ("BP: 145/92"), narrative ("blood
// pressure today is 128/82"), and run-together shorthand ("BP 138/85 P 92
// R 16 T 98.2"). The first capture that survives range validation wins;
// identical repeat readings collapse into that single value. Shorthand
// patterns are case-sensitive so a lone lowercase "t" or "p" in prose
// cannot match.
var (
	bpPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:blood pressure|bp)\s*[:=]\s*(\d{2,3}\s*/\s*\d{2,3})`),
		regexp.MustCompile(`(?i)\bblood pressure\b[^.\n\d]{0,30}?(\d{2,3}\s*/\s*\d{2,3})`),
		regexp.MustCompile(`\bBP\s*(\d{2,3}/\d{2,3})`),
	}
	hrPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:heart rate|hr|pulse)\s*[:=]\s*(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\b(?:heart rate|pulse)\b[^.\n\d]{0,30}?(\d{1,3})\b`),
		regexp.MustCompile(`\b(?:HR|P)\s+(\d{2,3})\b`),
	}
	rrPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:respiratory rate|resp rate|respirations?|rr)\s*[:=]\s*(\d{1,2})\b`),
		regexp.MustCompile(`(?i)\b(?:respiratory rate|respirations)\b[^.\n\d]{0,30}?(\d{1,2})\b`),
		regexp.MustCompile(`\b(?:RR|R)\s+(\d{1,2})\b`),
	}
	tempPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:temperature|temp)\s*[:=]?\s*(\d{2,3}(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)\btemperature\b[^.\n\d]{0,30}?(\d{2,3}(?:\.\d+)?)`),
		regexp.MustCompile(`\bT\s+(\d{2,3}(?:\.\d+)?)`),
	}
	spo2Patterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:spo2|sp02|o2 sat(?:uration)?|oxygen saturation|pulse ox)\s*[:=]?\s*(\d{2,3})\s*%?`),
		regexp.MustCompile(`(?i)\b(?:sats?)\s*[:=]?\s*(\d{2,3})\s*%`),
		regexp.MustCompile(`\bO2\s+(\d{2,3})%`),
	}
)

// Physiological plausibility bounds. Captures outside these are discarded
// rather than propagated.
const (
	hrMin, hrMax     = 20, 300
	rrMin, rrMax     = 4, 80
	spo2Min, spo2Max = 50, 100
)

// Vitals extracts the standard measurement set from text.
func Vitals(text string) note.VitalSet {
	var v note.VitalSet

	if raw := firstCapture(bpPatterns, text); raw != "" {
		bp := compactBP(raw)
		v.BP = &bp
	}
	if n, ok := firstInt(hrPatterns, text, hrMin, hrMax); ok {
		v.HR = &n
	}
	if n, ok := firstInt(rrPatterns, text, rrMin, rrMax); ok {
		v.RR = &n
	}
	if f, ok := firstTemp(text); ok {
		v.Temp = &f
	}
	if n, ok := firstInt(spo2Patterns, text, spo2Min, spo2Max); ok {
		v.SpO2 = &n
	}

	return v
}

func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func firstInt(patterns []*regexp.Regexp, text string, min, max int) (int, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < min || n > max {
			continue
		}
		return n, true
	}
	return 0, false
}

// firstTemp accepts both Fahrenheit (90-110) and Celsius (33-43) readings.
func firstTemp(text string) (float64, bool) {
	for _, re := range tempPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if (f >= 90 && f <= 110) || (f >= 33 && f <= 43) {
			return f, true
		}
	}
	return 0, false
}

var bpSpaceRe = regexp.MustCompile(`\s+`)

// compactBP strips interior whitespace so "145 / 92" stores as "145/92".
func compactBP(raw string) string {
	return bpSpaceRe.ReplaceAllString(raw, "")
}
