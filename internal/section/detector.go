package section

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/notekit/chartparse/internal/note"
	"github.com/notekit/chartparse/internal/sched"
)

// Detect splits canonical text into a section map. Header-style lines are
// resolved through the synonym table; text under an unrecognized or absent
// header rolls into the current or the "unclassified" block, so no input is
// ever dropped. When the text contains no recognizable headers at all, a
// keyword-proximity fallback classifies whole sentences instead.
//
// Line scanning runs through the scheduler in bounded chunks; on deadline
// expiry the map built so far is returned as-is.
func Detect(ctx context.Context, text string, table *SynonymTable, s *sched.Scheduler) (*note.SectionMap, []string) {
	sections := note.NewSectionMap()
	var warnings []string

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return sections, warnings
	}

	lines := strings.Split(text, "\n")
	current := note.SectionKey("")
	headers := 0

	s.Run(ctx, len(lines), func(start, end int) {
		for _, line := range lines[start:end] {
			stripped := strings.TrimSpace(line)
			if stripped == "" {
				continue
			}

			header, inline, looksLike := splitHeaderCandidate(stripped)
			if looksLike {
				if key, ok := table.Lookup(header); ok {
					headers++
					current = key
					body := strings.TrimSpace(inline)
					if body == "" && contentAliases[canonicalAlias(header)] {
						body = header
					}
					sections.Append(key, body)
					continue
				}
				// Strong header shape but no table entry: keep the
				// content, flag the header. Bare title-case lines are
				// too common in list content to be worth a warning.
				if inline == "" && (strings.Contains(stripped, ":") || isAllCaps(header)) {
					warnings = append(warnings, fmt.Sprintf("unresolved header: %q", header))
				}
			}

			if current == "" {
				sections.Append(note.Unclassified, stripped)
			} else {
				sections.Append(current, stripped)
			}
		}
	})

	if headers == 0 {
		return detectByKeywords(ctx, trimmed, s), warnings
	}
	return sections, warnings
}

// contentAliases are aliases whose token is both a section name and the
// section's statement. A bare "NKDA" line routes to allergies and must
// survive as the allergy record itself, not vanish into an empty header.
var contentAliases = map[string]bool{
	"nkda": true,
}

const maxHeaderLen = 40

// splitHeaderCandidate decides whether a line is shaped like a section
// header and, if so, separates the header text from any inline content
// after the colon. Lines such as "BP: 145/92" clear the shape test but are
// rejected later by the synonym lookup and fall through as plain content.
func splitHeaderCandidate(line string) (header, inline string, ok bool) {
	if idx := strings.Index(line, ":"); idx > 0 {
		head := strings.TrimSpace(line[:idx])
		if len(head) <= maxHeaderLen && isHeaderText(head) {
			return head, strings.TrimSpace(line[idx+1:]), true
		}
		return "", "", false
	}

	// No colon: accept short all-caps or title-case lines with no
	// sentence punctuation, e.g. "ASSESSMENT" or "Physical Exam".
	if len(line) > maxHeaderLen || strings.ContainsAny(line, ".!?,;") {
		return "", "", false
	}
	if !isHeaderText(line) {
		return "", "", false
	}
	if isAllCaps(line) || isTitleCase(line) {
		return line, "", true
	}
	return "", "", false
}

// isHeaderText allows only the characters that appear in real section
// headers: letters, spaces, and the odd separator ("A/P", "Hx/PE", "Follow-Up").
func isHeaderText(s string) bool {
	if s == "" {
		return false
	}
	words := 0
	for _, f := range strings.Fields(s) {
		words++
		for _, r := range f {
			if !unicode.IsLetter(r) && r != '/' && r != '&' && r != '-' {
				return false
			}
		}
	}
	return words > 0 && words <= 5
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitleCase(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		r := []rune(f)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// assessmentSeeds and planSeeds drive the header-less fallback. Matching is
// by substring over the lowercased sentence, so "diagnos" covers both
// "diagnosis" and "diagnosed".
var (
	assessmentSeeds = []string{"impression", "diagnos", "assessment"}
	planSeeds       = []string{"plan", "recommend", "follow up", "follow-up", "will start", "continue"}
)

// detectByKeywords classifies whole sentences by keyword proximity. Every
// sentence lands in exactly one bucket, preserving full source spans;
// unmatched narrative becomes the subjective block.
func detectByKeywords(ctx context.Context, text string, s *sched.Scheduler) *note.SectionMap {
	sentences := splitSentences(text)
	sections := note.NewSectionMap()

	s.Run(ctx, len(sentences), func(start, end int) {
		for _, sent := range sentences[start:end] {
			lower := strings.ToLower(sent)
			switch {
			case containsAny(lower, assessmentSeeds):
				sections.Append(note.Assessment, sent)
			case containsAny(lower, planSeeds):
				sections.Append(note.Plan, sent)
			default:
				sections.Append(note.Subjective, sent)
			}
		}
	})

	return sections
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by whitespace. Newlines also terminate a sentence so list-style
// narrative stays line-aligned.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			sentences = append(sentences, t)
		}
		current.Reset()
	}

	for i, r := range text {
		if r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			flush()
		}
	}
	flush()

	return sentences
}
