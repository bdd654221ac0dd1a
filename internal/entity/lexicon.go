package entity

import (
	"regexp"
	"strings"
)

// commonMedications and commonDiagnoses are the controlled vocabularies for
// last-resort narrative scanning. They are deliberately small: narrative
// scanning only runs when no list structure was found, and a miss simply
// means an empty result.
var commonMedications = []string{
	"lisinopril", "metformin", "atorvastatin", "simvastatin", "aspirin",
	"ibuprofen", "naproxen", "acetaminophen", "warfarin", "apixaban",
	"clopidogrel", "amoxicillin", "azithromycin", "ciprofloxacin",
	"omeprazole", "pantoprazole", "levothyroxine", "amlodipine",
	"metoprolol", "carvedilol", "propranolol", "losartan", "valsartan",
	"hydrochlorothiazide", "furosemide", "spironolactone", "albuterol",
	"fluticasone", "montelukast", "prednisone", "insulin", "glipizide",
	"gabapentin", "sertraline", "fluoxetine", "citalopram", "trazodone",
	"tramadol", "oxycodone", "morphine", "penicillin",
}

var commonDiagnoses = []string{
	"hypertension", "diabetes mellitus", "diabetes", "hyperlipidemia",
	"asthma", "copd", "chronic obstructive pulmonary disease", "pneumonia",
	"heart failure", "congestive heart failure", "atrial fibrillation",
	"coronary artery disease", "myocardial infarction", "stroke",
	"chronic kidney disease", "ckd", "anemia", "hypothyroidism",
	"hyperthyroidism", "gerd", "gastroesophageal reflux", "depression",
	"anxiety", "obesity", "osteoarthritis", "osteoporosis", "gout",
	"urinary tract infection", "cellulitis", "sepsis",
}

// Lexicon holds the compiled vocabulary scanners. It is built once at
// process start and read-only thereafter, so concurrent parses share it.
type Lexicon struct {
	meds *regexp.Regexp
	dx   *regexp.Regexp
}

// NewLexicon compiles the static vocabularies into single-alternation
// patterns so a narrative scan is one FindAll pass per family.
func NewLexicon() *Lexicon {
	return &Lexicon{
		meds: compileVocabulary(commonMedications),
		dx:   compileVocabulary(commonDiagnoses),
	}
}

// compileVocabulary builds one case-insensitive word-bounded alternation.
// Longer terms sort first inside the source lists ("diabetes mellitus"
// before "diabetes") so the most specific term wins the match.
func compileVocabulary(terms []string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// ScanMedications returns vocabulary hits in source order, deduplicated
// case-insensitively.
func (l *Lexicon) ScanMedications(text string) []string {
	return dedupeFold(l.meds.FindAllString(text, -1))
}

// ScanDiagnoses returns vocabulary hits in source order, deduplicated
// case-insensitively.
func (l *Lexicon) ScanDiagnoses(text string) []string {
	return dedupeFold(l.dx.FindAllString(text, -1))
}

// dedupeFold removes exact case-insensitive duplicates, keeping first-seen
// order and the first-seen casing.
func dedupeFold(items []string) []string {
	var out []string
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		key := strings.ToLower(strings.TrimSpace(it))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(it))
	}
	return out
}
