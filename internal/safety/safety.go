// Package safety cross-references extracted diagnoses and medications
// against a static guideline table, producing cautions and plan
// suggestions. The table is compiled in; no I/O and no network.
package safety

import "strings"

// Flag is one finding from the cross-check.
type Flag struct {
	Severity string   `json:"severity"` // caution or suggestion
	Message  string   `json:"message"`
	Related  []string `json:"related"` // the matched list entries
}

const (
	SeverityCaution    = "caution"
	SeveritySuggestion = "suggestion"
)

// drugConditionRules flag a medication that warrants caution given a
// documented condition.
var drugConditionRules = []struct {
	med     string
	dx      string
	message string
}{
	{"ibuprofen", "chronic kidney disease", "NSAID use with chronic kidney disease; consider renal dosing review"},
	{"ibuprofen", "ckd", "NSAID use with chronic kidney disease; consider renal dosing review"},
	{"naproxen", "chronic kidney disease", "NSAID use with chronic kidney disease; consider renal dosing review"},
	{"naproxen", "ckd", "NSAID use with chronic kidney disease; consider renal dosing review"},
	{"metformin", "chronic kidney disease", "metformin with chronic kidney disease; verify eGFR before continuing"},
	{"metformin", "ckd", "metformin with chronic kidney disease; verify eGFR before continuing"},
	{"metoprolol", "asthma", "beta-blocker with documented asthma; watch for bronchospasm"},
	{"propranolol", "asthma", "non-selective beta-blocker with documented asthma; watch for bronchospasm"},
	{"prednisone", "diabetes", "systemic steroid with diabetes; monitor glucose closely"},
	{"ibuprofen", "heart failure", "NSAID use with heart failure; fluid retention risk"},
	{"naproxen", "heart failure", "NSAID use with heart failure; fluid retention risk"},
}

// drugDrugRules flag interacting medication pairs.
var drugDrugRules = []struct {
	medA    string
	medB    string
	message string
}{
	{"warfarin", "aspirin", "warfarin with aspirin; bleeding risk, confirm indication for dual therapy"},
	{"warfarin", "ibuprofen", "warfarin with NSAID; bleeding risk"},
	{"warfarin", "naproxen", "warfarin with NSAID; bleeding risk"},
	{"lisinopril", "spironolactone", "ACE inhibitor with potassium-sparing diuretic; monitor potassium"},
	{"clopidogrel", "omeprazole", "omeprazole may reduce clopidogrel effect; consider pantoprazole"},
	{"tramadol", "sertraline", "tramadol with SSRI; serotonin syndrome risk"},
	{"tramadol", "fluoxetine", "tramadol with SSRI; serotonin syndrome risk"},
}

// planSuggestions propose guideline therapy when a condition is documented
// and no matching medication appears in the list.
var planSuggestions = []struct {
	dx      string
	medHint string
	message string
}{
	{"diabetes", "metformin", "diabetes documented without metformin; consider first-line therapy if not contraindicated"},
	{"hypertension", "lisinopril", "hypertension documented; confirm antihypertensive regimen"},
	{"coronary artery disease", "atorvastatin", "coronary artery disease without a statin on the list; consider statin therapy"},
	{"atrial fibrillation", "apixaban", "atrial fibrillation without an anticoagulant on the list; assess stroke risk"},
}

// CrossCheck evaluates the static rule set against the extracted lists.
// Matching is case-insensitive substring over each entry, so dosage
// suffixes ("metformin 500mg BID") still hit. Output order is stable:
// drug-condition cautions, drug-drug cautions, then suggestions.
func CrossCheck(diagnoses, medications []string) []Flag {
	var flags []Flag

	for _, rule := range drugConditionRules {
		med, medOK := findEntry(medications, rule.med)
		dx, dxOK := findEntry(diagnoses, rule.dx)
		if medOK && dxOK {
			flags = appendUnique(flags, Flag{
				Severity: SeverityCaution,
				Message:  rule.message,
				Related:  []string{med, dx},
			})
		}
	}

	for _, rule := range drugDrugRules {
		a, aOK := findEntry(medications, rule.medA)
		b, bOK := findEntry(medications, rule.medB)
		if aOK && bOK {
			flags = appendUnique(flags, Flag{
				Severity: SeverityCaution,
				Message:  rule.message,
				Related:  []string{a, b},
			})
		}
	}

	for _, s := range planSuggestions {
		dx, dxOK := findEntry(diagnoses, s.dx)
		if !dxOK {
			continue
		}
		if _, onList := findEntry(medications, s.medHint); onList {
			continue
		}
		flags = appendUnique(flags, Flag{
			Severity: SeveritySuggestion,
			Message:  s.message,
			Related:  []string{dx},
		})
	}

	return flags
}

func findEntry(entries []string, needle string) (string, bool) {
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e), needle) {
			return e, true
		}
	}
	return "", false
}

// appendUnique drops flags whose message already fired; two NSAID rules
// matching the same list should not duplicate the caution.
func appendUnique(flags []Flag, f Flag) []Flag {
	for _, existing := range flags {
		if existing.Message == f.Message {
			return flags
		}
	}
	return append(flags, f)
}
