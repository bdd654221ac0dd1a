// Package pipeline wires the note-structuring stages into one call and
// provides the asynchronous job surface on top of it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notekit/chartparse/internal/entity"
	"github.com/notekit/chartparse/internal/normalize"
	"github.com/notekit/chartparse/internal/note"
	"github.com/notekit/chartparse/internal/sched"
	"github.com/notekit/chartparse/internal/score"
	"github.com/notekit/chartparse/internal/section"
)

// truncatedWarning marks a parse that ran out of its time budget. The
// stats tracker keys off it, so the text lives in one place.
const truncatedWarning = "time budget exceeded; result truncated"

// WasTruncated reports whether a parse gave up early and returned a
// partial result.
func WasTruncated(n note.ParsedNote) bool {
	for _, w := range n.Warnings {
		if w == truncatedWarning {
			return true
		}
	}
	return false
}

// Options controls per-parse resource bounds.
type Options struct {
	Timeout    time.Duration // Wall-clock ceiling for one parse.
	ChunkLines int           // Lines per cooperative chunk.
	MaxScan    int           // Byte cap on any single extractor input.
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:    2 * time.Second,
		ChunkLines: 200,
		MaxScan:    64 * 1024,
	}
}

// Enricher is the boundary for the optional downstream AI-enrichment
// stage. The pipeline is fully usable with a nil Enricher.
type Enricher interface {
	Enrich(ctx context.Context, n note.ParsedNote) (note.ParsedNote, error)
}

// Parser converts raw note text into a ParsedNote. The synonym table and
// lexicon are built once at startup and shared read-only, so one Parser is
// safe for concurrent use; all per-call state lives on the stack.
type Parser struct {
	table *section.SynonymTable
	lex   *entity.Lexicon
	log   *slog.Logger
	opts  Options
}

// NewParser builds the orchestrator from its explicit dependencies.
func NewParser(table *section.SynonymTable, lex *entity.Lexicon, log *slog.Logger, opts Options) *Parser {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.ChunkLines <= 0 {
		opts.ChunkLines = 200
	}
	if opts.MaxScan <= 0 {
		opts.MaxScan = 64 * 1024
	}
	return &Parser{table: table, lex: lex, log: log, opts: opts}
}

// Parse runs the full pipeline: normalize, detect sections, extract
// entities, score. It always returns a ParsedNote for any input. Problems
// degrade to warnings and low confidence, never to an error or panic.
func (p *Parser) Parse(ctx context.Context, raw string) (result note.ParsedNote) {
	result = note.ParsedNote{
		Sections:     note.NewSectionMap(),
		Demographics: note.Demographics{Gender: "unknown"},
		Medications:  []string{},
		Allergies:    []string{},
		Diagnoses:    []string{},
		Warnings:     []string{},
	}

	// Runs on every exit, including extractor panics: list fields must
	// serialize as arrays, never null, even when extraction found nothing.
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("parse panicked", "panic", r)
			result.Warnings = append(result.Warnings, "internal parse failure; partial result")
			result.Confidence = score.Completeness(&result)
		}
		if result.Medications == nil {
			result.Medications = []string{}
		}
		if result.Allergies == nil {
			result.Allergies = []string{}
		}
		if result.Diagnoses == nil {
			result.Diagnoses = []string{}
		}
	}()

	s := sched.New(sched.Config{ChunkSize: p.opts.ChunkLines, Budget: p.opts.Timeout})

	text := normalize.Normalize(raw)
	sections, warnings := section.Detect(ctx, text, p.table, s)
	result.Sections = sections
	result.Warnings = append(result.Warnings, warnings...)

	// Each family scans its most relevant sections, falling back to the
	// whole text. Families run as separate cooperative units: once the
	// budget is gone, the remaining ones are skipped and the partial
	// result stands.
	truncated := !p.runExtractors(ctx, s, text, &result)

	if s.Expired() || truncated {
		result.Warnings = append(result.Warnings, truncatedWarning)
	}

	result.Confidence = score.Completeness(&result)
	return result
}

// runExtractors drives the five families through the scheduler. Returns
// false if the budget expired before all families ran.
func (p *Parser) runExtractors(ctx context.Context, s *sched.Scheduler, text string, result *note.ParsedNote) bool {
	demoText := p.bounded(p.sectionOr(result.Sections, text, note.Subjective, note.Background))
	vitalText := p.bounded(p.sectionOr(result.Sections, text, note.Objective))
	dxText, dxIsSection := p.sectionTexts(result.Sections, note.Assessment)
	medText, medIsSection := p.sectionTexts(result.Sections, note.Medications)
	algText, algIsSection := p.sectionTexts(result.Sections, note.Allergies)

	steps := []struct {
		name string
		run  func()
	}{
		{"demographics", func() {
			result.Demographics = entity.Demographics(demoText)
			if result.Demographics.Age == nil && result.Demographics.Gender == "unknown" {
				result.Demographics = entity.Demographics(p.bounded(text))
			}
		}},
		{"vitals", func() {
			result.Vitals = entity.Vitals(vitalText)
			if !result.Vitals.Any() {
				result.Vitals = entity.Vitals(p.bounded(text))
			}
		}},
		{"medications", func() {
			if medIsSection {
				result.Medications = entity.MedicationList(p.bounded(medText), p.lex)
			} else {
				result.Medications = p.lex.ScanMedications(p.bounded(text))
			}
		}},
		{"allergies", func() {
			if algIsSection {
				result.Allergies = entity.AllergyList(p.bounded(algText))
			} else {
				result.Allergies = entity.AllergyScan(p.bounded(text))
			}
		}},
		{"diagnoses", func() {
			if dxIsSection {
				result.Diagnoses = entity.DiagnosisList(p.bounded(dxText), p.lex)
			} else {
				result.Diagnoses = p.lex.ScanDiagnoses(p.bounded(text))
			}
		}},
	}

	completed := true
	for _, step := range steps {
		if s.Expired() || ctx.Err() != nil {
			completed = false
			break
		}
		p.runIsolated(step.name, step.run, result)
	}
	return completed
}

// runIsolated confines a panicking extractor to its own family: the family
// stays empty, a warning is recorded, and the parse continues.
func (p *Parser) runIsolated(name string, fn func(), result *note.ParsedNote) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("extractor failed", "extractor", name, "panic", r)
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s extraction failed", name))
		}
	}()
	fn()
}

// sectionOr joins the named sections when any are present, otherwise the
// whole text.
func (p *Parser) sectionOr(sections *note.SectionMap, text string, keys ...note.SectionKey) string {
	joined := ""
	for _, k := range keys {
		if t, ok := sections.Get(k); ok {
			if joined != "" {
				joined += "\n"
			}
			joined += t
		}
	}
	if joined == "" {
		return text
	}
	return joined
}

// sectionTexts returns the section body and whether the section exists.
func (p *Parser) sectionTexts(sections *note.SectionMap, key note.SectionKey) (string, bool) {
	return sections.Get(key)
}

// bounded caps the text a single pattern pass may scan.
func (p *Parser) bounded(text string) string {
	if len(text) > p.opts.MaxScan {
		return text[:p.opts.MaxScan]
	}
	return text
}
