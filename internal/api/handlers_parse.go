package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/notekit/chartparse/internal/pipeline"
	"github.com/notekit/chartparse/internal/safety"
)

type parseRequest struct {
	Text string `json:"text"`
}

// handleParse is the synchronous entry point: one note in, one ParsedNote
// out. Any body, including empty or binary garbage, produces a result with
// warnings rather than an error.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body", http.StatusRequestEntityTooLarge)
		return
	}

	text := string(body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req parseRequest
		if err := json.Unmarshal(body, &req); err != nil {
			jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
			return
		}
		text = req.Text
	}

	start := time.Now()
	parsed := s.orchestrator.Parser().Parse(r.Context(), text)
	s.orchestrator.Stats().Record(time.Since(start), pipeline.WasTruncated(parsed))

	if s.enricher != nil && r.URL.Query().Get("enrich") == "1" {
		enriched, err := s.enricher.Enrich(r.Context(), parsed)
		if err != nil {
			s.log.Warn("enrichment failed, returning base parse", "error", err)
		} else {
			parsed = enriched
		}
	}

	resp := map[string]any{"note": parsed}
	if r.URL.Query().Get("safety") == "1" {
		resp["safety_flags"] = safety.CrossCheck(parsed.Diagnoses, parsed.Medications)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
