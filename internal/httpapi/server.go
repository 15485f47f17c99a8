// Package httpapi exposes on-demand tagging over HTTP for the corpus site.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/micropapers/papertag/internal/tagger"
	"github.com/micropapers/papertag/internal/vocab"
)

type Server struct {
	tagger *tagger.Tagger
}

func NewServer(t *tagger.Tagger) http.Handler {
	s := &Server{tagger: t}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/tag", s.handleTag)
	mux.HandleFunc("/v1/categories", s.handleCategories)
	mux.HandleFunc("/v1/vocab/", s.handleVocab)
	mux.HandleFunc("/v1/fields/", s.handleFields)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	var ve *vocab.Error
	if errors.As(err, &ve) {
		code = ve.Code
		switch ve.Code {
		case vocab.CodeUnknownCategory:
			status = http.StatusNotFound
		default:
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"code": code, "message": err.Error()},
	})
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "POST required"})
		return
	}
	var rec tagger.SourceRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.tagger.Tag(rec))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "GET required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.tagger.Table().Categories()})
}

func (s *Server) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "GET required"})
		return
	}
	category := strings.TrimPrefix(r.URL.Path, "/v1/vocab/")
	entries, err := s.tagger.Table().Lookup(category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "entries": entries})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "GET required"})
		return
	}
	category := strings.TrimPrefix(r.URL.Path, "/v1/fields/")
	fields, err := s.tagger.Router().EligibleFields(category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category":   category,
		"fields":     fields,
		"deprecated": s.tagger.Router().Deprecated(category),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"categories": len(s.tagger.Table().Categories()),
	})
}
