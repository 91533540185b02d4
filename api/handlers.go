// Package api serves the preference editor over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/CreativeUnicorns/prefseditor"
	"github.com/go-chi/chi/v5"
)

// preferenceView is the JSON form of a single preference.
type preferenceView struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Type            string `json:"type"`
	TypeName        string `json:"type_name,omitempty"`
	TypeDescription string `json:"type_description,omitempty"`
	Value           string `json:"value"`
	Default         string `json:"default"`
	Status          string `json:"status"`
}

type setRequest struct {
	Value *string `json:"value"`
}

type reloadResponse struct {
	Status  string `json:"status"`
	Module  string `json:"module,omitempty"`
	Applied int    `json:"applied"`
}

func (s *Server) view(row *prefseditor.Row) preferenceView {
	e := row.Entry()
	reg := s.editor.Registry()
	return preferenceView{
		Name:            row.Name,
		Description:     e.Description(),
		Type:            string(e.Type()),
		TypeName:        row.TypeName,
		TypeDescription: row.TypeTooltip,
		Value:           row.Value,
		Default:         reg.ToDisplayString(e, true),
		Status:          string(row.Status),
	}
}

// visibleTree copies the rows that are not hidden by the active search.
func visibleTree(row *prefseditor.Row) []*prefseditor.Row {
	out := make([]*prefseditor.Row, 0, len(row.Children))
	for _, c := range row.Children {
		if c.Hidden {
			continue
		}
		cp := *c
		cp.Children = nil
		if !c.IsGroup() {
			out = append(out, &cp)
			continue
		}
		cp.Children = visibleTree(c)
		out = append(out, &cp)
	}
	return out
}

// handleListPreferences returns the row tree filtered by the search query parameter.
func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.editor.Search(r.URL.Query().Get("search"))
	tree := visibleTree(s.editor.Root())
	s.mu.Unlock()

	s.respondWithJSON(w, r, http.StatusOK, tree)
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, s.view(row))
}

// handleSetPreference parses the request value in the preference's display format and stores it.
func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024)

	var req setRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if req.Value == nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload",
			fmt.Errorf("%w: missing value", prefseditor.ErrInvalidInput))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.lookup(w, r)
	if !ok {
		return
	}
	v, err := s.editor.Registry().ParseValue(row.Entry(), *req.Value)
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Invalid preference value", err)
		return
	}
	if err := s.editor.Apply(prefseditor.SetCommand(row.Entry(), v)); err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to set preference", err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, s.view(row))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.applyCommand(w, r, prefseditor.ToggleCommand)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.applyCommand(w, r, prefseditor.ResetCommand)
}

func (s *Server) applyCommand(w http.ResponseWriter, r *http.Request, build func(*prefseditor.Entry) prefseditor.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.lookup(w, r)
	if !ok {
		return
	}
	cmd := build(row.Entry())
	if err := s.editor.Apply(cmd); err != nil {
		s.respondWithError(w, r, statusFor(err), fmt.Sprintf("Failed to %s preference", cmd.Name), err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, s.view(row))
}

// handleListChanged returns every preference that differs from its default.
func (s *Server) handleListChanged(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := []preferenceView{}
	for _, row := range s.editor.Changed() {
		views = append(views, s.view(row))
	}
	s.respondWithJSON(w, r, http.StatusOK, views)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editor.Commit(r.Context()); err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to save preferences", err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, map[string]string{"status": "saved"})
}

// handleReload discards unsaved edits and reads every preference back from storage.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.editor.Registry().Load(r.Context())
	s.editor.Rebuild()
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to reload preferences", err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, reloadResponse{Status: "reloaded", Applied: n})
}

func (s *Server) handleReloadModule(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := chi.URLParam(r, "path")
	m, ok := s.editor.Registry().Module(path)
	if !ok {
		s.respondWithError(w, r, http.StatusNotFound, "Module not found",
			fmt.Errorf("%w: %s", prefseditor.ErrNotFound, path))
		return
	}
	n, err := s.editor.Registry().LoadModule(r.Context(), m)
	s.editor.Rebuild()
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to reload module", err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, reloadResponse{Status: "reloaded", Module: path, Applied: n})
}

// lookup resolves the {name} URL parameter, writing a 404 when it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*prefseditor.Row, bool) {
	name := chi.URLParam(r, "name")
	row, ok := s.editor.Row(name)
	if !ok {
		s.respondWithError(w, r, http.StatusNotFound, "Preference not found",
			fmt.Errorf("%w: %s", prefseditor.ErrNotFound, name))
		return nil, false
	}
	return row, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, prefseditor.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, prefseditor.ErrReadOnly):
		return http.StatusConflict
	case errors.Is(err, prefseditor.ErrInvalidValue),
		errors.Is(err, prefseditor.ErrInvalidType),
		errors.Is(err, prefseditor.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, prefseditor.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError is a helper to send JSON error responses.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
	}
	if err != nil {
		resp["error"].(map[string]string)["details"] = err.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("API Error", "status", status, "message", message, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("API request rejected", "status", status, "message", message, "path", r.URL.Path, "error", err)
	}
	respondWithJSONRaw(w, status, resp)
}

// respondWithJSON is a helper to send JSON responses.
func (s *Server) respondWithJSON(w http.ResponseWriter, _ *http.Request, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Failed to marshal response"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// respondWithJSONRaw writes an already assembled error payload.
func respondWithJSONRaw(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Critical: Failed to marshal error response"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
