package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-fx/dsp/effectchain"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStages(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.chain.Stages())
}

func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	info, err := s.chain.StageInfo(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, info)
}

// handleSetParam accepts a number ("-12", "4.5") or a name, bare or as a
// JSON string ("clean-8", "\"octave\"").
func (s *Server) handleSetParam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "name")

	body, err := readBody(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if v, perr := strconv.ParseFloat(body, 64); perr == nil {
		err = s.chain.SetParam(id, name, v)
	} else {
		err = s.chain.SetText(id, name, unquote(body))
	}

	if err != nil {
		s.writeError(w, err)
		return
	}

	s.handleStage(w, r)
}

func (s *Server) handleSetBypass(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	bypass, err := strconv.ParseBool(body)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be true or false"})
		return
	}

	if err := s.chain.SetStageBypass(chi.URLParam(r, "id"), bypass); err != nil {
		s.writeError(w, err)
		return
	}

	s.handleStage(w, r)
}

func (s *Server) handleMeters(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.chain.Meters())
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	data, err := s.chain.Preset(r.URL.Query().Get("name")).Marshal()
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}

func readBody(r *http.Request) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	body := strings.TrimSpace(string(data))
	if body == "" {
		return "", errors.New("empty body")
	}

	return body, nil
}

func unquote(s string) string {
	var v string
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}

	return s
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, effectchain.ErrUnknownStage) || errors.Is(err, effectchain.ErrUnknownParam) {
		status = http.StatusNotFound
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", slog.Any("error", err))
	}
}
