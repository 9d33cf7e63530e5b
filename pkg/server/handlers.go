package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/jengatower/pkg/buildinfo"
	apperr "github.com/matzehuels/jengatower/pkg/errors"
	"github.com/matzehuels/jengatower/pkg/pipeline"
	"github.com/matzehuels/jengatower/pkg/tower"
)

type analyzeRequest struct {
	Manifest     string `json:"manifest"`
	GitHub       string `json:"github"`
	ManifestPath string `json:"manifest_path"`
	IncludeDev   *bool  `json:"include_dev"`
	Refresh      bool   `json:"refresh"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type layoutResponse struct {
	Layout tower.Layout `json:"layout"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, decodeError(err))
		return
	}

	result, err := s.runner.Analyze(r.Context(), pipeline.Options{
		Manifest:     req.Manifest,
		GitHub:       req.GitHub,
		ManifestPath: req.ManifestPath,
		IncludeDev:   req.IncludeDev,
		Refresh:      req.Refresh,
		Logger:       loggerFrom(r.Context(), s.logger),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	pkgs, err := pipeline.ReadReport(r.Body)
	if err != nil {
		s.fail(w, r, decodeError(err))
		return
	}
	layout, err := s.runner.Layout(r.Context(), pkgs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: layout})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds limit")
		return
	}

	status := apperr.HTTPStatus(err)
	code := string(apperr.GetCode(err))
	if code == "" {
		code = string(apperr.ErrCodeInternal)
	}
	msg := apperr.UserMessage(err)
	if status >= http.StatusInternalServerError {
		loggerFrom(r.Context(), s.logger).Error("request failed", "err", err)
		if code == string(apperr.ErrCodeInternal) {
			msg = "internal error"
		}
	}
	writeError(w, r, status, code, msg)
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || apperr.GetCode(err) != "" {
		return err
	}
	return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid request body")
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
