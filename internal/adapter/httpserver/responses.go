// Package httpserver contains HTTP handlers and middleware.
//
// It provides REST API endpoints for candidate analysis: multipart file
// intake, raw text analysis and readiness probes. The package keeps HTTP
// concerns out of the analysis pipeline.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentsift/candidate-screener/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details interface{}) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrCVProcessing):
		code = http.StatusUnprocessableEntity
		codeStr = "CV_PROCESSING"
	case errors.Is(err, domain.ErrAudioProcessing):
		code = http.StatusUnprocessableEntity
		codeStr = "AUDIO_PROCESSING"
	case errors.Is(err, domain.ErrUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "UNAVAILABLE"
	case errors.Is(err, domain.ErrAnalysis):
		code = http.StatusInternalServerError
		codeStr = "ANALYSIS"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
