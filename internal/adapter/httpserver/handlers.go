package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/talentsift/candidate-screener/internal/adapter/observability"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
	"github.com/talentsift/candidate-screener/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg          config.Config
	Analyze      *usecase.AnalyzeService
	TikaCheck    func(ctx context.Context) error
	WhisperCheck func(ctx context.Context) error
	NLPCheck     func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, analyze *usecase.AnalyzeService, tikaCheck, whisperCheck, nlpCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Analyze: analyze, TikaCheck: tikaCheck, WhisperCheck: whisperCheck, NLPCheck: nlpCheck}
}

// allowedCVExt enforces an allowlist for CV uploads: .txt, .pdf, .docx
func allowedCVExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

// allowedAudioExt enforces an allowlist for interview recordings.
func allowedAudioExt(name string) bool {
	n := strings.ToLower(name)
	for _, ext := range []string{".mp3", ".wav", ".m4a", ".ogg", ".webm", ".flac"} {
		if strings.HasSuffix(n, ext) {
			return true
		}
	}
	return false
}

func allowedCVMIME(m, filename string) bool {
	m = strings.ToLower(m)
	// For .txt files, accept any text/* including text/html as some detectors misclassify rich text
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(m, "text/") {
		return true
	}
	if strings.HasPrefix(m, "text/plain") { // allow parameters such as charset
		return true
	}
	return m == "application/pdf" || m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func allowedAudioMIME(m string) bool {
	m = strings.ToLower(m)
	return strings.HasPrefix(m, "audio/") || strings.HasPrefix(m, "video/webm")
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type desiredSkillPayload struct {
	Name     string `json:"name" validate:"required,max=100"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func toDomainSkills(in []desiredSkillPayload) []domain.DesiredSkill {
	out := make([]domain.DesiredSkill, 0, len(in))
	for _, p := range in {
		prio := domain.Priority(p.Priority)
		if p.Priority == "" {
			prio = domain.PriorityMedium
		}
		out = append(out, domain.DesiredSkill{Name: p.Name, Priority: prio})
	}
	return out
}

func acceptsJSON(w http.ResponseWriter, r *http.Request) bool {
	if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotAcceptable)
		_ = json.NewEncoder(w).Encode(errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a}}})
		return false
	}
	return true
}

// saveUpload spools a multipart file to the temp dir for collaborator upload.
func saveUpload(h *multipart.FileHeader, f multipart.File) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(h.Filename))
	if err != nil {
		return "", err
	}
	defer func() { _ = tmp.Close() }()
	if _, err := io.Copy(tmp, f); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// AnalyzeHandler handles multipart intake of a CV, an optional interview
// recording and the desired-skills wishlist, and runs the full analysis
// synchronously.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes*2)
		if err := r.ParseMultipartForm(maxBytes * 2); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "payload too large", Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB}}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		cvFile, cvHeader, err := r.FormFile("cv")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: cv file required", domain.ErrInvalidArgument), map[string]string{"field": "cv"})
			return
		}
		defer func() { _ = cvFile.Close() }()

		if !allowedCVExt(cvHeader.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "unsupported media type for cv (extension)", Details: map[string]any{"filename": cvHeader.Filename}}})
			return
		}
		cvBytes, err := io.ReadAll(cvFile)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: cv read: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		// Content sniffing with mimetype; enforce allowlist
		cvMime := mimetype.Detect(cvBytes)
		if !allowedCVMIME(cvMime.String(), cvHeader.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "unsupported media type for cv (content)", Details: map[string]any{"mime": cvMime.String(), "filename": cvHeader.Filename}}})
			return
		}

		var desired []desiredSkillPayload
		if raw := r.FormValue("desired_skills"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &desired); err != nil {
				writeError(w, r, fmt.Errorf("%w: desired_skills must be a json array", domain.ErrInvalidArgument), nil)
				return
			}
			for _, d := range desired {
				if err := getValidator().Struct(d); err != nil {
					writeError(w, r, fmt.Errorf("%w: invalid desired skill", domain.ErrInvalidArgument), map[string]string{"skill": d.Name})
					return
				}
			}
		}

		cvPath, err := os.CreateTemp("", "cv-*"+filepath.Ext(cvHeader.Filename))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if _, err := cvPath.Write(cvBytes); err != nil {
			_ = cvPath.Close()
			_ = os.Remove(cvPath.Name())
			writeError(w, r, err, nil)
			return
		}
		_ = cvPath.Close()
		defer func() { _ = os.Remove(cvPath.Name()) }()

		audioName, audioPath := "", ""
		if audioFile, audioHeader, err := r.FormFile("audio"); err == nil {
			defer func() { _ = audioFile.Close() }()
			if !allowedAudioExt(audioHeader.Filename) {
				writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "unsupported media type for audio (extension)", Details: map[string]any{"filename": audioHeader.Filename}}})
				return
			}
			head := make([]byte, 3072)
			n, _ := io.ReadFull(audioFile, head)
			if !allowedAudioMIME(mimetype.Detect(head[:n]).String()) {
				writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "unsupported media type for audio (content)", Details: map[string]any{"filename": audioHeader.Filename}}})
				return
			}
			if _, err := audioFile.Seek(0, io.SeekStart); err != nil {
				writeError(w, r, err, nil)
				return
			}
			p, err := saveUpload(audioHeader, audioFile)
			if err != nil {
				writeError(w, r, err, nil)
				return
			}
			defer func() { _ = os.Remove(p) }()
			audioName, audioPath = audioHeader.Filename, p
		}

		report, err := s.Analyze.AnalyzeFiles(r.Context(), cvHeader.Filename, cvPath.Name(), audioName, audioPath, toDomainSkills(desired))
		if err != nil {
			observability.FailAnalysis()
			writeError(w, r, err, nil)
			return
		}
		observability.ObserveAnalysis(report.OverallScore, report.SkillMatchScore, len(report.ExtractedSkills))
		writeJSON(w, http.StatusOK, report)
	}
}

// AnalyzeTextHandler runs the analysis over already-extracted texts. Useful
// for callers that did their own extraction or transcription.
func (s *Server) AnalyzeTextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		// Cap body size to prevent abuse
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req struct {
			CVText        string                `json:"cv_text" validate:"required"`
			Transcript    string                `json:"transcript"`
			DesiredSkills []desiredSkillPayload `json:"desired_skills" validate:"dive"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}

		report, err := s.Analyze.AnalyzeText(r.Context(), req.CVText, req.Transcript, nil, toDomainSkills(req.DesiredSkills))
		if err != nil {
			observability.FailAnalysis()
			writeError(w, r, err, nil)
			return
		}
		observability.ObserveAnalysis(report.OverallScore, report.SkillMatchScore, len(report.ExtractedSkills))
		writeJSON(w, http.StatusOK, report)
	}
}

// ReadyzHandler returns a readiness handler that probes the collaborators.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		if s.TikaCheck != nil {
			if err := s.TikaCheck(ctx); err != nil {
				checks = append(checks, check{Name: "tika", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "tika", OK: true})
			}
		}
		if s.WhisperCheck != nil {
			if err := s.WhisperCheck(ctx); err != nil {
				checks = append(checks, check{Name: "whisper", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "whisper", OK: true})
			}
		}
		if s.NLPCheck != nil {
			if err := s.NLPCheck(ctx); err != nil {
				checks = append(checks, check{Name: "nlp", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "nlp", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
