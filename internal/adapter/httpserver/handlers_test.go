package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/candidate-screener/internal/adapter/httpserver"
	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
	"github.com/talentsift/candidate-screener/internal/skills"
	"github.com/talentsift/candidate-screener/internal/usecase"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractPath(context.Context, string, string) (domain.Extraction, error) {
	if s.err != nil {
		return domain.Extraction{}, s.err
	}
	return domain.Extraction{Text: s.text, WordCount: len(s.text)}, nil
}

func (s stubExtractor) Healthy(context.Context) error { return nil }

type errorBody struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T, extractor domain.TextExtractor) *httpserver.Server {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	cfg := config.Config{AppEnv: "test", MaxUploadMB: 10}
	svc := usecase.NewAnalyzeService(cat, skills.NewExtractor(cat), extractor, nil)
	return httpserver.NewServer(cfg, svc, nil, nil, nil)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalyzeTextHandler_Success(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	payload := `{"cv_text":"5 jaar ervaring met javascript en react.","desired_skills":[{"name":"JavaScript","priority":"high"}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/text", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.AnalyzeTextHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var report domain.CandidateReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.ID)
	assert.Greater(t, report.OverallScore, 0)
	require.Len(t, report.SkillMatches, 1)
	assert.True(t, report.SkillMatches[0].Found)
}

func TestAnalyzeTextHandler_InvalidJSON(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/text", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.AnalyzeTextHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, rec).Error.Code)
}

func TestAnalyzeTextHandler_MissingCVText(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/text", strings.NewReader(`{"transcript":"alleen audio"}`))
	rec := httptest.NewRecorder()
	srv.AnalyzeTextHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INVALID_ARGUMENT", body.Error.Code)
	assert.Contains(t, string(body.Error.Details), "cvtext")
}

func TestAnalyzeTextHandler_InvalidPriority(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	payload := `{"cv_text":"ervaring met go","desired_skills":[{"name":"Go","priority":"urgent"}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/text", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.AnalyzeTextHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeTextHandler_RejectsNonJSONAccept(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/text", strings.NewReader(`{"cv_text":"tekst"}`))
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	srv.AnalyzeTextHandler()(rec, req)

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func multipartCV(t *testing.T, filename, content string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("cv", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeHandler_Success(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, stubExtractor{text: "6 jaar ervaring met python en docker."})

	body, contentType := multipartCV(t, "cv.txt", "6 jaar ervaring met python en docker.",
		map[string]string{"desired_skills": `[{"name":"Python","priority":"high"}]`})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report domain.CandidateReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "Medior", report.Profile.Seniority)
	require.Len(t, report.SkillMatches, 1)
	assert.True(t, report.SkillMatches[0].Found)
}

func TestAnalyzeHandler_RequiresMultipart(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, stubExtractor{text: "tekst"})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_RejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, stubExtractor{text: "tekst"})

	body, contentType := multipartCV(t, "cv.exe", "binary", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAnalyzeHandler_MissingCVFile(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, stubExtractor{text: "tekst"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("desired_skills", "[]"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, rec).Error.Code)
}

func TestAnalyzeHandler_ExtractionFailureMapsTo422(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, stubExtractor{err: errors.New("tika unreachable")})

	body, contentType := multipartCV(t, "cv.txt", "een cv", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "CV_PROCESSING", decodeError(t, rec).Error.Code)
}

func TestReadyzHandler(t *testing.T) {
	t.Parallel()
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }
	cfg := config.Config{AppEnv: "test"}

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()
		srv := httpserver.NewServer(cfg, nil, ok, ok, nil)
		rec := httptest.NewRecorder()
		srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("collaborator down", func(t *testing.T) {
		t.Parallel()
		srv := httpserver.NewServer(cfg, nil, ok, fail, nil)
		rec := httptest.NewRecorder()
		srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "whisper")
	})
}
