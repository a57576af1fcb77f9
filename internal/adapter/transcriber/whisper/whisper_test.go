package whisper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/candidate-screener/internal/adapter/transcriber/whisper"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
)

func testConfig(url string) config.Config {
	return config.Config{
		AppEnv:                "test",
		WhisperURL:            url,
		TranscriptionLanguage: "nl",
		CollaboratorTimeout:   5 * time.Second,
	}
}

func tempAudio(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp("", "interview-*.mp3")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(f.Name()) })
	_, err = f.Write([]byte{0xff, 0xfb, 0x90, 0x00})
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestTranscribe_Success(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transcribe", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "nl", r.FormValue("language"))
		assert.Equal(t, "transcribe", r.FormValue("task"))
		assert.Equal(t, "true", r.FormValue("word_timestamps"))
		_, hdr, err := r.FormFile("audio")
		require.NoError(t, err)
		assert.Equal(t, "interview.mp3", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"result":{"text":"hallo dit is een test","language":"nl","word_count":5,"duration":3.2,"confidence":0.91}}`))
	}))
	defer ts.Close()

	c := whisper.New(testConfig(ts.URL))
	got, err := c.Transcribe(context.Background(), "interview.mp3", tempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "hallo dit is een test", got.Text)
	assert.Equal(t, "nl", got.Language)
	assert.Equal(t, 5, got.WordCount)
	assert.InDelta(t, 3.2, got.DurationSeconds, 1e-9)
	assert.InDelta(t, 0.91, got.Confidence, 1e-9)
}

func TestTranscribe_SidecarFailureIsPermanent(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"unsupported codec"}`))
	}))
	defer ts.Close()

	c := whisper.New(testConfig(ts.URL))
	_, err := c.Transcribe(context.Background(), "interview.mp3", tempAudio(t))
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "unsupported codec")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestTranscribe_RetriesServerErrors(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"result":{"text":"ok","language":"nl","word_count":1,"duration":1,"confidence":0.8}}`))
	}))
	defer ts.Close()

	c := whisper.New(testConfig(ts.URL))
	got, err := c.Transcribe(context.Background(), "interview.mp3", tempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestHealthy(t *testing.T) {
	t.Parallel()
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	assert.NoError(t, whisper.New(testConfig(ok.URL)).Healthy(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.ErrorIs(t, whisper.New(testConfig(down.URL)).Healthy(context.Background()), domain.ErrUnavailable)
}
