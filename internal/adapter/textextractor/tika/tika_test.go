package tika_test

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

	"github.com/talentsift/candidate-screener/internal/adapter/textextractor/tika"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
)

func testConfig(url string) config.Config {
	return config.Config{
		AppEnv:              "test",
		TikaURL:             url,
		CollaboratorTimeout: 5 * time.Second,
	}
}

func tempCV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cv-*.txt")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(f.Name()) })
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestExtractPath_Success(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte("  Ervaren \n\n ontwikkelaar\t met   python  "))
	}))
	defer ts.Close()

	c := tika.New(testConfig(ts.URL))
	got, err := c.ExtractPath(context.Background(), "cv.txt", tempCV(t, "raw bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Ervaren ontwikkelaar met python", got.Text)
	assert.Equal(t, 4, got.WordCount)
}

func TestExtractPath_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	c := tika.New(testConfig(ts.URL))
	_, err := c.ExtractPath(context.Background(), "cv.txt", tempCV(t, "raw"))
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestExtractPath_RetriesServerErrors(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("hersteld"))
	}))
	defer ts.Close()

	c := tika.New(testConfig(ts.URL))
	got, err := c.ExtractPath(context.Background(), "cv.txt", tempCV(t, "raw"))
	require.NoError(t, err)
	assert.Equal(t, "hersteld", got.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestExtractPath_DisallowedPath(t *testing.T) {
	t.Parallel()
	c := tika.New(testConfig("http://localhost:1"))
	_, err := c.ExtractPath(context.Background(), "passwd", "/etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disallowed path")
}

func TestHealthy(t *testing.T) {
	t.Parallel()
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tika", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	assert.NoError(t, tika.New(testConfig(ok.URL)).Healthy(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()
	assert.ErrorIs(t, tika.New(testConfig(down.URL)).Healthy(context.Background()), domain.ErrUnavailable)
}
