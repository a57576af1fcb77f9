// Command server starts the candidate screener HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpserver "github.com/talentsift/candidate-screener/internal/adapter/httpserver"
	"github.com/talentsift/candidate-screener/internal/adapter/observability"
	"github.com/talentsift/candidate-screener/internal/adapter/skillsvc"
	tikaext "github.com/talentsift/candidate-screener/internal/adapter/textextractor/tika"
	"github.com/talentsift/candidate-screener/internal/adapter/transcriber/whisper"
	"github.com/talentsift/candidate-screener/internal/app"
	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/config"
	"github.com/talentsift/candidate-screener/internal/domain"
	"github.com/talentsift/candidate-screener/internal/skills"
	"github.com/talentsift/candidate-screener/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, collaborator and analysis instrumentation.
	observability.InitMetrics()

	cat, err := catalog.Default()
	if err != nil {
		slog.Error("catalog load failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Collaborators
	ext := tikaext.New(cfg)
	stt := whisper.New(cfg)

	// Extraction strategy: prefer the NLP sidecar when configured and
	// healthy, fall back to the in-process catalog extractor.
	var extractor domain.SkillExtractor = skills.NewExtractor(cat)
	var nlpCheck func(context.Context) error
	if cfg.NLPServiceURL != "" {
		nlp := skillsvc.New(cfg)
		nlpCheck = nlp.Healthy
		probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := nlp.Healthy(probeCtx); err != nil {
			slog.Warn("nlp sidecar unavailable, using in-process extraction", slog.Any("error", err))
		} else {
			slog.Info("nlp sidecar selected for skill extraction", slog.String("url", cfg.NLPServiceURL))
			extractor = nlp
		}
		cancel()
	}

	analyzeSvc := usecase.NewAnalyzeService(cat, extractor, ext, stt)

	srv := httpserver.NewServer(cfg, analyzeSvc, ext.Healthy, stt.Healthy, nlpCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
