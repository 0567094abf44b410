package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/brainkit/brainkit-backend/internal/adapter/postgres"
	deckrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/deck"
	flashcardrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/flashcard"
	reviewrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/review"
	sessionrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/session"
	"github.com/brainkit/brainkit-backend/internal/auth"
	"github.com/brainkit/brainkit-backend/internal/config"
	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/internal/service/study"
	"github.com/brainkit/brainkit-backend/internal/transport/middleware"
	"github.com/brainkit/brainkit-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires the study service and its HTTP transport, and serves
// until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	decks := deckrepo.New(pool)
	cards := flashcardrepo.New(pool)
	sessions := sessionrepo.New(pool)
	reviews := reviewrepo.New(pool)

	studySvc := study.NewService(
		logger,
		decks,
		cards,
		sessions,
		reviews,
		postgres.NewTxManager(pool),
		domain.SRSConfig{
			DefaultEaseFactor: cfg.SRS.DefaultEaseFactor,
			MinEaseFactor:     cfg.SRS.MinEaseFactor,
		},
	)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	studyHandler := rest.NewStudyHandler(studySvc, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	mux := http.NewServeMux()

	// Probes stay outside the auth chain so orchestrators can reach them
	// without credentials.
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)

	authed := middleware.Chain(middleware.Auth(jwtManager))
	mux.Handle("POST /study/{deckID}/start", authed(http.HandlerFunc(studyHandler.StartSession)))
	mux.Handle("GET /study/{deckID}/due", authed(http.HandlerFunc(studyHandler.GetDueCards)))
	mux.Handle("POST /study/review", authed(http.HandlerFunc(studyHandler.ReviewCard)))
	mux.Handle("POST /study/complete", authed(http.HandlerFunc(studyHandler.CompleteSession)))
	mux.Handle("GET /study/stats", authed(http.HandlerFunc(studyHandler.Stats)))

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimitPerMin),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
