//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/brainkit/brainkit-backend/internal/adapter/postgres"
	deckrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/deck"
	flashcardrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/flashcard"
	reviewrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/review"
	sessionrepo "github.com/brainkit/brainkit-backend/internal/adapter/postgres/session"
	"github.com/brainkit/brainkit-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/brainkit/brainkit-backend/internal/auth"
	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/internal/service/study"
	"github.com/brainkit/brainkit-backend/internal/transport/middleware"
	"github.com/brainkit/brainkit-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	decks := deckrepo.New(pool)
	cards := flashcardrepo.New(pool)
	sessions := sessionrepo.New(pool)
	reviews := reviewrepo.New(pool)

	studyService := study.NewService(logger, decks, cards, sessions, reviews, txm, domain.SRSConfig{
		DefaultEaseFactor: 2.5,
		MinEaseFactor:     1.3,
	})

	jwtMgr := authpkg.NewJWTManager("test-secret-at-least-32-chars-long!!", "test-issuer")

	studyHandler := rest.NewStudyHandler(studyService, logger)
	healthHandler := rest.NewHealthHandler(pool, "e2e")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)

	authed := middleware.Chain(middleware.Auth(jwtMgr))
	mux.Handle("POST /study/{deckID}/start", authed(http.HandlerFunc(studyHandler.StartSession)))
	mux.Handle("GET /study/{deckID}/due", authed(http.HandlerFunc(studyHandler.GetDueCards)))
	mux.Handle("POST /study/review", authed(http.HandlerFunc(studyHandler.ReviewCard)))
	mux.Handle("POST /study/complete", authed(http.HandlerFunc(studyHandler.CompleteSession)))
	mux.Handle("GET /study/stats", authed(http.HandlerFunc(studyHandler.Stats)))

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    jwtMgr,
	}
}

// tokenFor signs a valid access token for the given user.
func (ts *testServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.jwt.SignAccessToken(userID, 15*time.Minute)
	require.NoError(t, err)
	return token
}

// doJSON performs an HTTP request with an optional JSON body and bearer token,
// returning the status code and the decoded JSON response.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Auth middleware rejections are plain text; everything else is JSON.
	result := map[string]any{}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &result), "non-JSON response: %s", raw)
	}
	return resp.StatusCode, result
}
