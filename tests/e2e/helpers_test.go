//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/forumkit/doccat-backend/internal/adapter/postgres"
	categoryrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/category"
	docindexrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/docindex"
	"github.com/forumkit/doccat-backend/internal/adapter/postgres/testhelper"
	topicrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/topic"
	authpkg "github.com/forumkit/doccat-backend/internal/auth"
	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/jobs"
	"github.com/forumkit/doccat-backend/internal/publish"
	"github.com/forumkit/doccat-backend/internal/service/docindex"
	"github.com/forumkit/doccat-backend/internal/service/reports"
	"github.com/forumkit/doccat-backend/internal/settings"
	"github.com/forumkit/doccat-backend/internal/sitecache"
	"github.com/forumkit/doccat-backend/internal/siteurl"
	"github.com/forumkit/doccat-backend/internal/transport/middleware"
	"github.com/forumkit/doccat-backend/internal/transport/rest"
)

const testJWTSecret = "e2e-test-secret-at-least-32-characters-long"

// testServer bundles the running HTTP stack with the handles the tests
// poke at directly.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	JWT    *authpkg.JWTManager
}

// setupTestServer wires the full application against the shared test
// database: repositories, services, a running job queue, the router, and
// the middleware chain, served by httptest.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	indexes := docindexrepo.New(pool)
	topics := topicrepo.New(pool)
	categories := categoryrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	matcher, err := siteurl.NewMatcher("")
	require.NoError(t, err)

	docsEnabled := settings.NewDocs(true)
	cache := sitecache.NewDocCategories(indexes.ListCategoryIDs)
	queue := jobs.NewQueue(logger, 64)
	bus := publish.NewBus(logger)

	var svc *docindex.Service
	notifier := publish.NewCategoryNotifier(logger, bus, categories, publish.StructureSourceFunc(
		func(ctx context.Context, categoryID int64) ([]domain.SidebarStructureSection, error) {
			return svc.SidebarStructureForCategory(ctx, categoryID)
		},
	))
	svc = docindex.NewService(
		logger, indexes, topics, categories, txManager,
		matcher, queue, cache, notifier, docsEnabled,
	)

	queue.Register(jobs.RefreshIndex, func(ctx context.Context, args jobs.Args) error {
		categoryID, err := args.CategoryID()
		if err != nil {
			return err
		}
		return svc.Refresh(ctx, categoryID)
	})

	queueCtx, stopQueue := context.WithCancel(context.Background())
	queueDone := make(chan struct{})
	go func() {
		defer close(queueDone)
		queue.Run(queueCtx, 1)
	}()
	t.Cleanup(func() {
		stopQueue()
		<-queueDone
	})

	reportService := reports.NewService(logger, indexes, topics, categories, matcher)
	jwtManager := authpkg.NewJWTManager(testJWTSecret, "forumkit", time.Hour)

	router := rest.NewRouter(
		rest.NewHealthHandler(pool, "e2e"),
		rest.NewDocsHandler(svc, cache, logger),
		rest.NewAdminHandler(svc, categories, reportService, queue, docsEnabled, cache, logger),
	)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Auth(jwtManager),
	)(router)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testServer{
		URL:    server.URL,
		Client: server.Client(),
		Pool:   pool,
		JWT:    jwtManager,
	}
}

// adminToken issues a staff token the way the forum core would.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := ts.JWT.GenerateToken("1", true)
	require.NoError(t, err)
	return token
}

// userToken issues a non-staff token.
func (ts *testServer) userToken(t *testing.T) string {
	t.Helper()
	token, err := ts.JWT.GenerateToken("7", false)
	require.NoError(t, err)
	return token
}

// doJSON sends a request with an optional JSON body and bearer token, and
// decodes the JSON response into a generic map.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
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

	result := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	}

	return resp.StatusCode, result
}

// waitFor polls cond until it returns true or the timeout elapses. The job
// queue is asynchronous, so structure rebuilds are observed by polling.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
