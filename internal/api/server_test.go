package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pagegraph/smart-scraper/internal/config"
	"github.com/pagegraph/smart-scraper/internal/scraper"
)

type fakeRunner struct {
	projects scraper.Projects
	err      error
	gotURLs  []string
}

func (f *fakeRunner) Run(_ context.Context, urls []string) (scraper.Projects, error) {
	f.gotURLs = urls
	if f.err != nil {
		return scraper.Projects{}, f.err
	}
	return f.projects, nil
}

func newTestServer(runner ScrapeRunner) *Server {
	cfg := config.Config{}
	cfg.Server.TimeoutSeconds = 30
	return NewServer(runner, cfg, zap.NewNop())
}

func TestServer_SmartScrape_Succeeds(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{projects: scraper.Projects{Projects: []scraper.Project{
		{
			Title:       "Example Project",
			Description: "A sample project",
			Date:        "2026-01-15",
			Author:      "Jane Roe",
			Content:     "Full write-up",
			Tags:        []string{"go", "scraping"},
			URL:         "https://example.com/post",
		},
	}}}
	server := newTestServer(runner)

	req := httptest.NewRequest(http.MethodGet, "/api/smart-scraper?urls=https://example.com/post", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, []string{"https://example.com/post"}, runner.gotURLs)

	var got scraper.Projects
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Projects, 1)
	require.Equal(t, "Example Project", got.Projects[0].Title)
	require.Equal(t, []string{"go", "scraping"}, got.Projects[0].Tags)
}

func TestServer_SmartScrape_SplitsAndTrimsURLs(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{projects: scraper.Projects{Projects: []scraper.Project{}}}
	server := newTestServer(runner)

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/smart-scraper?urls=https://a.example,%20https://b.example,,",
		nil,
	)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, runner.gotURLs)
}

func TestServer_SmartScrape_NoURLs(t *testing.T) {
	t.Parallel()

	for _, query := range []string{"", "?urls=", "?urls=,,", "?urls=%20"} {
		server := newTestServer(&fakeRunner{})
		req := httptest.NewRequest(http.MethodGet, "/api/smart-scraper"+query, nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
		require.Contains(t, rec.Body.String(), "No URLs provided")
	}
}

func TestServer_SmartScrape_PipelineError(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New("all 1 urls failed: connection refused")}
	server := newTestServer(runner)

	req := httptest.NewRequest(http.MethodGet, "/api/smart-scraper?urls=https://example.com", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])
	require.Contains(t, body["error"], "connection refused")
}

func TestServer_SmartScrape_DeadlineStillReturns500(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: context.DeadlineExceeded}
	server := newTestServer(runner)

	req := httptest.NewRequest(http.MethodGet, "/api/smart-scraper?urls=https://example.com", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])
}

func TestServer_APIKeyMiddleware(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	cfg.Server.TimeoutSeconds = 30
	cfg.Auth.Enabled = true
	cfg.Auth.APIKey = "secret"
	server := NewServer(&fakeRunner{}, cfg, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_HealthAndReadiness(t *testing.T) {
	t.Parallel()

	server := newTestServer(&fakeRunner{})

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	bare := NewServer(nil, config.Config{}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	bare.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_RequestIDHeader(t *testing.T) {
	t.Parallel()

	server := newTestServer(&fakeRunner{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestTimeoutMiddleware_WritesUniformJSONError(t *testing.T) {
	t.Parallel()

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	h := timeoutMiddleware(20*time.Millisecond, zap.NewNop())(slow)

	req := httptest.NewRequest(http.MethodGet, "/api/smart-scraper?urls=https://example.com", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "request timed out", body["error"])
}

func TestTimeoutMiddleware_PassesThroughFastHandlers(t *testing.T) {
	t.Parallel()

	fast := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	})
	h := timeoutMiddleware(time.Second, zap.NewNop())(fast)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestParseURLs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{",", nil},
		{" , ", nil},
		{"https://a.example", []string{"https://a.example"}},
		{"https://a.example,https://b.example", []string{"https://a.example", "https://b.example"}},
		{" https://a.example ,, https://b.example", []string{"https://a.example", "https://b.example"}},
	}
	for _, tc := range cases {
		got := parseURLs(tc.raw)
		if tc.want == nil {
			require.Empty(t, got, "raw %q", tc.raw)
			continue
		}
		require.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}
