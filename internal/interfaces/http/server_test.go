package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/dataset"
	"github.com/finsight/finsight/internal/persistence"
	"github.com/finsight/finsight/internal/pipeline"
	"github.com/finsight/finsight/internal/sentiment"
)

func newTestServer(t *testing.T, outDir, artifactsDir string) *Server {
	t.Helper()
	handlers := NewHandlers(outDir, artifactsDir, "test")
	return NewServer(config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}, handlers, NewStreamHub())
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestHealthEndpoint(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, "eda_summary.json", "{}")

	srv := newTestServer(t, outDir, t.TempDir())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.Artifacts["eda_summary.json"])
	assert.False(t, resp.Artifacts["indicators.jsonl"])
}

func TestReportEndpoint_MissingArtifact(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), t.TempDir())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/report", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run the pipeline first")
}

func TestReportEndpoint_ServesSummary(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, "eda_summary.json", `{"articles": 42}`)

	srv := newTestServer(t, outDir, t.TempDir())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"articles":42`)
}

func TestSentimentBySymbol(t *testing.T) {
	outDir := t.TempDir()
	writeArtifact(t, outDir, "scored_articles.jsonl",
		`{"article":{"headline":"Apple surges","publisher":"reuters.com","date":"2020-06-01T00:00:00Z","stock":"AAPL"},"score":{"polarity":0.5,"subjectivity":0.4,"compound":0.6,"financial_terms":1}}
{"article":{"headline":"Tesla falls","publisher":"reuters.com","date":"2020-06-01T00:00:00Z","stock":"TSLA"},"score":{"polarity":-0.5,"subjectivity":0.4,"compound":-0.6,"financial_terms":0}}
`)

	srv := newTestServer(t, outDir, t.TempDir())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/sentiment/aapl", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Symbol string `json:"symbol"`
		Count  int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.Symbol, "symbol lookup is case-insensitive")
	assert.Equal(t, 1, resp.Count)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/sentiment/MSFT", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunsEndpoint(t *testing.T) {
	artifactsDir := t.TempDir()
	writeArtifact(t, artifactsDir, "runs.jsonl",
		`{"run_id":"one","success":true,"steps":[]}
{"run_id":"two","success":false,"steps":[]}
`)

	srv := newTestServer(t, t.TempDir(), artifactsDir)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
		Runs  []struct {
			RunID string `json:"run_id"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "two", resp.Runs[0].RunID, "newest run first")
}

func TestNotFoundRoute(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), t.TempDir())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown route")
}

type fakeArticlesRepo struct {
	articles []dataset.Article
}

func (f *fakeArticlesRepo) InsertBatch(ctx context.Context, articles []dataset.Article) error {
	f.articles = append(f.articles, articles...)
	return nil
}

func (f *fakeArticlesRepo) ListByStock(ctx context.Context, stock string, tr persistence.TimeRange, limit int) ([]dataset.Article, error) {
	var out []dataset.Article
	for _, a := range f.articles {
		if a.Stock == stock {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticlesRepo) Count(ctx context.Context) (int, error) {
	return len(f.articles), nil
}

type fakeScoresRepo struct {
	scores []persistence.StoredScore
}

func (f *fakeScoresRepo) InsertBatch(ctx context.Context, scored []sentiment.ScoredArticle) error {
	return nil
}

func (f *fakeScoresRepo) ListByStock(ctx context.Context, stock string, tr persistence.TimeRange, limit int) ([]persistence.StoredScore, error) {
	var out []persistence.StoredScore
	for _, s := range f.scores {
		if s.Stock == stock {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScoresRepo) MeanCompoundByStock(ctx context.Context, tr persistence.TimeRange) (map[string]float64, error) {
	sums := map[string]float64{}
	counts := map[string]float64{}
	for _, s := range f.scores {
		sums[s.Stock] += s.Compound
		counts[s.Stock]++
	}
	means := make(map[string]float64, len(sums))
	for stock, sum := range sums {
		means[stock] = sum / counts[stock]
	}
	return means, nil
}

func newStoredServer(t *testing.T) (*Server, *fakeArticlesRepo, *fakeScoresRepo) {
	t.Helper()
	articles := &fakeArticlesRepo{articles: []dataset.Article{
		{Headline: "Apple surges", Publisher: "reuters.com", Stock: "AAPL"},
		{Headline: "Tesla falls", Publisher: "benzinga.com", Stock: "TSLA"},
	}}
	scores := &fakeScoresRepo{scores: []persistence.StoredScore{
		{Headline: "Apple surges", Stock: "AAPL", Polarity: 0.5, Compound: 0.6, TermHits: 1},
		{Headline: "Apple steady", Stock: "AAPL", Polarity: 0.1, Compound: 0.2},
		{Headline: "Tesla falls", Stock: "TSLA", Polarity: -0.5, Compound: -0.6},
	}}

	handlers := NewHandlers(t.TempDir(), t.TempDir(), "test")
	handlers.SetRepository(&persistence.Repository{Articles: articles, Scores: scores})
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1"}, handlers, NewStreamHub())
	return srv, articles, scores
}

func TestTriggerRun_NotConfigured(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), t.TempDir())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/runs", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestTriggerRun_StartsRunInBackground(t *testing.T) {
	handlers := NewHandlers(t.TempDir(), t.TempDir(), "test")
	started := make(chan struct{})
	handlers.SetRunStarter(func(ctx context.Context) (*pipeline.RunResult, error) {
		close(started)
		return &pipeline.RunResult{Success: true}, nil
	})
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1"}, handlers, NewStreamHub())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/runs", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("run starter was never invoked")
	}
}

func TestTriggerRun_RejectsConcurrentRun(t *testing.T) {
	handlers := NewHandlers(t.TempDir(), t.TempDir(), "test")
	release := make(chan struct{})
	handlers.SetRunStarter(func(ctx context.Context) (*pipeline.RunResult, error) {
		<-release
		return &pipeline.RunResult{Success: true}, nil
	})
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1"}, handlers, NewStreamHub())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/runs", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/runs", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	require.Eventually(t, func() bool { return !handlers.running.Load() }, time.Second, 10*time.Millisecond)
}

func TestSentimentBySymbol_PrefersStoredScores(t *testing.T) {
	srv, _, _ := newStoredServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/sentiment/aapl", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Symbol  string `json:"symbol"`
		Count   int    `json:"count"`
		Source  string `json:"source"`
		Summary struct {
			CompoundMean float64 `json:"compound_mean"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "database", resp.Source)
	assert.Equal(t, 2, resp.Count)
	assert.InDelta(t, 0.4, resp.Summary.CompoundMean, 1e-9)
}

func TestArticlesBySymbol(t *testing.T) {
	srv, _, _ := newStoredServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/articles/tsla", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Symbol string            `json:"symbol"`
		Count  int               `json:"count"`
		Items  []dataset.Article `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TSLA", resp.Symbol)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Tesla falls", resp.Items[0].Headline)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/articles/MSFT", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArticlesBySymbol_StorageDisabled(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), t.TempDir())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/articles/AAPL", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enabled")
}

func TestStockSentiment(t *testing.T) {
	srv, _, _ := newStoredServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/stocks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count  int                `json:"count"`
		Stocks map[string]float64 `json:"stocks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.InDelta(t, 0.4, resp.Stocks["AAPL"], 1e-9)
	assert.InDelta(t, -0.6, resp.Stocks["TSLA"], 1e-9)
}

func TestHealthEndpoint_ReportsStoredArticles(t *testing.T) {
	srv, _, _ := newStoredServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.StoredArticles)
	assert.Equal(t, 2, *resp.StoredArticles)
}

func TestStreamHub_BroadcastsToSubscriber(t *testing.T) {
	hub := NewStreamHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + srv.URL[len("http"):]
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.RunStarted("run-1")

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var event StreamEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "run_started", event.Type)
	assert.Equal(t, "run-1", event.RunID)
}
