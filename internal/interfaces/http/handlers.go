package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/eda"
	"github.com/finsight/finsight/internal/persistence"
	"github.com/finsight/finsight/internal/pipeline"
	"github.com/finsight/finsight/internal/sentiment"
)

// RunStarter launches a pipeline run on behalf of the API
type RunStarter func(ctx context.Context) (*pipeline.RunResult, error)

// Handlers serves analysis artifacts produced by pipeline runs
type Handlers struct {
	outDir       string
	artifactsDir string
	startTime    time.Time
	version      string

	startRun RunStarter
	running  atomic.Bool
	repos    *persistence.Repository
}

// NewHandlers creates the handler set over the given artifact directories
func NewHandlers(outDir, artifactsDir, version string) *Handlers {
	return &Handlers{
		outDir:       outDir,
		artifactsDir: artifactsDir,
		startTime:    time.Now(),
		version:      version,
	}
}

// SetRunStarter enables the POST /runs trigger
func (h *Handlers) SetRunStarter(f RunStarter) {
	h.startRun = f
}

// SetRepository enables the database-backed endpoints
func (h *Handlers) SetRepository(r *persistence.Repository) {
	h.repos = r
}

// HealthResponse is the /health payload
type HealthResponse struct {
	Status         string          `json:"status"`
	Version        string          `json:"version"`
	Uptime         string          `json:"uptime"`
	Artifacts      map[string]bool `json:"artifacts"`
	StoredArticles *int            `json:"stored_articles,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Health reports service liveness and artifact availability
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	artifacts := map[string]bool{}
	for _, name := range []string{"eda_summary.json", "sentiment_summary.json", "sentiment_trend.json", "scored_articles.jsonl", "indicators.jsonl"} {
		_, err := os.Stat(filepath.Join(h.outDir, name))
		artifacts[name] = err == nil
	}

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Artifacts: artifacts,
		Timestamp: time.Now().UTC(),
	}
	if h.repos != nil {
		if n, err := h.repos.Articles.Count(r.Context()); err == nil {
			resp.StoredArticles = &n
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// TriggerRun starts a pipeline run in the background. A single run may be
// in flight at a time.
func (h *Handlers) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if h.startRun == nil {
		writeError(w, http.StatusNotImplemented, "run trigger is not configured on this server")
		return
	}
	if !h.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "a run is already in progress")
		return
	}

	go func() {
		defer h.running.Store(false)
		if _, err := h.startRun(context.Background()); err != nil {
			log.Error().Err(err).Msg("Triggered run failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Report returns the latest EDA summary
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	var summary eda.Summary
	if !h.readArtifact(w, "eda_summary.json", &summary) {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SentimentSummary returns batch-level sentiment statistics
func (h *Handlers) SentimentSummary(w http.ResponseWriter, r *http.Request) {
	var stats sentiment.SummaryStats
	if !h.readArtifact(w, "sentiment_summary.json", &stats) {
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// SentimentBySymbol returns scored articles for one stock symbol, preferring
// the database over the artifact scan when persistence is enabled
func (h *Handlers) SentimentBySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	if h.repos != nil {
		stored, err := h.repos.Scores.ListByStock(r.Context(), symbol, persistence.TimeRange{End: time.Now()}, 200)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to query stored scores")
			return
		}
		if len(stored) > 0 {
			scores := make([]sentiment.Score, len(stored))
			for i, s := range stored {
				scores[i] = sentiment.Score{
					Polarity:       s.Polarity,
					Subjectivity:   s.Subjectivity,
					Compound:       s.Compound,
					FinancialTerms: s.TermHits,
				}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"symbol":  symbol,
				"count":   len(stored),
				"source":  "database",
				"summary": sentiment.Summarize(scores),
				"scores":  stored,
			})
			return
		}
	}

	f, err := os.Open(filepath.Join(h.outDir, "scored_articles.jsonl"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no scored articles available; run the pipeline first")
		return
	}
	defer f.Close()

	var matches []sentiment.ScoredArticle
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var sa sentiment.ScoredArticle
		if err := json.Unmarshal(scanner.Bytes(), &sa); err != nil {
			continue
		}
		if sa.Article.Stock == symbol {
			matches = append(matches, sa)
		}
	}

	if len(matches) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no articles for symbol %s", symbol))
		return
	}

	scores := make([]sentiment.Score, len(matches))
	for i, m := range matches {
		scores[i] = m.Score
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":   symbol,
		"count":    len(matches),
		"summary":  sentiment.Summarize(scores),
		"articles": matches,
	})
}

// ArticlesBySymbol returns stored articles for one stock symbol
func (h *Handlers) ArticlesBySymbol(w http.ResponseWriter, r *http.Request) {
	if h.repos == nil {
		writeError(w, http.StatusNotFound, "article storage is not enabled")
		return
	}
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	articles, err := h.repos.Articles.ListByStock(r.Context(), symbol, persistence.TimeRange{End: time.Now()}, 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query stored articles")
		return
	}
	if len(articles) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no stored articles for symbol %s", symbol))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":   symbol,
		"count":    len(articles),
		"articles": articles,
	})
}

// StockSentiment returns the mean compound score per stored stock symbol
func (h *Handlers) StockSentiment(w http.ResponseWriter, r *http.Request) {
	if h.repos == nil {
		writeError(w, http.StatusNotFound, "score storage is not enabled")
		return
	}

	means, err := h.repos.Scores.MeanCompoundByStock(r.Context(), persistence.TimeRange{End: time.Now()})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to aggregate stored scores")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(means),
		"stocks": means,
	})
}

// Runs returns the recent pipeline run history, newest first
func (h *Handlers) Runs(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(filepath.Join(h.artifactsDir, "runs.jsonl"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no runs recorded")
		return
	}
	defer f.Close()

	var runs []pipeline.RunResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var run pipeline.RunResult
		if err := json.Unmarshal(scanner.Bytes(), &run); err != nil {
			continue
		}
		runs = append(runs, run)
	}

	// newest first
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	if len(runs) > 20 {
		runs = runs[:20]
	}

	writeJSON(w, http.StatusOK, map[string]any{"count": len(runs), "runs": runs})
}

// NotFound handles unknown routes
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown route: %s", r.URL.Path))
}

// readArtifact loads a JSON artifact or writes a 404 response
func (h *Handlers) readArtifact(w http.ResponseWriter, name string, v any) bool {
	b, err := os.ReadFile(filepath.Join(h.outDir, name))
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("artifact %s not available; run the pipeline first", name))
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("artifact %s is corrupt", name))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
