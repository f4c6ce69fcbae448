package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/config"
)

const samplePage = `<html><body>
<ul class="headlines">
  <li><a class="story" href="/news/1">Apple surges on earnings beat</a></li>
  <li><a class="story" href="/news/2">Tesla shares fall after recall</a></li>
  <li><a class="story" href="/news/3">   </a></li>
</ul>
</body></html>`

func newTestFetcher(sources ...config.SourceConfig) *Fetcher {
	return NewFetcher(config.FetchConfig{
		Sources:           sources,
		RequestsPerSecond: 100,
		Burst:             10,
		Timeout:           time.Second,
	}, nil)
}

func TestFetchAll_ExtractsHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := newTestFetcher(config.SourceConfig{
		Name:             "test",
		URL:              srv.URL,
		HeadlineSelector: "a.story",
		Stock:            "aapl",
	})

	articles, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2, "blank headlines are dropped")

	assert.Equal(t, "Apple surges on earnings beat", articles[0].Headline)
	assert.Equal(t, "/news/1", articles[0].URL)
	assert.Equal(t, "AAPL", articles[0].Stock)
	assert.NotEmpty(t, articles[0].Publisher)
}

func TestFetchAll_PartialFailureTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := newTestFetcher(
		config.SourceConfig{Name: "down", URL: "http://127.0.0.1:1", HeadlineSelector: "a"},
		config.SourceConfig{Name: "up", URL: srv.URL, HeadlineSelector: "a.story"},
	)

	articles, err := f.FetchAll(context.Background())
	require.NoError(t, err, "one live source keeps the fetch alive")
	assert.Len(t, articles, 2)
}

func TestFetchAll_AllSourcesFailed(t *testing.T) {
	f := newTestFetcher(
		config.SourceConfig{Name: "down", URL: "http://127.0.0.1:1", HeadlineSelector: "a"},
	)

	_, err := f.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sources failed")
}

func TestFetchAll_NoSources(t *testing.T) {
	f := newTestFetcher()
	_, err := f.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestFetchSource_SelectorMissesEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>no headlines here</p></body></html>`))
	}))
	defer srv.Close()

	f := newTestFetcher(config.SourceConfig{Name: "empty", URL: srv.URL, HeadlineSelector: "a.story"})
	_, err := f.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{RequestsPerSecond: 100, Burst: 10, Timeout: time.Second})
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{RequestsPerSecond: 1000, Burst: 100, Timeout: time.Second})

	for i := 0; i < 5; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.Error(t, err)
	}

	// Breaker is now open; the request fails without reaching the server
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func TestPublisherFromURL(t *testing.T) {
	assert.Equal(t, "reuters.com", publisherFromURL("https://www.reuters.com/markets"))
	assert.Equal(t, "benzinga.com", publisherFromURL("https://benzinga.com/news"))
}
