package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/dataset"
	"github.com/finsight/finsight/internal/metrics"
)

// Fetcher collects headlines from configured HTML sources
type Fetcher struct {
	client  *Client
	sources []config.SourceConfig
	metrics *metrics.Registry
}

// NewFetcher creates a fetcher over the configured sources
func NewFetcher(cfg config.FetchConfig, reg *metrics.Registry) *Fetcher {
	return &Fetcher{
		client: NewClient(ClientConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Timeout:           cfg.Timeout,
		}),
		sources: cfg.Sources,
		metrics: reg,
	}
}

// FetchAll collects articles from every source. A failing source is logged
// and skipped; the fetch fails only when every source fails.
func (f *Fetcher) FetchAll(ctx context.Context) ([]dataset.Article, error) {
	if len(f.sources) == 0 {
		return nil, fmt.Errorf("no fetch sources configured")
	}

	var all []dataset.Article
	failures := 0

	for _, src := range f.sources {
		articles, err := f.fetchSource(ctx, src)
		if err != nil {
			failures++
			f.observeRequest(src.Name, "error")
			log.Warn().Str("source", src.Name).Err(err).Msg("Source fetch failed")
			continue
		}
		f.observeRequest(src.Name, "ok")
		log.Info().Str("source", src.Name).Int("articles", len(articles)).Msg("Source fetched")
		all = append(all, articles...)
	}

	if failures == len(f.sources) {
		return nil, fmt.Errorf("all %d sources failed", failures)
	}

	if f.metrics != nil {
		f.metrics.FetchArticles.Add(float64(len(all)))
	}

	return all, nil
}

// fetchSource pulls one source page and extracts headlines via its selector
func (f *Fetcher) fetchSource(ctx context.Context, src config.SourceConfig) ([]dataset.Article, error) {
	body, err := f.client.Get(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	publisher := publisherFromURL(src.URL)
	now := time.Now().UTC()

	var articles []dataset.Article
	doc.Find(src.HeadlineSelector).Each(func(i int, sel *goquery.Selection) {
		headline := strings.TrimSpace(sel.Text())
		if headline == "" {
			return
		}

		a := dataset.Article{
			Headline:  headline,
			Publisher: publisher,
			Date:      now,
			Stock:     strings.ToUpper(src.Stock),
		}
		if href, ok := sel.Attr("href"); ok {
			a.URL = href
		} else if src.LinkSelector != "" {
			if href, ok := sel.Find(src.LinkSelector).Attr("href"); ok {
				a.URL = href
			}
		}
		articles = append(articles, a)
	})

	if len(articles) == 0 {
		return nil, fmt.Errorf("selector %q matched nothing at %s", src.HeadlineSelector, src.URL)
	}

	return articles, nil
}

func (f *Fetcher) observeRequest(source, outcome string) {
	if f.metrics != nil {
		f.metrics.FetchRequests.WithLabelValues(source, outcome).Inc()
	}
}

func publisherFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}
