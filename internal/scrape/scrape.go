// Package scrape attaches extracted page text to articles.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/fedwatch/internal/article"
	"github.com/hyperifyio/fedwatch/internal/extract"
)

// Mode selects how ScrapeAll schedules page fetches.
type Mode string

const (
	// Sequential scrapes one article at a time, keeping at most one page in memory.
	Sequential Mode = "sequential"
	// Parallel scrapes articles concurrently, bounded by Scraper.Concurrency.
	Parallel Mode = "parallel"
)

// ParseMode maps a configuration string to a Mode. Empty means Sequential.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Sequential:
		return Sequential, nil
	case Parallel:
		return Parallel, nil
	default:
		return "", fmt.Errorf("unknown scrape mode %q (want sequential or parallel)", s)
	}
}

// Getter is the subset of fetch.Client the scraper needs.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Scraper fetches each article's page once and extracts its main text.
type Scraper struct {
	Getter    Getter
	Extractor extract.Extractor
	Mode      Mode
	// Concurrency caps in-flight fetches in Parallel mode. Zero means one per article.
	Concurrency int
}

// Scrape returns a copy of a with Content set. Any fetch or extraction
// failure, including a panic in the getter, yields the article with empty
// content.
func (s *Scraper) Scrape(ctx context.Context, a article.Article) (out article.Article) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("url", a.Link).Msg("scrape panicked; using empty content")
			out = a.WithContent("")
		}
	}()
	if s.Getter == nil || strings.TrimSpace(a.Link) == "" {
		return a.WithContent("")
	}
	start := time.Now()
	body, _, err := s.Getter.Get(ctx, a.Link)
	if err != nil {
		log.Warn().Err(err).Str("url", a.Link).Msg("scrape failed")
		return a.WithContent("")
	}
	ex := s.Extractor
	if ex == nil {
		ex = extract.Default()
	}
	text := extract.Text(ex, body, a.Link)
	log.Debug().Str("url", a.Link).Int("chars", len(text)).Dur("took", time.Since(start)).Msg("scraped")
	return a.WithContent(text)
}

// ScrapeAll scrapes every article exactly once. The output has the same
// length and order as the input.
func (s *Scraper) ScrapeAll(ctx context.Context, articles []article.Article) []article.Article {
	out := make([]article.Article, len(articles))
	if s.Mode != Parallel {
		for i, a := range articles {
			out[i] = s.Scrape(ctx, a)
		}
		return out
	}
	var g errgroup.Group
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}
	for i, a := range articles {
		i, a := i, a
		g.Go(func() error {
			out[i] = s.Scrape(ctx, a)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// WithContent filters out articles whose scrape produced no text.
func WithContent(articles []article.Article) []article.Article {
	kept := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if a.HasContent() {
			kept = append(kept, a)
			continue
		}
		log.Warn().Str("url", a.Link).Msg("dropping article without extractable content")
	}
	return kept
}
