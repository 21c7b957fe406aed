package scrape

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperifyio/fedwatch/internal/article"
	"github.com/hyperifyio/fedwatch/internal/extract"
)

type fakeGetter struct {
	mu       sync.Mutex
	calls    map[string]int
	inFlight int32
	peak     int32
	delay    time.Duration
	fail     map[string]bool
}

func (f *fakeGetter) Get(_ context.Context, u string) ([]byte, string, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if cur <= p || atomic.CompareAndSwapInt32(&f.peak, p, cur) {
			break
		}
	}
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[u]++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail[u] {
		return nil, "", errors.New("connection refused")
	}
	return []byte("<html><body>" + u + "</body></html>"), "text/html", nil
}

// echoExtractor returns the raw page so tests can see which URL was fetched.
type echoExtractor struct{}

func (echoExtractor) Extract(input []byte, _ *url.URL) extract.Document {
	return extract.Document{Text: string(input)}
}

func articles(n int) []article.Article {
	out := make([]article.Article, n)
	for i := range out {
		out[i] = article.Article{Link: "https://example.gov/" + string(rune('a'+i)), Title: "t"}
	}
	return out
}

func TestScrapeAll_SequentialPreservesOrder(t *testing.T) {
	g := &fakeGetter{}
	s := &Scraper{Getter: g, Extractor: echoExtractor{}}
	in := articles(4)
	out := s.ScrapeAll(context.Background(), in)
	if len(out) != len(in) {
		t.Fatalf("expected %d articles, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].Link != in[i].Link || !strings.Contains(out[i].Content, in[i].Link) {
			t.Fatalf("slot %d mismatched: %+v", i, out[i])
		}
		if g.calls[in[i].Link] != 1 {
			t.Fatalf("expected exactly one fetch of %s, got %d", in[i].Link, g.calls[in[i].Link])
		}
	}
	if g.peak != 1 {
		t.Fatalf("sequential mode should never overlap fetches, peak=%d", g.peak)
	}
	if in[0].Content != "" {
		t.Fatalf("input must not be mutated")
	}
}

func TestScrapeAll_ParallelRespectsLimitAndOrder(t *testing.T) {
	g := &fakeGetter{delay: 20 * time.Millisecond}
	s := &Scraper{Getter: g, Extractor: echoExtractor{}, Mode: Parallel, Concurrency: 2}
	in := articles(6)
	out := s.ScrapeAll(context.Background(), in)
	for i := range in {
		if !strings.Contains(out[i].Content, in[i].Link) {
			t.Fatalf("slot %d holds wrong content %q", i, out[i].Content)
		}
	}
	if g.peak > 2 {
		t.Fatalf("expected at most 2 concurrent fetches, peak=%d", g.peak)
	}
}

func TestScrape_FailureYieldsEmptyContent(t *testing.T) {
	in := articles(2)
	g := &fakeGetter{fail: map[string]bool{in[1].Link: true}}
	s := &Scraper{Getter: g, Extractor: echoExtractor{}, Mode: Parallel}
	out := s.ScrapeAll(context.Background(), in)
	if !out[0].HasContent() {
		t.Fatalf("expected first article to have content")
	}
	if out[1].HasContent() {
		t.Fatalf("expected failed article to have empty content")
	}
	kept := WithContent(out)
	if len(kept) != 1 || kept[0].Link != in[0].Link {
		t.Fatalf("expected only the scraped article to remain, got %+v", kept)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": Sequential, "sequential": Sequential, " Parallel ": Parallel}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("turbo"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

type panickingGetter struct{ bad string }

func (p panickingGetter) Get(_ context.Context, u string) ([]byte, string, error) {
	if u == p.bad {
		panic("getter exploded")
	}
	return []byte("<html><body>" + u + "</body></html>"), "text/html", nil
}

func TestScrapeAll_ParallelPanicLeavesEmptyContent(t *testing.T) {
	in := articles(3)
	s := &Scraper{Getter: panickingGetter{bad: in[1].Link}, Extractor: echoExtractor{}, Mode: Parallel, Concurrency: 2}
	out := s.ScrapeAll(context.Background(), in)
	if len(out) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(out))
	}
	if out[1].HasContent() {
		t.Fatalf("panicking fetch should leave empty content, got %q", out[1].Content)
	}
	if !strings.Contains(out[0].Content, in[0].Link) || !strings.Contains(out[2].Content, in[2].Link) {
		t.Fatalf("other articles should still be scraped: %+v", out)
	}
}
