package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>news</title>
<item><title>NSF expands AI institutes - National Science Foundation</title><link>https://nsf.gov/ai</link><pubDate>Mon, 12 Oct 2026 10:00:00 GMT</pubDate><description>desc</description></item>
<item><title>Untitled outlet</title><link>https://www.energy.gov/x</link></item>
</channel></rss>`

func TestGoogleNewsRSS_Search(t *testing.T) {
	var q string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	g := &GoogleNewsRSS{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := g.Search(context.Background(), `"AI"`, Week)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.HasSuffix(q, "when:7d") {
		t.Fatalf("expected when operator in query, got %q", q)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Title != "NSF expands AI institutes" || got[0].Source != "National Science Foundation" {
		t.Fatalf("unexpected first result: %+v", got[0])
	}
	if !strings.Contains(got[0].Date, "2026") {
		t.Fatalf("expected published label, got %q", got[0].Date)
	}
	if got[1].Source != "energy.gov" {
		t.Fatalf("expected host fallback source, got %q", got[1].Source)
	}
}
