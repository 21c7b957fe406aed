package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// GoogleNewsRSS implements Provider on top of the public Google News RSS
// search feed. It needs no API key, which makes it the keyless fallback.
type GoogleNewsRSS struct {
	BaseURL    string // defaults to https://news.google.com/rss/search
	Language   string // hl parameter, defaults to en-US
	Region     string // gl parameter, defaults to US
	HTTPClient *http.Client
	UserAgent  string
}

func (g *GoogleNewsRSS) Name() string { return "rss" }

func (g *GoogleNewsRSS) Search(ctx context.Context, query string, window Window) ([]Result, error) {
	base := g.BaseURL
	if base == "" {
		base = "https://news.google.com/rss/search"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	lang, region := g.Language, g.Region
	if lang == "" {
		lang = "en-US"
	}
	if region == "" {
		region = "US"
	}
	q := u.Query()
	q.Set("q", query+" when:"+window.When())
	q.Set("hl", lang)
	q.Set("gl", region)
	q.Set("ceid", region+":"+strings.SplitN(lang, "-", 2)[0])
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}
	hc := g.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rss status: %d", resp.StatusCode)
	}
	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}
	out := make([]Result, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		title, source := splitSourceSuffix(strings.TrimSpace(item.Title))
		if source == "" {
			if pu, err := url.Parse(item.Link); err == nil {
				source = strings.TrimPrefix(pu.Hostname(), "www.")
			}
		}
		out = append(out, Result{
			Title:   title,
			Link:    strings.TrimSpace(item.Link),
			Source:  source,
			Date:    strings.TrimSpace(item.Published),
			Snippet: strings.TrimSpace(item.Description),
		})
	}
	return out, nil
}

// splitSourceSuffix splits Google News titles of the form "Headline - Outlet".
func splitSourceSuffix(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}
