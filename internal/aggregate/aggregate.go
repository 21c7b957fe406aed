package aggregate

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/fedwatch/internal/article"
	"github.com/hyperifyio/fedwatch/internal/search"
)

// DefaultMaxFetch bounds how many unique articles continue to scraping.
const DefaultMaxFetch = 7

// Dedupe merges per-query result lists into unique articles keyed by
// canonical link. Groups are walked in query order and results in returned
// order; the first record seen for a link is kept unmodified and later
// duplicates are discarded. The output holds at most maxFetch articles
// (DefaultMaxFetch when maxFetch <= 0).
func Dedupe(groups [][]search.Result, maxFetch int) []article.Article {
	if maxFetch <= 0 {
		maxFetch = DefaultMaxFetch
	}
	seen := map[string]struct{}{}
	out := make([]article.Article, 0, maxFetch)
	for _, g := range groups {
		for _, r := range g {
			if strings.TrimSpace(r.Link) == "" {
				continue
			}
			key := CanonicalLink(r.Link)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r.Article())
			if len(out) >= maxFetch {
				return out
			}
		}
	}
	return out
}

// CanonicalLink returns the deduplication key for an article URL: fragment
// dropped, host lower-cased, default ports and common tracking parameters
// removed. Unparsable links fall back to the trimmed input.
func CanonicalLink(raw string) string {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	normalizeURL(u)
	return u.String()
}

func normalizeURL(u *url.URL) {
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) || (u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Hostname()
	}
	if u.RawQuery == "" {
		return
	}
	q := u.Query()
	// Remove common tracking params
	for _, p := range []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"} {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
}
