// Package recency classifies free-text publication labels as recent or stale.
package recency

import (
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/fedwatch/internal/article"
)

// DefaultLookback is how many calendar years before the current one are
// treated as stale markers.
const DefaultLookback = 9

var recentTokens = []string{"hour", "day", "week", "ago", "minute"}

// Classifier is a purely lexical recency check. Search providers already
// apply a date window, so labels that carry no signal are kept.
type Classifier struct {
	// Now returns the reference time. Nil means time.Now.
	Now func() time.Time
	// Lookback is the number of past years considered stale. Zero means DefaultLookback.
	Lookback int
}

// IsRecent reports whether label looks recent: it mentions a relative
// marker or the current year, or it carries no past-year literal at all.
func (c Classifier) IsRecent(label string) bool {
	l := strings.ToLower(label)
	for _, tok := range recentTokens {
		if strings.Contains(l, tok) {
			return true
		}
	}
	year := c.now().Year()
	if strings.Contains(l, strconv.Itoa(year)) {
		return true
	}
	for _, y := range c.PastYears() {
		if strings.Contains(l, y) {
			return false
		}
	}
	return true
}

// PastYears lists the stale year literals, most recent first.
func (c Classifier) PastYears() []string {
	n := c.Lookback
	if n <= 0 {
		n = DefaultLookback
	}
	year := c.now().Year()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, strconv.Itoa(year-i))
	}
	return out
}

// Filter keeps the recent articles in their original order.
func (c Classifier) Filter(articles []article.Article) []article.Article {
	kept := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if c.IsRecent(a.PublishedLabel) {
			kept = append(kept, a)
		}
	}
	return kept
}

func (c Classifier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
