package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/fedwatch/internal/article"
)

// Result represents a single news hit from any provider.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"` // free-text label as returned by the provider
	Snippet string `json:"snippet"`
	// Keyword optionally scopes fixture results to one exact-phrase keyword.
	Keyword string `json:"keyword,omitempty"`
}

// Article converts the hit into a pipeline record without content.
func (r Result) Article() article.Article {
	return article.Article{
		Link:           r.Link,
		Title:          r.Title,
		Source:         r.Source,
		PublishedLabel: r.Date,
		Snippet:        r.Snippet,
	}
}

// Provider is a minimal interface for news search providers.
type Provider interface {
	Search(ctx context.Context, query string, window Window) ([]Result, error)
	Name() string
}

// Window is the date-window code of a search: past week, month or year.
type Window string

const (
	Week  Window = "w"
	Month Window = "m"
	Year  Window = "y"
)

// ErrInvalidWindow is returned by ParseWindow for unknown codes.
var ErrInvalidWindow = errors.New("invalid date filter")

// ParseWindow accepts "w", "m" or "y". Empty input means Week.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case "", Week:
		return Week, nil
	case Month:
		return Month, nil
	case Year:
		return Year, nil
	}
	return "", fmt.Errorf("%w: %q (want w, m or y)", ErrInvalidWindow, s)
}

// TBS returns the Google "tbs" time filter for the window.
func (w Window) TBS() string {
	return "qdr:" + string(w.orWeek())
}

// TimeRange returns the SearxNG time_range value for the window.
func (w Window) TimeRange() string {
	switch w.orWeek() {
	case Month:
		return "month"
	case Year:
		return "year"
	}
	return "week"
}

// When returns the Google News RSS "when:" operator value for the window.
func (w Window) When() string {
	switch w.orWeek() {
	case Month:
		return "30d"
	case Year:
		return "1y"
	}
	return "7d"
}

func (w Window) orWeek() Window {
	if w == "" {
		return Week
	}
	return w
}
