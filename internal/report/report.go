// Package report ranks scored articles and renders the Markdown report.
package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hyperifyio/fedwatch/internal/article"
	"github.com/hyperifyio/fedwatch/internal/summarize"
)

const (
	// DefaultTitle heads the report when none is configured.
	DefaultTitle = "Fed Landscape Report"
	// DefaultTopN is the maximum number of articles in a report.
	DefaultTopN = 7
	// Intro is the fixed line under the report title.
	Intro = "This report summarizes recent federal activities affecting universities and innovation ecosystems."
)

// Summarizer produces a summary for one article body. It must be total.
type Summarizer interface {
	Summarize(ctx context.Context, text string) summarize.Summary
}

// Entry is one selected article with its summary.
type Entry struct {
	Article article.Article   `json:"article"`
	Summary summarize.Summary `json:"summary"`
}

// Report is the assembled result. Markdown is the canonical rendering.
type Report struct {
	Title    string
	Entries  []Entry
	Markdown string
}

// Articles returns the selected articles in report order.
func (r Report) Articles() []article.Article {
	out := make([]article.Article, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Article
	}
	return out
}

// Assembler selects the top articles, summarizes them and renders Markdown.
type Assembler struct {
	Summarizer Summarizer
	Title      string
	TopN       int
}

// Assemble sorts by score descending (stable on ties), keeps the top N,
// summarizes each in order and renders the report. It has no side effects
// beyond the summarizer calls.
func (a *Assembler) Assemble(ctx context.Context, scored []article.Article) Report {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		title = DefaultTitle
	}
	top := Select(scored, a.topN())
	entries := make([]Entry, len(top))
	for i, art := range top {
		var sum summarize.Summary
		if a.Summarizer != nil {
			sum = a.Summarizer.Summarize(ctx, art.Content)
		} else {
			sum = summarize.Summary{Paragraph: summarize.NotConfiguredText}
		}
		entries[i] = Entry{Article: art, Summary: sum}
	}
	return Report{Title: title, Entries: entries, Markdown: Render(title, entries)}
}

func (a *Assembler) topN() int {
	if a.TopN > 0 {
		return a.TopN
	}
	return DefaultTopN
}

// Select returns at most n articles ordered by descending score. Equal
// scores keep their input order.
func Select(scored []article.Article, n int) []article.Article {
	sorted := make([]article.Article, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScoreValue() > sorted[j].ScoreValue()
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Percent renders a score as a whole percentage, rounding down.
func Percent(score float64) int {
	return int(math.Floor(score * 100))
}

// Render produces the Markdown for a report. It is pure.
func Render(title string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n---\n\n", title, Intro)
	for _, e := range entries {
		art := e.Article
		fmt.Fprintf(&b, "## %s\n", orDefault(art.Title, "No Title"))
		fmt.Fprintf(&b, "**Source:** %s\n", orDefault(art.Source, "N/A"))
		fmt.Fprintf(&b, "**Relevance:** %d%%\n\n", Percent(art.ScoreValue()))
		b.WriteString("**Summary:**\n")
		if p := strings.TrimSpace(e.Summary.Paragraph); p != "" {
			b.WriteString(p)
			b.WriteString("\n")
		}
		if len(e.Summary.Points) > 0 {
			b.WriteString("\n")
			for _, pt := range e.Summary.Points {
				fmt.Fprintf(&b, "- %s\n", pt)
			}
		}
		fmt.Fprintf(&b, "\n[Read Full Article](%s)\n\n---\n\n", orDefault(art.Link, "#"))
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
