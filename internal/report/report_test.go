package report

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperifyio/fedwatch/internal/article"
	"github.com/hyperifyio/fedwatch/internal/summarize"
)

type recordingSummarizer struct{ seen []string }

func (r *recordingSummarizer) Summarize(_ context.Context, text string) summarize.Summary {
	r.seen = append(r.seen, text)
	return summarize.Summary{Paragraph: "About " + text + ".", Points: []string{"point for " + text}}
}

func scoredArticle(link string, score float64) article.Article {
	return article.Article{Link: link, Title: "Title " + link, Source: "Source " + link, Content: link}.WithScore(score)
}

func TestAssemble_SingleArticleFormat(t *testing.T) {
	a := &Assembler{Summarizer: &recordingSummarizer{}}
	r := a.Assemble(context.Background(), []article.Article{scoredArticle("https://nsf.gov/x", 0.9)})
	want := "# Fed Landscape Report\n\n" + Intro + "\n\n---\n\n" +
		"## Title https://nsf.gov/x\n" +
		"**Source:** Source https://nsf.gov/x\n" +
		"**Relevance:** 90%\n\n" +
		"**Summary:**\nAbout https://nsf.gov/x.\n\n- point for https://nsf.gov/x\n\n" +
		"[Read Full Article](https://nsf.gov/x)\n\n---\n\n"
	if r.Markdown != want {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", r.Markdown, want)
	}
}

func TestAssemble_TopSevenInScoreOrder(t *testing.T) {
	var in []article.Article
	for i := 0; i < 10; i++ {
		in = append(in, scoredArticle(fmt.Sprintf("a%d", i), float64(i)/10))
	}
	rec := &recordingSummarizer{}
	r := (&Assembler{Summarizer: rec}).Assemble(context.Background(), in)
	if len(r.Entries) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(r.Entries))
	}
	if r.Entries[0].Article.Link != "a9" || r.Entries[6].Article.Link != "a3" {
		t.Fatalf("unexpected order: first %s last %s", r.Entries[0].Article.Link, r.Entries[6].Article.Link)
	}
	if len(rec.seen) != 7 || rec.seen[0] != "a9" {
		t.Fatalf("expected 7 summaries in report order, got %v", rec.seen)
	}
	if strings.Count(r.Markdown, "\n## ") != 7 {
		t.Fatalf("expected 7 article sections")
	}
}

func TestSelect_StableOnTies(t *testing.T) {
	in := []article.Article{scoredArticle("first", 0.5), scoredArticle("second", 0.5), scoredArticle("top", 0.8)}
	got := Select(in, 7)
	if got[0].Link != "top" || got[1].Link != "first" || got[2].Link != "second" {
		t.Fatalf("unexpected order %v", []string{got[0].Link, got[1].Link, got[2].Link})
	}
}

func TestRender_Defaults(t *testing.T) {
	md := Render("Custom", []Entry{{Article: article.Article{}.WithScore(0.576)}})
	for _, want := range []string{"# Custom\n", "## No Title\n", "**Source:** N/A\n", "**Relevance:** 57%\n", "[Read Full Article](#)"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestPercent(t *testing.T) {
	cases := map[float64]int{0: 0, 0.9: 90, 0.29: 28, 0.999: 99, 1: 100, 0.57: 56, 0.5: 50}
	for in, want := range cases {
		if got := Percent(in); got != want {
			t.Fatalf("Percent(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestAssemble_EmptyInput(t *testing.T) {
	r := (&Assembler{Title: "Weekly"}).Assemble(context.Background(), nil)
	if len(r.Entries) != 0 || !strings.HasPrefix(r.Markdown, "# Weekly\n") {
		t.Fatalf("unexpected empty report %+v", r)
	}
}
