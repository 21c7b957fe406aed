package extract

import (
	"net/url"
	"strings"
	"testing"
)

func TestFromHTML_PrefersArticleOverBody(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>NSF Announces Awards</title></head>
      <body>
        <nav>Nav should be ignored</nav>
        <div class="cookie-banner">We use cookies</div>
        <article>
          <h1>NSF Announces Awards</h1>
          <p>The agency will fund twelve regional innovation engines.</p>
        </article>
        <footer>Footer text</footer>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Title != "NSF Announces Awards" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "twelve regional innovation engines") {
		t.Fatalf("expected article paragraph; got %q", doc.Text)
	}
	for _, unwanted := range []string{"Nav should be ignored", "Footer text", "We use cookies"} {
		if strings.Contains(doc.Text, unwanted) {
			t.Fatalf("did not expect %q in %q", unwanted, doc.Text)
		}
	}
}

func TestFromHTML_FallbackToBody(t *testing.T) {
	html := `<html><head><title>No Main</title></head>
      <body><h2>Body Heading</h2><p>Body paragraph</p></body></html>`

	doc := FromHTML([]byte(html))
	if doc.Title != "No Main" {
		t.Fatalf("expected title 'No Main', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "Body Heading") || !strings.Contains(doc.Text, "Body paragraph") {
		t.Fatalf("expected body text; got %q", doc.Text)
	}
}

func TestFromHTML_ListItemsOnSeparateLines(t *testing.T) {
	html := `<html><body><main><ul><li>First item</li><li>Second item</li></ul></main></body></html>`
	doc := FromHTML([]byte(html))
	if !strings.Contains(doc.Text, "First item\nSecond item") {
		t.Fatalf("expected list items on their own lines; got %q", doc.Text)
	}
}

func TestParagraphExtractor_UsesFirstRichSelector(t *testing.T) {
	html := `<html><head><title>Grant news</title></head><body>
      <p>Sidebar blurb that is long enough to count.</p>
      <div class="entry-content">
        <p>First paragraph of the story about federal grants.</p>
        <p>Second paragraph describing the university consortium.</p>
        <p>Third paragraph quoting the program director at length.</p>
        <p>short</p>
      </div></body></html>`

	doc := ParagraphExtractor{}.Extract([]byte(html), nil)
	if doc.Title != "Grant news" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if strings.Contains(doc.Text, "Sidebar blurb") {
		t.Fatalf("expected entry-content selector to win; got %q", doc.Text)
	}
	if strings.Count(doc.Text, "\n\n") != 2 {
		t.Fatalf("expected three paragraphs; got %q", doc.Text)
	}
	if strings.Contains(doc.Text, "short") {
		t.Fatalf("expected short paragraph to be dropped; got %q", doc.Text)
	}
}

type fixedExtractor struct{ text string }

func (f fixedExtractor) Extract([]byte, *url.URL) Document { return Document{Text: f.text} }

type panicExtractor struct{}

func (panicExtractor) Extract([]byte, *url.URL) Document { panic("boom") }

func TestChain_FirstSufficientWins(t *testing.T) {
	c := Chain{
		Extractors: []Extractor{fixedExtractor{"tiny"}, fixedExtractor{strings.Repeat("a", 50)}, fixedExtractor{strings.Repeat("b", 80)}},
		MinChars:   40,
	}
	got := c.Extract([]byte("<p>x</p>"), nil)
	if got.Text != strings.Repeat("a", 50) {
		t.Fatalf("expected second extractor to win; got %q", got.Text)
	}
}

func TestChain_FallsBackToLongest(t *testing.T) {
	c := Chain{
		Extractors: []Extractor{fixedExtractor{"abc"}, panicExtractor{}, fixedExtractor{"abcdef"}},
		MinChars:   100,
	}
	if got := c.Extract(nil, nil); got.Text != "abcdef" {
		t.Fatalf("expected longest text; got %q", got.Text)
	}
}

func TestText_NeverPanics(t *testing.T) {
	if got := Text(panicExtractor{}, []byte("<html></html>"), "https://example.gov/a"); got != "" {
		t.Fatalf("expected empty text; got %q", got)
	}
	if got := Text(Default(), nil, "::bad"); got != "" {
		t.Fatalf("expected empty text for empty input; got %q", got)
	}
}

func TestDefault_ExtractsNewsPage(t *testing.T) {
	body := strings.Repeat("Universities received new federal research grants this week. ", 10)
	html := `<html><head><title>Funding</title></head><body><article><h1>Funding</h1><p>` + body + `</p><p>` + body + `</p></article></body></html>`
	got := Text(Default(), []byte(html), "https://news.example.edu/story")
	if !strings.Contains(got, "federal research grants") {
		t.Fatalf("expected story text; got %q", got)
	}
}
