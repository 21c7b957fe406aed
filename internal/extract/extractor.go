package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"
)

// Extractor defines a minimal interface for content extraction strategies.
// Implementations can swap readability tactics without changing callers.
type Extractor interface {
	// Extract converts raw HTML bytes into a simplified Document. An empty
	// Text means nothing usable was found.
	Extract(input []byte, pageURL *url.URL) Document
}

// HeuristicExtractor uses FromHTML: <article>/<main>/<body> text with light
// boilerplate removal.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(input []byte, _ *url.URL) Document {
	return FromHTML(input)
}

// ReadabilityExtractor runs Mozilla's Readability algorithm, the best
// general-purpose main-body detector for news pages.
type ReadabilityExtractor struct{}

func (ReadabilityExtractor) Extract(input []byte, pageURL *url.URL) Document {
	if pageURL == nil {
		pageURL = &url.URL{Scheme: "https", Host: "localhost"}
	}
	art, err := readability.FromReader(bytes.NewReader(input), pageURL)
	if err != nil {
		return Document{}
	}
	return Document{Title: strings.TrimSpace(art.Title), Text: normalizeWhitespace(art.TextContent)}
}

// paragraphSelectors are tried in order until enough paragraphs are found.
var paragraphSelectors = []string{
	"article p",
	".article p",
	".article-body p",
	".content p",
	".post-content p",
	".entry-content p",
	"main p",
	"#content p",
	"p",
}

// ParagraphExtractor collects <p> text from the first selector that yields
// at least MinParagraphs paragraphs longer than MinParagraphChars.
type ParagraphExtractor struct {
	MinParagraphs     int
	MinParagraphChars int
}

func (p ParagraphExtractor) Extract(input []byte, _ *url.URL) Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
	if err != nil {
		return Document{}
	}
	minParas := p.MinParagraphs
	if minParas <= 0 {
		minParas = 3
	}
	minChars := p.MinParagraphChars
	if minChars <= 0 {
		minChars = 20
	}
	var best []string
	for _, sel := range paragraphSelectors {
		var paragraphs []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len(text) > minChars {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > len(best) {
			best = paragraphs
		}
		if len(best) >= minParas {
			break
		}
	}
	return Document{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Text:  strings.Join(best, "\n\n"),
	}
}

// Chain tries each extractor in order and returns the first document whose
// text reaches MinChars. When none does, the longest text wins.
type Chain struct {
	Extractors []Extractor
	MinChars   int
}

// Default returns readability, then the paragraph ladder, then the heuristic.
func Default() Chain {
	return Chain{
		Extractors: []Extractor{ReadabilityExtractor{}, ParagraphExtractor{}, HeuristicExtractor{}},
		MinChars:   200,
	}
}

func (c Chain) Extract(input []byte, pageURL *url.URL) Document {
	var best Document
	for _, ex := range c.Extractors {
		doc := safeExtract(ex, input, pageURL)
		if len(doc.Text) >= c.MinChars && !doc.Empty() {
			return doc
		}
		if len(doc.Text) > len(best.Text) {
			best = doc
		}
	}
	return best
}

// Text runs ex over the page and returns the body text, or "" when nothing
// usable was extracted. It never panics.
func Text(ex Extractor, input []byte, pageURL string) string {
	if ex == nil || len(bytes.TrimSpace(input)) == 0 {
		return ""
	}
	u, _ := url.Parse(pageURL)
	return strings.TrimSpace(safeExtract(ex, input, u).Text)
}

// safeExtract shields callers from parser panics on hostile markup.
func safeExtract(ex Extractor, input []byte, pageURL *url.URL) (doc Document) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("extractor panicked; treating page as empty")
			doc = Document{}
		}
	}()
	return ex.Extract(input, pageURL)
}
