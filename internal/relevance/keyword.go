package relevance

import (
	"context"
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}&'-]*`)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true,
	"by": true, "for": true, "from": true, "in": true, "is": true, "it": true, "like": true,
	"of": true, "on": true, "or": true, "that": true, "the": true, "to": true, "with": true,
	"related": true, "relevant": true, "article": true, "discusses": true, "new": true,
	"affecting": true,
}

// KeywordScorer is a deterministic term-overlap scorer: the share of
// distinct context terms (stop words removed) that occur in the content.
type KeywordScorer struct{}

func (KeywordScorer) Score(_ context.Context, content, relevanceContext string) float64 {
	if strings.TrimSpace(content) == "" {
		return MinScore
	}
	terms := Terms(relevanceContext)
	if len(terms) == 0 {
		return MinScore
	}
	present := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(content), -1) {
		present[w] = true
	}
	hits := 0
	for _, t := range terms {
		if present[t] {
			hits++
		}
	}
	return Clamp(float64(hits) / float64(len(terms)))
}

// Terms returns the distinct lower-cased non-stop-word terms of s in order.
func Terms(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		w = strings.Trim(w, "'-")
		if len(w) < 2 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
