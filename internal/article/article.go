package article

// Article is a news item as it moves through the pipeline. Search creates it
// without content, the scraper attaches Content and the scorer attaches
// Score. Stages return modified copies instead of mutating shared records.
type Article struct {
	Link           string   `json:"link"`
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	PublishedLabel string   `json:"date"`
	Snippet        string   `json:"snippet,omitempty"`
	Content        string   `json:"full_content,omitempty"`
	Score          *float64 `json:"relevance_score,omitempty"`
}

// HasContent reports whether the scraper produced any body text.
func (a Article) HasContent() bool { return a.Content != "" }

// WithContent returns a copy carrying the extracted body text.
func (a Article) WithContent(text string) Article {
	a.Content = text
	return a
}

// WithScore returns a copy carrying the relevance score.
func (a Article) WithScore(score float64) Article {
	s := score
	a.Score = &s
	return a
}

// ScoreValue returns the score or 0 when the article has not been scored.
func (a Article) ScoreValue() float64 {
	if a.Score == nil {
		return 0
	}
	return *a.Score
}
