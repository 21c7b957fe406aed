package article

import "testing"

func TestWithScore_DoesNotAliasOriginal(t *testing.T) {
	base := Article{Link: "https://example.gov/a"}
	scored := base.WithScore(0.75)
	if base.Score != nil {
		t.Fatalf("original article must stay unscored")
	}
	if scored.ScoreValue() != 0.75 {
		t.Fatalf("unexpected score: %v", scored.ScoreValue())
	}
	again := scored.WithScore(0.1)
	if scored.ScoreValue() != 0.75 || again.ScoreValue() != 0.1 {
		t.Fatalf("copies share score storage: %v %v", scored.ScoreValue(), again.ScoreValue())
	}
}

func TestWithContent(t *testing.T) {
	a := Article{Link: "x"}
	if a.HasContent() {
		t.Fatalf("expected no content")
	}
	b := a.WithContent("body")
	if !b.HasContent() || a.HasContent() {
		t.Fatalf("WithContent must return a new copy")
	}
}
