package relevance

import (
	"context"
	"errors"
	"math"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/fedwatch/internal/article"
)

type stubClient struct {
	reply string
	err   error
	calls int
	last  openai.ChatCompletionRequest
}

func (s *stubClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.reply}}}}, nil
}

type constScorer float64

func (c constScorer) Score(context.Context, string, string) float64 { return float64(c) }

func TestLLMScorer_ParsesJSON(t *testing.T) {
	c := &stubClient{reply: `{"score": 0.83}`}
	s := &LLMScorer{Client: c, Model: "gpt-4o"}
	got := s.Score(context.Background(), "NSF funds AI institutes", "AI research funding")
	if math.Abs(got-0.83) > 1e-9 {
		t.Fatalf("expected 0.83, got %v", got)
	}
	if c.last.ResponseFormat == nil || c.last.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatalf("expected JSON response format")
	}
}

func TestLLMScorer_ClampsOutOfRange(t *testing.T) {
	s := &LLMScorer{Client: &stubClient{reply: "```json\n{\"score\": 7}\n```"}}
	if got := s.Score(context.Background(), "text", "ctx"); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
}

func TestLLMScorer_FailuresScoreMinimum(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		client *stubClient
	}{
		{"api error", &stubClient{err: errors.New("503")}},
		{"malformed", &stubClient{reply: "very relevant"}},
		{"missing field", &stubClient{reply: `{"relevance": 0.4}`}},
	}
	for _, tc := range cases {
		s := &LLMScorer{Client: tc.client}
		if got := s.Score(ctx, "NSF grants fund university AI research", "AI research funding"); got != MinScore {
			t.Fatalf("%s: expected MinScore, got %v", tc.name, got)
		}
	}
	unconfigured := &LLMScorer{}
	if got := unconfigured.Score(ctx, "text", "ctx"); got != MinScore {
		t.Fatalf("missing client should score MinScore, got %v", got)
	}
}

func TestLLMScorer_EmptyContentSkipsModel(t *testing.T) {
	c := &stubClient{reply: `{"score": 0.9}`}
	s := &LLMScorer{Client: c}
	if got := s.Score(context.Background(), "   ", "ctx"); got != MinScore {
		t.Fatalf("expected MinScore, got %v", got)
	}
	if c.calls != 0 {
		t.Fatalf("expected no model call for empty content")
	}
}

func TestKeywordScorer(t *testing.T) {
	var k KeywordScorer
	ctx := "grants for universities related to semiconductors"
	got := k.Score(context.Background(), "The CHIPS act awards grants for semiconductors research.", ctx)
	// terms: grants, universities, semiconductors -> 2 of 3
	if math.Abs(got-2.0/3.0) > 1e-9 {
		t.Fatalf("expected 2/3, got %v", got)
	}
	if k.Score(context.Background(), "", ctx) != MinScore {
		t.Fatalf("empty content should score MinScore")
	}
}

func TestScoreAll_ReturnsCopies(t *testing.T) {
	in := []article.Article{{Link: "a", Content: "x"}, {Link: "b", Content: "y"}}
	out := ScoreAll(context.Background(), constScorer(1.5), in, "ctx")
	if len(out) != 2 || out[0].ScoreValue() != 1 || out[1].Link != "b" {
		t.Fatalf("unexpected result %+v", out)
	}
	if in[0].Score != nil {
		t.Fatalf("input must not be mutated")
	}
}
