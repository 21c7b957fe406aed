// Package relevance scores article text against a natural-language context.
package relevance

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/fedwatch/internal/article"
	"github.com/hyperifyio/fedwatch/internal/budget"
	"github.com/hyperifyio/fedwatch/internal/llm"
)

// MinScore is assigned when no score can be computed.
const MinScore = 0.0

// Scorer rates content against a relevance context. Implementations are
// total: they always return a value in [0,1] and never an error.
type Scorer interface {
	Score(ctx context.Context, content, relevanceContext string) float64
}

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ScoreAll returns scored copies of articles in their original order.
func ScoreAll(ctx context.Context, s Scorer, articles []article.Article, relevanceContext string) []article.Article {
	out := make([]article.Article, len(articles))
	for i, a := range articles {
		score := MinScore
		if s != nil {
			score = Clamp(s.Score(ctx, a.Content, relevanceContext))
		}
		log.Debug().Str("url", a.Link).Float64("score", score).Msg("scored")
		out[i] = a.WithScore(score)
	}
	return out
}

const scoreSystemPrompt = "You rate how relevant a news article is to a stated interest. " +
	"Respond with strict JSON of the form {\"score\": <number between 0 and 1>} and nothing else."

// LLMScorer asks a chat model for a JSON score. A missing client, a failed
// call or an unparsable reply all score MinScore, so a failed article never
// outranks one the model actually scored.
type LLMScorer struct {
	Client llm.Client
	Model  string
}

func (s *LLMScorer) Score(ctx context.Context, content, relevanceContext string) float64 {
	if strings.TrimSpace(content) == "" {
		return MinScore
	}
	if s.Client == nil {
		return MinScore
	}
	user := "Interest: " + relevanceContext + "\n\nArticle:\n"
	text := budget.FitArticle(s.Model, scoreSystemPrompt, user, content, 64)
	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scoreSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user + text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0,
		MaxTokens:      64,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("relevance scoring call failed; using minimum score")
		return MinScore
	}
	raw, err := llm.FirstContent(resp)
	if err != nil {
		log.Warn().Err(err).Msg("empty relevance reply; using minimum score")
		return MinScore
	}
	v, err := ParseScore(raw)
	if err != nil {
		log.Warn().Err(err).Str("reply", raw).Msg("malformed relevance reply; using minimum score")
		return MinScore
	}
	return Clamp(v)
}

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// ParseScore reads {"score": x} from a model reply, tolerating code fences.
func ParseScore(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	var out struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("decode score: %w", err)
	}
	if out.Score == nil {
		return 0, fmt.Errorf("decode score: missing \"score\" field")
	}
	return *out.Score, nil
}
