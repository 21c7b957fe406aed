// Package summarize turns article text into a short paragraph plus bullet
// points using a chat model.
package summarize

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/fedwatch/internal/budget"
	"github.com/hyperifyio/fedwatch/internal/llm"
)

// MaxPoints caps the number of bullet points kept from a reply.
const MaxPoints = 5

// Placeholder paragraphs used when no model summary can be produced.
const (
	NoContentText     = "No content provided for summarization."
	NotConfiguredText = "Summarization is not configured."
	ServiceErrorText  = "Summary unavailable due to a summarization service error."
)

// DefaultSystemPrompt is the analyst persona used for every summary.
const DefaultSystemPrompt = "You are a specialized analyst for a university-focused real estate investment trust. " +
	"Read a news article and produce a concise, technical summary. " +
	"Focus on details relevant to federal grants, research funding, innovation ecosystems, " +
	"semiconductors, AI policy, and economic development affecting universities."

const userInstructions = "Summarize the following article. Start with one short paragraph, " +
	"then list up to 5 distinct, informative bullet points, each on its own line starting with \"- \".\n\n---\n\n"

// Summary is the structured result for one article.
type Summary struct {
	Paragraph string   `json:"paragraph"`
	Points    []string `json:"points"`
}

// Summarizer calls the LLM once per article. It is total: failures become
// placeholder summaries.
type Summarizer struct {
	Client llm.Client
	Model  string
	// SystemPrompt, when non-empty, overrides DefaultSystemPrompt.
	SystemPrompt string
	// MaxTokens bounds the reply length. Zero means 400.
	MaxTokens int
}

// Summarize produces a Summary for text.
func (s *Summarizer) Summarize(ctx context.Context, text string) Summary {
	if strings.TrimSpace(text) == "" {
		return Summary{Paragraph: NoContentText}
	}
	if s == nil || s.Client == nil {
		return Summary{Paragraph: NotConfiguredText}
	}
	system := DefaultSystemPrompt
	if strings.TrimSpace(s.SystemPrompt) != "" {
		system = s.SystemPrompt
	}
	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 400
	}
	body := budget.FitArticle(s.Model, system, userInstructions, text, maxTokens)
	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: userInstructions + body},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("model", s.Model).Msg("summarization call failed")
		return Summary{Paragraph: ServiceErrorText}
	}
	out, err := llm.FirstContent(resp)
	if err != nil {
		log.Warn().Err(err).Str("model", s.Model).Msg("summarization returned no text")
		return Summary{Paragraph: ServiceErrorText}
	}
	sum := Parse(out)
	if sum.Paragraph == "" && len(sum.Points) == 0 {
		return Summary{Paragraph: ServiceErrorText}
	}
	return sum
}

var bulletRe = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)

// Parse splits a model reply into a paragraph (non-bullet lines joined by a
// space) and up to MaxPoints bullet points with their markers removed.
func Parse(reply string) Summary {
	var para []string
	var points []string
	for _, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || line == "---" {
			continue
		}
		if loc := bulletRe.FindStringIndex(line); loc != nil {
			p := strings.TrimSpace(line[loc[1]:])
			p = strings.TrimSuffix(strings.TrimPrefix(p, "**"), "**")
			if p != "" && len(points) < MaxPoints {
				points = append(points, p)
			}
			continue
		}
		para = append(para, line)
	}
	return Summary{Paragraph: strings.Join(para, " "), Points: points}
}
