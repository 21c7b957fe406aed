package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when the request does not name a model.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider adapts the Gemini API to the Client interface by
// translating chat requests into GenerateContent calls.
type GeminiProvider struct {
	client *genai.Client
}

// NewGemini creates a Gemini-backed client. Call Close when done.
func NewGemini(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (g *GeminiProvider) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	name := request.Model
	if strings.TrimSpace(name) == "" || strings.HasPrefix(name, "gpt-") {
		name = DefaultGeminiModel
	}
	model := g.client.GenerativeModel(name)
	model.SetTemperature(request.Temperature)
	if request.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(request.MaxTokens))
	}
	if request.ResponseFormat != nil && request.ResponseFormat.Type == openai.ChatCompletionResponseFormatTypeJSONObject {
		model.ResponseMIMEType = "application/json"
	}

	system, prompt := splitMessages(request.Messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return openai.ChatCompletionResponse{}, ErrEmptyReply
	}
	out := openai.ChatCompletionResponse{
		Model: name,
		Choices: []openai.ChatCompletionChoice{{
			Index:   0,
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text},
		}},
	}
	if resp.UsageMetadata != nil {
		out.Usage = openai.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// splitMessages folds system messages into one instruction and the rest
// into a single prompt, since GenerateContent takes one turn here.
func splitMessages(msgs []openai.ChatCompletionMessage) (system, prompt string) {
	var sys, user []string
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role == openai.ChatMessageRoleSystem {
			sys = append(sys, m.Content)
			continue
		}
		user = append(user, m.Content)
	}
	return strings.Join(sys, "\n\n"), strings.Join(user, "\n\n")
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
