package budget

import (
	"math"
	"strings"
	"unicode/utf8"
)

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token in English). The
// result is always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Unknown models fall back to a conservative default.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	switch {
	case strings.HasPrefix(name, "gemini-1.5"), strings.HasSuffix(name, "1m"):
		return 1_000_000
	case strings.HasSuffix(name, "200k"):
		return 200_000
	case strings.HasSuffix(name, "128k"), strings.Contains(name, "-mini"):
		return 128_000
	}
	return 8192
}

// HeadroomTokens returns a safety margin for tokenizer and framing overheads:
// the larger of 5% of the model context or 512 tokens.
func HeadroomTokens(modelName string) int {
	max := ModelContextTokens(modelName)
	dyn := int(math.Ceil(float64(max) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContext computes the input token budget left after reserving
// output tokens, headroom and the fixed prompt. The result is never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := ModelContextTokens(modelName) - HeadroomTokens(modelName) - reservedForOutput - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Truncate cuts text so that it fits maxTokens, preferring to end on a
// sentence boundary in the last fifth of the kept text. It never splits a
// UTF-8 sequence.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	maxBytes := maxTokens * 4
	if len(text) <= maxBytes {
		return text
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	kept := text[:cut]
	if idx := strings.LastIndex(kept, ". "); idx > len(kept)*4/5 {
		kept = kept[:idx+1]
	}
	return strings.TrimSpace(kept)
}

// FitArticle truncates article text to what remains for the given model once
// the system and instruction prompts and the output reservation are counted.
func FitArticle(modelName, system, instructions, text string, reservedForOutput int) string {
	prompt := EstimateTokens(system) + EstimateTokens(instructions)
	return Truncate(text, RemainingContext(modelName, reservedForOutput, prompt))
}

// knownModelMax contains rough context sizes for common model identifiers.
var knownModelMax = map[string]int{
	"gpt-4o":           128_000,
	"gpt-4o-mini":      128_000,
	"gpt-4-turbo":      128_000,
	"gpt-3.5-turbo":    16_384,
	"gemini-1.5-flash": 1_000_000,
	"gemini-1.5-pro":   2_000_000,
	"gemini-2.0-flash": 1_000_000,
	"llama-3":          8_192,
	"llama-3.1":        128_000,
	"gpt-oss-20b":      4_096,
}
