package main

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

// stubScore is the relevance every scoring request receives.
const stubScore = 0.8

func handleChat(model string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var content string
		if req.ResponseFormat != nil && req.ResponseFormat.Type == "json_object" {
			content = fmt.Sprintf(`{"score": %.2f}`, stubScore)
		} else {
			content = "The article reports new federal activity relevant to research institutions.\n" +
				"- A federal agency announced a funding opportunity.\n" +
				"- Universities are eligible to apply.\n" +
				"- Awards are expected later this year."
		}
		log.Debug().Int("messages", len(req.Messages)).Bool("json", req.ResponseFormat != nil).Msg("chat completion")
		m := req.Model
		if m == "" {
			m = model
		}
		writeJSON(w, map[string]any{
			"id":      "chatcmpl-stub",
			"object":  "chat.completion",
			"model":   m,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
			"usage": map[string]int{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		})
	}
}

func handleNews(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req struct {
		Q   string `json:"q"`
		TBS string `json:"tbs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	base := baseURL(r)
	topic := firstQuoted(req.Q)
	slug := strings.ToLower(strings.Join(strings.Fields(topic), "-"))
	writeJSON(w, map[string]any{
		"news": []map[string]string{
			{
				"title":   "Federal " + topic + " grants open to universities",
				"link":    base + "/articles/" + slug + "-grants",
				"snippet": "A new " + topic + " program funds university research.",
				"date":    "2 hours ago",
				"source":  "stub.gov",
			},
			{
				"title":   topic + " policy update",
				"link":    base + "/articles/" + slug + "-policy",
				"snippet": "Agencies outline " + topic + " policy changes.",
				"date":    "1 day ago",
				"source":  "stub.gov",
			},
		},
	})
}

func handleArticle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	title := html.EscapeString(strings.ReplaceAll(slug, "-", " "))
	para := strings.Repeat("The federal "+title+" initiative directs grant funding to university research programs. ", 6)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><head><title>%s</title></head><body><article><h1>%s</h1><p>%s</p><p>%s</p><p>%s</p></article></body></html>",
		title, title, para, para, para)
}

// firstQuoted returns the first double-quoted phrase of q, or q itself.
func firstQuoted(q string) string {
	if i := strings.Index(q, `"`); i >= 0 {
		if j := strings.Index(q[i+1:], `"`); j > 0 {
			return q[i+1 : i+1+j]
		}
	}
	return strings.TrimSpace(q)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
