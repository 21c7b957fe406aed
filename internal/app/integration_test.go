package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestIntegration_FileSearchOpenAIStub runs the pipeline through the real
// fetch, extraction and go-openai client against local servers.
func TestIntegration_FileSearchOpenAIStub(t *testing.T) {
	pages := newPageServer(t)

	var chatCalls int
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		chatCalls++
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
			ResponseFormat *struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		content := "Overview paragraph.\n- one\n- two"
		if req.ResponseFormat != nil {
			content = `{"score": 0.75}`
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	defer llmSrv.Close()

	dir := t.TempDir()
	fixture := []map[string]string{
		{"title": "Semiconductor grants", "link": pages.URL + "/chips", "source": "commerce.gov", "date": "5 hours ago", "keyword": "semiconductors"},
		{"title": "Unrelated", "link": pages.URL + "/other", "source": "x.org", "date": "1 day ago", "keyword": "biology"},
	}
	b, _ := json.Marshal(fixture)
	resultsPath := filepath.Join(dir, "results.json")
	if err := os.WriteFile(resultsPath, b, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := Defaults()
	cfg.SearchProvider = "file"
	cfg.SearchFile = resultsPath
	cfg.LLMBaseURL = llmSrv.URL + "/v1"
	cfg.LLMModel = "test-model"
	cfg.DocsDir = filepath.Join(dir, "docs")

	a, err := New(context.Background(), cfg, WithClock(fixedNow))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	resp := a.Process(context.Background(), Request{SelectedKeywords: []string{"semiconductors"}})
	if resp.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", resp)
	}
	if len(resp.Articles) != 1 || !strings.HasSuffix(resp.Articles[0].Link, "/chips") {
		t.Fatalf("expected only the scoped fixture article, got %+v", resp.Articles)
	}
	if !strings.Contains(resp.ReportContent, "**Relevance:** 75%") || !strings.Contains(resp.ReportContent, "- one") {
		t.Fatalf("unexpected report:\n%s", resp.ReportContent)
	}
	if chatCalls != 2 {
		t.Fatalf("expected one scoring and one summary call, got %d", chatCalls)
	}
	if resp.DocumentURL == "" {
		t.Fatalf("expected exported document")
	}
	if _, err := os.Stat(resp.DocumentURL); err != nil {
		t.Fatalf("document missing: %v", err)
	}
}
