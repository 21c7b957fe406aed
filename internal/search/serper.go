package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Serper implements Provider against the Serper news endpoint.
type Serper struct {
	BaseURL    string // defaults to https://google.serper.dev
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
}

func (s *Serper) Name() string { return "serper" }

func (s *Serper) Search(ctx context.Context, query string, window Window) ([]Result, error) {
	if s.APIKey == "" {
		return nil, errors.New("missing serper api key")
	}
	base := s.BaseURL
	if base == "" {
		base = "https://google.serper.dev"
	}
	endpoint := strings.TrimRight(base, "/") + "/news"

	payload, err := json.Marshal(map[string]string{"q": query, "tbs": window.TBS()})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("serper status: %d", resp.StatusCode)
	}
	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}
	out := make([]Result, 0, len(sr.News))
	for _, n := range sr.News {
		link := strings.TrimSpace(n.Link)
		if link == "" {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(n.Title),
			Link:    link,
			Source:  strings.TrimSpace(n.Source),
			Date:    strings.TrimSpace(n.Date),
			Snippet: strings.TrimSpace(n.Snippet),
		})
	}
	return out, nil
}

type serperResponse struct {
	News []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
		Source  string `json:"source"`
	} `json:"news"`
}
