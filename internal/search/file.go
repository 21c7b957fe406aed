package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider loads search results from a local JSON file for offline/testing use.
// The JSON file format is an array of objects:
// {"title": "...", "link": "...", "source": "...", "date": "...", "snippet": "...", "keyword": "..."}.
// A result with a keyword is only returned for queries containing that
// keyword as an exact phrase; results without one match every query.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, _ Window) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Result
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.Link == "" {
			continue
		}
		if r.Keyword != "" && !strings.Contains(q, `"`+strings.ToLower(r.Keyword)+`"`) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
