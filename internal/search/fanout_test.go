package search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type scriptedProvider struct {
	delay map[string]time.Duration
	fail  map[string]bool
	hits  map[string][]Result
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Search(ctx context.Context, q string, _ Window) ([]Result, error) {
	if d := p.delay[q]; d > 0 {
		time.Sleep(d)
	}
	if p.fail[q] {
		return nil, errors.New("boom")
	}
	return p.hits[q], nil
}

func TestSearchAll_KeepsQueryOrderAndIsolatesFailures(t *testing.T) {
	p := &scriptedProvider{
		delay: map[string]time.Duration{"q1": 50 * time.Millisecond},
		fail:  map[string]bool{"q2": true},
		hits: map[string][]Result{
			"q1": {{Link: "https://a/1"}},
			"q3": {{Link: "https://a/3"}},
		},
	}
	groups := SearchAll(context.Background(), p, []string{"q1", "q2", "q3"}, Week)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if len(groups[0]) != 1 || groups[0][0].Link != "https://a/1" {
		t.Fatalf("slow query result not in its slot: %+v", groups[0])
	}
	if groups[1] == nil || len(groups[1]) != 0 {
		t.Fatalf("failed query must yield an empty, non-nil slot: %#v", groups[1])
	}
	if len(groups[2]) != 1 {
		t.Fatalf("sibling of failed query lost: %+v", groups[2])
	}
}

func TestSearchAll_Concurrent(t *testing.T) {
	p := &scriptedProvider{delay: map[string]time.Duration{}}
	qs := make([]string, 5)
	for i := range qs {
		qs[i] = strings.Repeat("q", i+1)
		p.delay[qs[i]] = 100 * time.Millisecond
	}
	start := time.Now()
	SearchAll(context.Background(), p, qs, Week)
	if took := time.Since(start); took > 400*time.Millisecond {
		t.Fatalf("queries did not run concurrently: %v", took)
	}
}

func TestFileProvider_KeywordScoping(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/results.json"
	data := `[{"title":"A","link":"https://a","keyword":"AI"},{"title":"B","link":"https://b"},{"title":"C","link":""}]`
	if err := writeFile(path, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := &FileProvider{Path: path}
	got, err := f.Search(context.Background(), `"ai" AND (...)`, Week)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 results, got %d err=%v", len(got), err)
	}
	got, _ = f.Search(context.Background(), `"robotics" AND (...)`, Week)
	if len(got) != 1 || got[0].Link != "https://b" {
		t.Fatalf("expected only unscoped result, got %+v", got)
	}
}

func TestParseWindow(t *testing.T) {
	cases := map[string]Window{"": Week, "w": Week, "M": Month, " y ": Year}
	for in, want := range cases {
		got, err := ParseWindow(in)
		if err != nil || got != want {
			t.Fatalf("ParseWindow(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseWindow("d"); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

type panickingProvider struct{}

func (panickingProvider) Name() string { return "panicky" }

func (panickingProvider) Search(context.Context, string, Window) ([]Result, error) {
	panic("boom")
}

func TestSearchAll_PanicLeavesEmptySlot(t *testing.T) {
	groups := SearchAll(context.Background(), panickingProvider{}, []string{"a", "b"}, Week)
	if len(groups) != 2 || groups[0] == nil || len(groups[0]) != 0 || len(groups[1]) != 0 {
		t.Fatalf("expected two empty slots, got %#v", groups)
	}
}
