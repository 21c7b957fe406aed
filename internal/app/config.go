package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/fedwatch/internal/deliver"
	"github.com/hyperifyio/fedwatch/internal/scrape"
)

// Defaults used when neither flags, env nor the config file set a value.
const (
	DefaultReportTitle  = "Fed Landscape Report"
	DefaultListenAddr   = ":8000"
	DefaultLLMModel     = "gpt-4o"
	DefaultMaxFetch     = 7
	DefaultTopN         = 7
	DefaultFetchTimeout = 15 * time.Second
	DefaultUserAgent    = "fedwatch/1.0 (+https://github.com/hyperifyio/fedwatch)"
)

// DefaultCORSOrigins are the front-end origins allowed to call the API.
var DefaultCORSOrigins = []string{
	"http://localhost",
	"http://localhost:5176",
	"https://fed-landscape-tcwb.vercel.app",
}

// Config holds runtime configuration for the application. It is built once
// at start-up and not modified afterwards.
type Config struct {
	// Search
	SearchProvider string // serper, rss, searxng or file; empty picks serper when a key is set, else rss
	SerperAPIKey   string
	SerperURL      string
	SearxURL       string
	SearxKey       string
	SearchFile     string
	UserAgent      string

	// Query expansion overrides; empty uses the built-in defaults
	Qualifiers []string
	Sites      []string
	Exclusions []string

	// Pipeline
	MaxFetch          int
	ScrapeMode        string
	ScrapeConcurrency int
	FetchTimeout      time.Duration
	RecencyLookback   int
	TopN              int
	ReportTitle       string
	Scorer            string // llm or keyword

	// LLM
	LLMProvider         string // openai or gemini
	LLMBaseURL          string
	LLMModel            string
	LLMAPIKey           string
	GeminiAPIKey        string
	SummarySystemPrompt string

	// Delivery
	DocsDir     string
	DocsBaseURL string
	SMTP        deliver.SMTPConfig

	// Server
	ListenAddr  string
	CORSOrigins []string

	// Logging
	LogFile string
	Verbose bool
}

// Defaults returns a Config populated with built-in defaults.
func Defaults() Config {
	return Config{
		UserAgent:    DefaultUserAgent,
		MaxFetch:     DefaultMaxFetch,
		ScrapeMode:   string(scrape.Sequential),
		FetchTimeout: DefaultFetchTimeout,
		TopN:         DefaultTopN,
		ReportTitle:  DefaultReportTitle,
		Scorer:       "llm",
		LLMProvider:  "openai",
		LLMModel:     DefaultLLMModel,
		DocsDir:      "reports",
		ListenAddr:   DefaultListenAddr,
		CORSOrigins:  append([]string{}, DefaultCORSOrigins...),
	}
}

// ResolvedSearchProvider returns the provider name after applying the
// empty-means-auto rule.
func (c Config) ResolvedSearchProvider() string {
	p := strings.ToLower(strings.TrimSpace(c.SearchProvider))
	if p != "" {
		return p
	}
	if strings.TrimSpace(c.SerperAPIKey) != "" {
		return "serper"
	}
	return "rss"
}

// ValidateConfig rejects configurations that cannot run.
func ValidateConfig(cfg Config) error {
	if cfg.MaxFetch < 0 || cfg.ScrapeConcurrency < 0 || cfg.TopN < 0 || cfg.RecencyLookback < 0 || cfg.FetchTimeout < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.MaxFetch > DefaultMaxFetch || cfg.TopN > DefaultTopN {
		return fmt.Errorf("config: maxFetch and topN may not exceed %d", DefaultTopN)
	}
	if _, err := scrape.ParseMode(cfg.ScrapeMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch cfg.ResolvedSearchProvider() {
	case "serper":
		if strings.TrimSpace(cfg.SerperAPIKey) == "" {
			return errors.New("config: serper search requires SERPER_API_KEY")
		}
	case "searxng":
		if strings.TrimSpace(cfg.SearxURL) == "" {
			return errors.New("config: searxng search requires SEARX_URL")
		}
	case "file":
		if strings.TrimSpace(cfg.SearchFile) == "" {
			return errors.New("config: file search requires SEARCH_FILE")
		}
	case "rss":
	default:
		return fmt.Errorf("config: unknown search provider %q", cfg.SearchProvider)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", "openai", "gemini":
	default:
		return fmt.Errorf("config: unknown llm provider %q", cfg.LLMProvider)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Scorer)) {
	case "", "llm", "keyword":
	default:
		return fmt.Errorf("config: unknown scorer %q", cfg.Scorer)
	}
	return nil
}
