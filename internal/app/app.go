package app

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/fedwatch/internal/aggregate"
	"github.com/hyperifyio/fedwatch/internal/article"
	"github.com/hyperifyio/fedwatch/internal/deliver"
	"github.com/hyperifyio/fedwatch/internal/extract"
	"github.com/hyperifyio/fedwatch/internal/fetch"
	"github.com/hyperifyio/fedwatch/internal/llm"
	"github.com/hyperifyio/fedwatch/internal/query"
	"github.com/hyperifyio/fedwatch/internal/recency"
	"github.com/hyperifyio/fedwatch/internal/relevance"
	"github.com/hyperifyio/fedwatch/internal/report"
	"github.com/hyperifyio/fedwatch/internal/scrape"
	"github.com/hyperifyio/fedwatch/internal/search"
	"github.com/hyperifyio/fedwatch/internal/summarize"
	"github.com/hyperifyio/fedwatch/internal/themes"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NoRecentArticlesMessage is returned when nothing survives filtering.
const NoRecentArticlesMessage = "No recent articles found."

// Request is one report run.
type Request struct {
	RecipientEmail   string   `json:"recipient_email"`
	SelectedKeywords []string `json:"selected_keywords"`
	DateFilter       string   `json:"date_filter"`
	// SkipDelivery disables document export and email, as used by the CLI.
	SkipDelivery bool `json:"-"`
}

// Response is the structured result of a run. Failures are reported through
// Status and Message, never as a Go error.
type Response struct {
	Status        string            `json:"status"`
	Articles      []article.Article `json:"articles"`
	ReportContent string            `json:"report_content"`
	Message       string            `json:"message"`
	Themes        []themes.Theme    `json:"themes,omitempty"`
	DocumentURL   string            `json:"document_url,omitempty"`
}

// ErrorResponse builds the error shape with empty articles and report.
func ErrorResponse(msg string) Response {
	return Response{Status: StatusError, Articles: []article.Article{}, Message: msg}
}

func successResponse(msg string) Response {
	return Response{Status: StatusSuccess, Articles: []article.Article{}, Message: msg}
}

// App wires the pipeline stages together. It holds no per-request state and
// is safe for concurrent use.
type App struct {
	cfg       Config
	provider  search.Provider
	expander  query.Expander
	scraper   *scrape.Scraper
	recency   recency.Classifier
	scorer    relevance.Scorer
	assembler *report.Assembler
	themes    themes.Classifier
	deliverer *deliver.Deliverer
	llm       llm.Client
	closers   []func() error
}

// Option customizes App construction. Used by tests and embedding callers.
type Option func(*App)

// WithProvider replaces the configured search provider.
func WithProvider(p search.Provider) Option { return func(a *App) { a.provider = p } }

// WithLLM replaces the configured chat model client.
func WithLLM(c llm.Client) Option { return func(a *App) { a.llm = c } }

// WithDeliverer replaces the configured delivery glue.
func WithDeliverer(d *deliver.Deliverer) Option { return func(a *App) { a.deliverer = d } }

// WithScorer replaces the relevance scorer built from the configuration.
func WithScorer(s relevance.Scorer) Option { return func(a *App) { a.scorer = s } }

// WithClock fixes the recency reference time.
func WithClock(now func() time.Time) Option { return func(a *App) { a.recency.Now = now } }

// New builds an App from cfg. Options are applied before the stages that
// depend on them are assembled.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	hc := newHTTPClient()
	a := &App{
		cfg:      cfg,
		expander: query.Expander{Qualifiers: cfg.Qualifiers, Sites: cfg.Sites, Exclusions: cfg.Exclusions},
		recency:  recency.Classifier{Lookback: cfg.RecencyLookback},
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.provider == nil {
		p, err := newProvider(cfg, hc)
		if err != nil {
			return nil, err
		}
		a.provider = p
	}
	if a.llm == nil {
		c, closer, err := newLLMClient(ctx, cfg, hc)
		if err != nil {
			return nil, err
		}
		a.llm = c
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}

	mode, _ := scrape.ParseMode(cfg.ScrapeMode)
	a.scraper = &scrape.Scraper{
		Getter: &fetch.Client{
			HTTPClient:        hc,
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.FetchTimeout,
			RedirectMaxHops:   5,
		},
		Extractor:   extract.Default(),
		Mode:        mode,
		Concurrency: cfg.ScrapeConcurrency,
	}
	if a.scorer == nil {
		a.scorer = newScorer(cfg, a.llm)
	}
	a.assembler = &report.Assembler{
		Summarizer: &summarize.Summarizer{Client: a.llm, Model: cfg.LLMModel, SystemPrompt: cfg.SummarySystemPrompt},
		Title:      cfg.ReportTitle,
		TopN:       cfg.TopN,
	}
	if a.deliverer == nil {
		a.deliverer = newDeliverer(cfg)
	}
	log.Debug().Str("search", a.provider.Name()).Bool("llm", a.llm != nil).Str("scrape", string(mode)).Msg("app configured")
	return a, nil
}

// Close releases provider resources.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }

// Preflight checks LLM connectivity by listing models. It only logs.
func (a *App) Preflight(ctx context.Context) {
	lister, ok := a.llm.(llm.ModelLister)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Process runs the whole pipeline for one request. It never panics and
// never returns a Go error: unexpected failures become an error Response.
func (a *App) Process(ctx context.Context, req Request) (resp Response) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("request failed")
			resp = ErrorResponse(fmt.Sprint(r))
		}
	}()

	window, err := search.ParseWindow(req.DateFilter)
	if err != nil {
		return ErrorResponse(err.Error())
	}
	keywords := query.NormalizeKeywords(req.SelectedKeywords)
	if len(keywords) == 0 {
		return successResponse(NoRecentArticlesMessage)
	}

	queries := a.expander.Expand(keywords)
	groups := search.SearchAll(ctx, a.provider, queries, window)
	unique := aggregate.Dedupe(groups, a.cfg.MaxFetch)
	log.Info().Int("queries", len(queries)).Int("unique", len(unique)).Msg("search complete")

	scraped := scrape.WithContent(a.scraper.ScrapeAll(ctx, unique))
	recent := a.recency.Filter(scraped)
	if len(recent) == 0 {
		return successResponse(NoRecentArticlesMessage)
	}

	scored := relevance.ScoreAll(ctx, a.scorer, recent, query.RelevanceContext(keywords))
	ranked := report.Select(scored, -1)
	rep := a.assembler.Assemble(ctx, ranked)
	_, grouped := a.themes.Classify(ranked, keywords)

	var docURL string
	if !req.SkipDelivery {
		docURL = a.deliverer.Deliver(ctx, req.RecipientEmail, rep.Markdown)
	}
	log.Info().Int("articles", len(ranked)).Int("reported", len(rep.Entries)).Dur("took", time.Since(start)).Msg("report generated")
	return Response{
		Status:        StatusSuccess,
		Articles:      ranked,
		ReportContent: rep.Markdown,
		Message:       fmt.Sprintf("Success! Generated a report from %d articles.", len(ranked)),
		Themes:        grouped,
		DocumentURL:   docURL,
	}
}

func newProvider(cfg Config, hc *http.Client) (search.Provider, error) {
	switch cfg.ResolvedSearchProvider() {
	case "serper":
		return &search.Serper{BaseURL: cfg.SerperURL, APIKey: cfg.SerperAPIKey, HTTPClient: hc, UserAgent: cfg.UserAgent}, nil
	case "rss":
		return &search.GoogleNewsRSS{HTTPClient: hc, UserAgent: cfg.UserAgent}, nil
	case "searxng":
		return &search.SearxNG{BaseURL: cfg.SearxURL, APIKey: cfg.SearxKey, HTTPClient: hc, UserAgent: cfg.UserAgent}, nil
	case "file":
		return &search.FileProvider{Path: cfg.SearchFile}, nil
	}
	return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
}

// newLLMClient returns nil when no credentials are configured; the pipeline
// then runs with placeholder summaries and keyword scoring.
func newLLMClient(ctx context.Context, cfg Config, hc *http.Client) (llm.Client, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			log.Warn().Msg("GEMINI_API_KEY not set; summaries will be placeholders")
			return nil, nil, nil
		}
		g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	default:
		if strings.TrimSpace(cfg.LLMAPIKey) == "" && strings.TrimSpace(cfg.LLMBaseURL) == "" {
			log.Warn().Msg("LLM API key not set; summaries will be placeholders")
			return nil, nil, nil
		}
		return llm.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, hc), nil, nil
	}
}

func newScorer(cfg Config, client llm.Client) relevance.Scorer {
	if strings.EqualFold(cfg.Scorer, "keyword") || client == nil {
		return relevance.KeywordScorer{}
	}
	return &relevance.LLMScorer{Client: client, Model: cfg.LLMModel}
}

func newDeliverer(cfg Config) *deliver.Deliverer {
	title := strings.TrimSpace(cfg.ReportTitle)
	if title == "" {
		title = DefaultReportTitle
	}
	d := &deliver.Deliverer{Title: title}
	if strings.TrimSpace(cfg.DocsDir) != "" {
		d.Docs = &deliver.DocumentStore{Dir: cfg.DocsDir, BaseURL: cfg.DocsBaseURL}
	}
	if cfg.SMTP.Enabled() {
		d.Mail = deliver.NewMailer(cfg.SMTP)
	}
	return d
}
