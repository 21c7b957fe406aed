package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadEnvFiles loads dotenv files into the process environment. Later files
// override earlier ones; variables already set to a non-empty value in the
// environment win over every file. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	merged := map[string]string{}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		vals, err := godotenv.Read(p)
		if err != nil {
			return err
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if os.Getenv(k) == "" {
			_ = os.Setenv(k, v)
		}
	}
	return nil
}

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set, so env takes precedence over the config file while flags, applied
// afterwards, stay highest.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	setStr := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Warn().Str("key", key).Str("value", v).Msg("ignoring malformed integer env value")
				return
			}
			*dst = n
		}
	}
	setList := func(dst *[]string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = splitList(v)
		}
	}

	setStr(&cfg.SearchProvider, "SEARCH_PROVIDER")
	setStr(&cfg.SerperAPIKey, "SERPER_API_KEY")
	setStr(&cfg.SerperURL, "SERPER_URL")
	setStr(&cfg.SearxURL, "SEARX_URL", "SEARXNG_URL")
	setStr(&cfg.SearxKey, "SEARX_KEY", "SEARXNG_KEY")
	setStr(&cfg.SearchFile, "SEARCH_FILE")
	setStr(&cfg.UserAgent, "USER_AGENT")

	setInt(&cfg.MaxFetch, "MAX_FETCH")
	setStr(&cfg.ScrapeMode, "SCRAPE_MODE")
	setInt(&cfg.ScrapeConcurrency, "SCRAPE_CONCURRENCY")
	if v := strings.TrimSpace(os.Getenv("FETCH_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FetchTimeout = d
		} else {
			log.Warn().Str("key", "FETCH_TIMEOUT").Str("value", v).Msg("ignoring malformed duration env value")
		}
	}
	setInt(&cfg.RecencyLookback, "RECENCY_LOOKBACK")
	setStr(&cfg.ReportTitle, "REPORT_TITLE")
	setStr(&cfg.Scorer, "RELEVANCE_SCORER")

	setStr(&cfg.LLMProvider, "LLM_PROVIDER")
	setStr(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setStr(&cfg.LLMModel, "LLM_MODEL")
	setStr(&cfg.LLMAPIKey, "LLM_API_KEY", "OPENAI_API_KEY")
	setStr(&cfg.GeminiAPIKey, "GEMINI_API_KEY")

	setStr(&cfg.DocsDir, "DOCS_DIR")
	setStr(&cfg.DocsBaseURL, "DOCS_BASE_URL")
	setStr(&cfg.SMTP.Host, "SMTP_HOST")
	setInt(&cfg.SMTP.Port, "SMTP_PORT")
	setStr(&cfg.SMTP.Username, "SMTP_USERNAME")
	setStr(&cfg.SMTP.Password, "SMTP_PASSWORD")
	setStr(&cfg.SMTP.From, "SMTP_FROM")

	setStr(&cfg.ListenAddr, "LISTEN_ADDR")
	setList(&cfg.CORSOrigins, "CORS_ORIGINS")
	setStr(&cfg.LogFile, "LOG_FILE")

	if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s != "" {
		switch s {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		case "0", "false", "no", "off":
			cfg.Verbose = false
		default:
			log.Warn().Str("key", "VERBOSE").Str("value", s).Msg("ignoring malformed boolean env value")
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
