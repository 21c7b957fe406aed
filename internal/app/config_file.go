package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/fedwatch/internal/deliver"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Search struct {
		Provider  string `yaml:"provider" json:"provider"`
		SerperKey string `yaml:"serperKey" json:"serperKey"`
		SerperURL string `yaml:"serperURL" json:"serperURL"`
		SearxURL  string `yaml:"searxURL" json:"searxURL"`
		SearxKey  string `yaml:"searxKey" json:"searxKey"`
		File      string `yaml:"file" json:"file"`
		UA        string `yaml:"ua" json:"ua"`
	} `yaml:"search" json:"search"`

	Query struct {
		Qualifiers []string `yaml:"qualifiers" json:"qualifiers"`
		Sites      []string `yaml:"sites" json:"sites"`
		Exclusions []string `yaml:"exclusions" json:"exclusions"`
	} `yaml:"query" json:"query"`

	Pipeline struct {
		MaxFetch          int           `yaml:"maxFetch" json:"maxFetch"`
		ScrapeMode        string        `yaml:"scrapeMode" json:"scrapeMode"`
		ScrapeConcurrency int           `yaml:"scrapeConcurrency" json:"scrapeConcurrency"`
		FetchTimeout      time.Duration `yaml:"fetchTimeout" json:"fetchTimeout"`
		RecencyLookback   int           `yaml:"recencyLookback" json:"recencyLookback"`
		TopN              int           `yaml:"topN" json:"topN"`
		Scorer            string        `yaml:"scorer" json:"scorer"`
	} `yaml:"pipeline" json:"pipeline"`

	Report struct {
		Title string `yaml:"title" json:"title"`
	} `yaml:"report" json:"report"`

	LLM struct {
		Provider     string `yaml:"provider" json:"provider"`
		BaseURL      string `yaml:"base" json:"base"`
		Model        string `yaml:"model" json:"model"`
		APIKey       string `yaml:"key" json:"key"`
		GeminiKey    string `yaml:"geminiKey" json:"geminiKey"`
		SystemPrompt string `yaml:"systemPrompt" json:"systemPrompt"`
	} `yaml:"llm" json:"llm"`

	Docs struct {
		Dir     string `yaml:"dir" json:"dir"`
		BaseURL string `yaml:"baseURL" json:"baseURL"`
	} `yaml:"docs" json:"docs"`

	SMTP deliver.SMTPConfig `yaml:"smtp" json:"smtp"`

	Server struct {
		Listen      string   `yaml:"listen" json:"listen"`
		CORSOrigins []string `yaml:"corsOrigins" json:"corsOrigins"`
	} `yaml:"server" json:"server"`

	LogFile string `yaml:"logFile" json:"logFile"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. Call it on
// Defaults() before ApplyEnvOverrides and flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	num := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	list := func(dst *[]string, v []string) {
		if len(v) > 0 {
			*dst = append([]string{}, v...)
		}
	}

	str(&cfg.SearchProvider, fc.Search.Provider)
	str(&cfg.SerperAPIKey, fc.Search.SerperKey)
	str(&cfg.SerperURL, fc.Search.SerperURL)
	str(&cfg.SearxURL, fc.Search.SearxURL)
	str(&cfg.SearxKey, fc.Search.SearxKey)
	str(&cfg.SearchFile, fc.Search.File)
	str(&cfg.UserAgent, fc.Search.UA)

	list(&cfg.Qualifiers, fc.Query.Qualifiers)
	list(&cfg.Sites, fc.Query.Sites)
	list(&cfg.Exclusions, fc.Query.Exclusions)

	num(&cfg.MaxFetch, fc.Pipeline.MaxFetch)
	str(&cfg.ScrapeMode, fc.Pipeline.ScrapeMode)
	num(&cfg.ScrapeConcurrency, fc.Pipeline.ScrapeConcurrency)
	if fc.Pipeline.FetchTimeout > 0 {
		cfg.FetchTimeout = fc.Pipeline.FetchTimeout
	}
	num(&cfg.RecencyLookback, fc.Pipeline.RecencyLookback)
	num(&cfg.TopN, fc.Pipeline.TopN)
	str(&cfg.Scorer, fc.Pipeline.Scorer)
	str(&cfg.ReportTitle, fc.Report.Title)

	str(&cfg.LLMProvider, fc.LLM.Provider)
	str(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	str(&cfg.LLMModel, fc.LLM.Model)
	str(&cfg.LLMAPIKey, fc.LLM.APIKey)
	str(&cfg.GeminiAPIKey, fc.LLM.GeminiKey)
	str(&cfg.SummarySystemPrompt, fc.LLM.SystemPrompt)

	str(&cfg.DocsDir, fc.Docs.Dir)
	str(&cfg.DocsBaseURL, fc.Docs.BaseURL)
	str(&cfg.SMTP.Host, fc.SMTP.Host)
	num(&cfg.SMTP.Port, fc.SMTP.Port)
	str(&cfg.SMTP.Username, fc.SMTP.Username)
	str(&cfg.SMTP.Password, fc.SMTP.Password)
	str(&cfg.SMTP.From, fc.SMTP.From)

	str(&cfg.ListenAddr, fc.Server.Listen)
	list(&cfg.CORSOrigins, fc.Server.CORSOrigins)
	str(&cfg.LogFile, fc.LogFile)
	if fc.Verbose {
		cfg.Verbose = true
	}
}
