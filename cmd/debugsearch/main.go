// Command debugsearch prints the expanded queries for a set of keywords and
// what the configured search provider returns for each of them.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/fedwatch/internal/aggregate"
	"github.com/hyperifyio/fedwatch/internal/query"
	"github.com/hyperifyio/fedwatch/internal/search"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		providerName string
		window       string
		only         bool
	)
	cmd := &cobra.Command{
		Use:   "debugsearch [keyword...]",
		Short: "Show expanded queries and raw search results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := search.ParseWindow(window)
			if err != nil {
				return err
			}
			keywords := query.NormalizeKeywords(args)
			queries := query.Expander{}.Expand(keywords)
			if only {
				printQueries(cmd.OutOrStdout(), queries)
				return nil
			}
			p, err := providerFromEnv(providerName)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			groups := search.SearchAll(ctx, p, queries, w)
			printGroups(cmd.OutOrStdout(), queries, groups)
			fmt.Fprintf(cmd.OutOrStdout(), "\nunique (cap 7): %d\n", len(aggregate.Dedupe(groups, 7)))
			return nil
		},
	}
	cmd.Flags().StringVar(&providerName, "provider", os.Getenv("SEARCH_PROVIDER"), "serper, rss, searxng or file")
	cmd.Flags().StringVar(&window, "window", "w", "search window: w, m or y")
	cmd.Flags().BoolVar(&only, "queries-only", false, "print the expanded queries without searching")
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("debugsearch failed")
		os.Exit(1)
	}
}

func providerFromEnv(name string) (search.Provider, error) {
	hc := &http.Client{Timeout: 20 * time.Second}
	ua := "debugsearch/1.0"
	switch name {
	case "serper":
		return &search.Serper{BaseURL: os.Getenv("SERPER_URL"), APIKey: os.Getenv("SERPER_API_KEY"), HTTPClient: hc, UserAgent: ua}, nil
	case "", "rss":
		return &search.GoogleNewsRSS{HTTPClient: hc, UserAgent: ua}, nil
	case "searxng":
		base := os.Getenv("SEARX_URL")
		if base == "" {
			base = "http://localhost:8888"
		}
		return &search.SearxNG{BaseURL: base, APIKey: os.Getenv("SEARX_KEY"), HTTPClient: hc, UserAgent: ua}, nil
	case "file":
		return &search.FileProvider{Path: os.Getenv("SEARCH_FILE")}, nil
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}

func printQueries(w io.Writer, queries []string) {
	for i, q := range queries {
		fmt.Fprintf(w, "%d. %s\n", i+1, q)
	}
}

func printGroups(w io.Writer, queries []string, groups [][]search.Result) {
	for i, q := range queries {
		fmt.Fprintf(w, "== %s\n", q)
		if i >= len(groups) || len(groups[i]) == 0 {
			fmt.Fprintln(w, "   (no results)")
			continue
		}
		for j, r := range groups[i] {
			fmt.Fprintf(w, "   %d. %s [%s, %s]\n      %s\n", j+1, r.Title, r.Source, r.Date, r.Link)
		}
	}
}
