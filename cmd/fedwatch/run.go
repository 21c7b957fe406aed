package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/fedwatch/internal/app"
	"github.com/hyperifyio/fedwatch/internal/deliver"
)

type runOptions struct {
	Keywords []string
	Window   string
	Output   string
	PDF      string
	Email    string
	Deliver  bool
	JSON     bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate one report and print it",
		Example: `  fedwatch run -k AI -k robotics --window w
  fedwatch run -k semiconductors --output report.md --pdf report.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := prepare(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			return runReport(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringArrayVarP(&opts.Keywords, "keyword", "k", nil, "topic keyword (repeatable)")
	cmd.Flags().StringVar(&opts.Window, "window", "w", "search window: w, m or y")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the Markdown report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.PDF, "pdf", "", "also render the report to this PDF file")
	cmd.Flags().StringVar(&opts.Email, "email", "", "recipient address used with --deliver")
	cmd.Flags().BoolVar(&opts.Deliver, "deliver", false, "export the report document and send the email")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the full API response as JSON")
	return cmd
}

// runReport executes one pipeline run and writes its outputs.
func runReport(ctx context.Context, cfg app.Config, opts runOptions, stdout io.Writer) error {
	if len(opts.Keywords) == 0 {
		return errors.New("at least one --keyword is required")
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.Process(ctx, app.Request{
		RecipientEmail:   opts.Email,
		SelectedKeywords: opts.Keywords,
		DateFilter:       opts.Window,
		SkipDelivery:     !opts.Deliver,
	})
	if resp.Status != app.StatusSuccess {
		return fmt.Errorf("report failed: %s", resp.Message)
	}
	log.Info().Int("articles", len(resp.Articles)).Str("document", resp.DocumentURL).Msg(resp.Message)

	if opts.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else if strings.TrimSpace(resp.ReportContent) != "" {
		if err := writeReport(opts.Output, resp.ReportContent, stdout); err != nil {
			return err
		}
	}

	if opts.PDF != "" && strings.TrimSpace(resp.ReportContent) != "" {
		if err := deliver.WritePDF(cfg.ReportTitle, resp.ReportContent, opts.PDF); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", opts.PDF).Msg("pdf written")
	}
	return nil
}

func writeReport(path, markdown string, stdout io.Writer) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, markdown)
		return err
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info().Str("path", path).Msg("report written")
	return nil
}
