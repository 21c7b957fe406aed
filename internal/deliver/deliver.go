// Package deliver exports finished reports as documents and emails them.
// Delivery is best effort: failures are logged and never returned.
package deliver

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Exporter stores a report document and returns its location.
type Exporter interface {
	Export(title, markdown string) (string, error)
}

// Sender dispatches one email.
type Sender interface {
	Send(msg Message) error
}

// Deliverer runs the post-report steps: document export, then email.
type Deliverer struct {
	Docs  Exporter
	Mail  Sender
	Title string
}

// Deliver exports the report and notifies recipient. It returns the
// document location, or "" when export was skipped or failed.
func (d *Deliverer) Deliver(ctx context.Context, recipient, reportMarkdown string) string {
	if d == nil || strings.TrimSpace(reportMarkdown) == "" {
		return ""
	}
	var docURL string
	if d.Docs != nil {
		loc, err := d.Docs.Export(d.Title, reportMarkdown)
		if err != nil {
			log.Error().Err(err).Msg("document export failed")
		} else {
			docURL = loc
			log.Info().Str("document", loc).Msg("report exported")
		}
	}
	if ctx.Err() != nil {
		return docURL
	}
	if d.Mail != nil && strings.TrimSpace(recipient) != "" {
		if err := d.Mail.Send(ReportEmail(recipient, d.Title, reportMarkdown, docURL)); err != nil {
			log.Error().Err(err).Str("recipient", recipient).Msg("report email failed")
		} else {
			log.Info().Str("recipient", recipient).Msg("report emailed")
		}
	}
	return docURL
}
