package deliver

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled reports whether enough settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.From) != ""
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends messages over SMTP.
type Mailer struct {
	Config SMTPConfig
	// send is swapped in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer returns a Mailer using net/smtp.SendMail.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{Config: cfg, send: smtp.SendMail}
}

// Send delivers msg once. There is no retry.
func (m *Mailer) Send(msg Message) error {
	if !m.Config.Enabled() {
		return fmt.Errorf("smtp not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("missing recipient")
	}
	port := m.Config.Port
	if port == 0 {
		port = 587
	}
	addr := net.JoinHostPort(m.Config.Host, strconv.Itoa(port))
	var auth smtp.Auth
	if m.Config.Username != "" {
		auth = smtp.PlainAuth("", m.Config.Username, m.Config.Password, m.Config.Host)
	}
	raw, err := buildMIME(m.Config.From, msg, time.Now())
	if err != nil {
		return err
	}
	send := m.send
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(addr, auth, m.Config.From, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// ReportEmail builds the notification for a finished report.
func ReportEmail(to, title, reportMarkdown, docURL string) Message {
	var text strings.Builder
	text.WriteString("Hello,\n\nYour report is ready.\n")
	if docURL != "" {
		fmt.Fprintf(&text, "\nDocument: %s\n", docURL)
	}
	text.WriteString("\n")
	text.WriteString(reportMarkdown)

	body := reportMarkdown
	if docURL != "" {
		body = fmt.Sprintf("Your report is ready: [open the document](%s)\n\n%s", docURL, reportMarkdown)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your Weekly %s", title),
		Text:    text.String(),
		HTML:    RenderHTML(body),
	}
}

// RenderHTML converts Markdown to HTML with external links opening in a new tab.
func RenderHTML(md string) string {
	if md == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.ToHTML([]byte(md), p, r))
}

func buildMIME(from string, msg Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	} {
		if part.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.ctype},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, fmt.Errorf("mime part: %w", err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("mime close: %w", err)
	}
	return buf.Bytes(), nil
}
