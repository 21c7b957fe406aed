package deliver

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentStore writes report documents to a directory and returns a
// location for each one: BaseURL joined with the file name when set,
// otherwise the absolute file path.
type DocumentStore struct {
	Dir     string
	BaseURL string
	// Now is used for the document date. Nil means time.Now.
	Now func() time.Time
}

// DocumentTitle formats "<title> - YYYY-MM-DD".
func DocumentTitle(title string, now time.Time) string {
	return fmt.Sprintf("%s - %s", title, now.Format("2006-01-02"))
}

// Export renders markdown to a new PDF named after the title and a fresh
// run id. It returns the document location.
func (d *DocumentStore) Export(title, markdown string) (string, error) {
	dir := d.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}
	docTitle := DocumentTitle(title, now)
	name := fmt.Sprintf("%s-%s.pdf", slug(docTitle), uuid.NewString()[:8])
	path := filepath.Join(dir, name)
	if err := WritePDF(docTitle, markdown, path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	if strings.TrimSpace(d.BaseURL) != "" {
		loc, err := url.JoinPath(d.BaseURL, name)
		if err != nil {
			return "", fmt.Errorf("document url: %w", err)
		}
		return loc, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
