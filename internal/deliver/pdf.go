package deliver

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
var boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// WritePDF renders report Markdown into a simple PDF: headings in bold,
// bullets indented, rules as lines and Markdown links as clickable links.
func WritePDF(title, markdown, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("fedwatch", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		switch {
		case s == "":
			pdf.Ln(3)
		case s == "---":
			x, y := pdf.GetX(), pdf.GetY()
			w, _ := pdf.GetPageSize()
			left, _, right, _ := pdf.GetMargins()
			pdf.Line(left, y+2, w-right, y+2)
			pdf.SetXY(x, y+5)
		case strings.HasPrefix(s, "#"):
			i := 0
			for i < len(s) && s[i] == '#' {
				i++
			}
			text := strings.TrimSpace(s[i:])
			if text == "" {
				continue
			}
			size := 16.0
			if i >= 2 {
				size = 13.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 7, tr(text), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(s, "- "):
			pdf.SetX(pdf.GetX() + 4)
			pdf.MultiCell(0, 5, tr("• "+plain(s[2:])), "", "L", false)
		default:
			writeLine(pdf, tr, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}

func writeLine(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	parts := linkRe.FindAllStringSubmatchIndex(s, -1)
	if len(parts) == 0 {
		pdf.MultiCell(0, 5, tr(plain(s)), "", "L", false)
		return
	}
	pos := 0
	for _, m := range parts {
		if m[0] > pos {
			pdf.Write(5, tr(plain(s[pos:m[0]])))
		}
		text := s[m[2]:m[3]]
		url := s[m[4]:m[5]]
		if strings.HasPrefix(url, "#") {
			pdf.Write(5, tr(text))
		} else {
			pdf.SetTextColor(0, 0, 200)
			pdf.WriteLinkString(5, tr(text), url)
			pdf.SetTextColor(0, 0, 0)
		}
		pos = m[1]
	}
	if pos < len(s) {
		pdf.Write(5, tr(plain(s[pos:])))
	}
	pdf.Ln(6)
}

// plain drops bold markers; the core fonts have no inline bold.
func plain(s string) string {
	return boldRe.ReplaceAllString(s, "$1")
}
