// Package themes groups articles under a fixed table of topic themes.
package themes

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/hyperifyio/fedwatch/internal/article"
)

// Definition is one row of the theme table.
type Definition struct {
	Name     string
	Keywords []string
}

// Theme is a definition together with the articles that matched it.
type Theme struct {
	Name     string            `json:"name"`
	Keywords []string          `json:"keywords"`
	Articles []article.Article `json:"articles"`
}

// Table is the ordered theme table. Output follows this order.
var Table = []Definition{
	{"Artificial Intelligence & Machine Learning", []string{
		"Artificial Intelligence", "AI", "Machine Learning", "ML", "Deep Learning", "DL",
		"Neural Network", "LLM", "Large Language Model", "Generative AI", "Computer Vision",
		"Natural Language Processing", "NLP", "Reinforcement Learning",
	}},
	{"Data Science & Big Data", []string{
		"Data Science", "Data Scientist", "Big Data", "Data Analysis", "Data Analytics",
		"Data Mining", "Data Visualization", "Hadoop", "Spark", "ETL",
	}},
	{"Web Development", []string{
		"Web Development", "Frontend", "Backend", "Full-Stack", "JavaScript", "React",
		"Angular", "Vue", "Node.js", "API", "Web Assembly", "WASM",
	}},
	{"Cloud Computing & DevOps", []string{
		"Cloud Computing", "AWS", "Amazon Web Services", "Azure", "Google Cloud", "GCP",
		"DevOps", "CI/CD", "Docker", "Kubernetes", "Serverless", "Infrastructure as Code",
	}},
	{"Cybersecurity", []string{
		"Cybersecurity", "Information Security", "InfoSec", "Malware", "Ransomware",
		"Phishing", "Vulnerability", "Data Breach", "Encryption", "Zero Trust",
	}},
	{"Software Engineering Principles", []string{
		"Software Engineering", "Software Development", "Agile", "Scrum",
		"Object-Oriented Programming", "OOP", "Design Patterns", "Microservices", "Code Quality",
	}},
}

// Matcher does caseless whole-word matching of a keyword set.
type Matcher struct {
	patterns []*regexp.Regexp
}

// NewMatcher compiles keywords. Blank keywords are ignored.
func NewMatcher(keywords []string) *Matcher {
	fold := cases.Fold()
	m := &Matcher{}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		expr := `(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(fold.String(kw)) + `(?:$|[^\p{L}\p{N}_])`
		m.patterns = append(m.patterns, regexp.MustCompile(expr))
	}
	return m
}

// Match reports whether text contains any keyword as a whole word.
func (m *Matcher) Match(text string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}
	folded := cases.Fold().String(text)
	for _, re := range m.patterns {
		if re.MatchString(folded) {
			return true
		}
	}
	return false
}

// Classifier groups articles by the themes of Table (or a custom table).
type Classifier struct {
	Table []Definition
}

// Classify keeps the articles mentioning any requested keyword, then files
// each kept article under every theme whose keywords it mentions. Themes
// without articles are omitted. Both results preserve input order.
func (c Classifier) Classify(articles []article.Article, keywords []string) ([]article.Article, []Theme) {
	wanted := NewMatcher(keywords)
	var relevant []article.Article
	var texts []string
	for _, a := range articles {
		text := searchText(a)
		if wanted.Match(text) {
			relevant = append(relevant, a)
			texts = append(texts, text)
		}
	}
	if len(relevant) == 0 {
		return nil, nil
	}
	table := c.Table
	if table == nil {
		table = Table
	}
	var out []Theme
	for _, def := range table {
		m := NewMatcher(def.Keywords)
		var matched []article.Article
		for i, a := range relevant {
			if m.Match(texts[i]) {
				matched = append(matched, a)
			}
		}
		if len(matched) > 0 {
			out = append(out, Theme{Name: def.Name, Keywords: def.Keywords, Articles: matched})
		}
	}
	return relevant, out
}

func searchText(a article.Article) string {
	body := a.Snippet
	if strings.TrimSpace(body) == "" {
		body = a.Content
	}
	return a.Title + " " + body
}
