package query

import (
	"strings"
)

// Default clauses combined with every keyword. They restrict results to
// funding and policy coverage on government, education and organization sites.
var (
	DefaultQualifiers = []string{"university research funding", "federal grant", "innovation ecosystem", "R&D policy"}
	DefaultSites      = []string{".gov", ".edu", ".org"}
	DefaultExclusions = []string{"jobs", "admissions", "curriculum"}
)

// Expander builds one boolean search query per keyword. Zero-valued fields
// fall back to the package defaults.
type Expander struct {
	Qualifiers []string
	Sites      []string
	Exclusions []string
}

// Expand returns exactly one query per keyword, in input order. An empty
// keyword list yields an empty query list.
func (e Expander) Expand(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	qualifiers := pick(e.Qualifiers, DefaultQualifiers)
	sites := pick(e.Sites, DefaultSites)
	exclusions := pick(e.Exclusions, DefaultExclusions)

	// The suffix is identical for every keyword; build it once.
	var tail strings.Builder
	tail.WriteString(" AND (")
	for i, q := range qualifiers {
		if i > 0 {
			tail.WriteString(" OR ")
		}
		tail.WriteString(`"` + q + `"`)
	}
	tail.WriteString(") AND (")
	for i, s := range sites {
		if i > 0 {
			tail.WriteString(" OR ")
		}
		tail.WriteString("site:" + s)
	}
	tail.WriteString(")")
	for _, x := range exclusions {
		tail.WriteString(" -" + x)
	}
	suffix := tail.String()

	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, Phrase(kw)+suffix)
	}
	return out
}

// Expand uses the default clauses.
func Expand(keywords []string) []string {
	return Expander{}.Expand(keywords)
}

// Phrase quotes a keyword as an exact phrase. Embedded double quotes are
// removed so the phrase stays well-formed.
func Phrase(keyword string) string {
	kw := strings.TrimSpace(strings.ReplaceAll(keyword, `"`, ""))
	return `"` + kw + `"`
}

// NormalizeKeywords trims keywords and drops blank entries, keeping order.
func NormalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		s := strings.TrimSpace(kw)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RelevanceContext describes, in one sentence, what counts as a relevant
// article for the requested keywords. It is the scorer's input.
func RelevanceContext(keywords []string) string {
	return "A relevant article discusses federal activities like new grants, programs, or policy " +
		"affecting universities and innovation ecosystems related to " + strings.Join(keywords, ", ") + "."
}

func pick(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
