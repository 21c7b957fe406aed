package query

import (
	"strings"
	"testing"
)

func TestExpand_OneQueryPerKeyword(t *testing.T) {
	kws := []string{"AI", "quantum computing", "semiconductors"}
	got := Expand(kws)
	if len(got) != len(kws) {
		t.Fatalf("expected %d queries, got %d", len(kws), len(got))
	}
	for i, kw := range kws {
		if !strings.HasPrefix(got[i], `"`+kw+`" AND `) {
			t.Fatalf("query %d does not start with exact phrase %q: %s", i, kw, got[i])
		}
	}
}

func TestExpand_ContainsQualifiersSitesAndExclusions(t *testing.T) {
	q := Expand([]string{"AI"})[0]
	want := `"AI" AND ("university research funding" OR "federal grant" OR "innovation ecosystem" OR "R&D policy") AND (site:.gov OR site:.edu OR site:.org) -jobs -admissions -curriculum`
	if q != want {
		t.Fatalf("unexpected query:\n got: %s\nwant: %s", q, want)
	}
}

func TestExpand_Empty(t *testing.T) {
	if got := Expand(nil); len(got) != 0 {
		t.Fatalf("expected no queries, got %v", got)
	}
}

func TestExpander_Overrides(t *testing.T) {
	e := Expander{Qualifiers: []string{"NSF"}, Sites: []string{".gov"}, Exclusions: []string{"careers"}}
	got := e.Expand([]string{"fusion"})[0]
	want := `"fusion" AND ("NSF") AND (site:.gov) -careers`
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestPhrase_StripsQuotes(t *testing.T) {
	if got := Phrase(` "AI" policy `); got != `"AI policy"` {
		t.Fatalf("unexpected phrase: %s", got)
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{" AI ", "", "  ", "chips"})
	if len(got) != 2 || got[0] != "AI" || got[1] != "chips" {
		t.Fatalf("unexpected: %v", got)
	}
}

func TestRelevanceContext_JoinsKeywords(t *testing.T) {
	got := RelevanceContext([]string{"AI", "chips"})
	if !strings.HasSuffix(got, "related to AI, chips.") {
		t.Fatalf("unexpected context: %s", got)
	}
}
