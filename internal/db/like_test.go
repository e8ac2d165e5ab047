package db

import "testing"

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"ama":      "%ama%",
		"100%":     `%100\%%`,
		"a_b":      `%a\_b%`,
		`c:\temp`:  `%c:\\temp%`,
		"":         "%%",
		`50%_off\`: `%50\%\_off\\%`,
	}

	for term, want := range cases {
		if got := ContainsPattern(term); got != want {
			t.Fatalf("ContainsPattern(%q) = %q, want %q", term, got, want)
		}
	}
}
