package specification

import "testing"

func TestSearchQueryWildcardsAreEscaped(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"plain", "meeting notes", "meeting notes"},
		{"percent", "100% off", `100\% off`},
		{"underscore", "snake_case", `snake\_case`},
		{"backslash", `C:\notes`, `C:\\notes`},
		{"mixed", `50%_\`, `50\%\_\\`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := likeEscaper.Replace(tc.query); got != tc.want {
				t.Errorf("Replace(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}
