package textutil

import "testing"

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short text unchanged", "short note", 20, "short note"},
		{"whitespace flattened", "line one\n\tline two", 40, "line one line two"},
		{"truncated with ellipsis", "abcdefghij", 4, "abcd..."},
		{"trims before appending ellipsis", "abc defghij", 4, "abc..."},
		{"multibyte safe", "päivää kaikille", 6, "päivää..."},
		{"zero max", "anything", 0, ""},
		{"empty input", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Excerpt(tt.input, tt.max)
			if got != tt.want {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
