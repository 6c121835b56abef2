// SPDX-License-Identifier: MPL-2.0

package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and hyphenates spaces",
			input:    "Week 1 Homework",
			expected: "week-1-homework",
		},
		{
			name:     "collapses punctuation runs",
			input:    "Intro!!!   to -- Go",
			expected: "intro-to-go",
		},
		{
			name:     "trims leading and trailing separators",
			input:    "  --Course Notes--  ",
			expected: "course-notes",
		},
		{
			name:     "keeps digits",
			input:    "Lab 02: Pointers & Slices",
			expected: "lab-02-pointers-slices",
		},
		{
			name:     "all-symbol input normalizes to empty",
			input:    "!!!",
			expected: "",
		},
		{
			name:     "already normalized is unchanged",
			input:    "week-01-homework",
			expected: "week-01-homework",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips single extension",
			input:    "week-01-homework.json",
			expected: "week-01-homework",
		},
		{
			name:     "strips only the last extension",
			input:    "syllabus.draft.html",
			expected: "syllabus.draft",
		},
		{
			name:     "no extension is unchanged",
			input:    "README",
			expected: "README",
		},
		{
			name:     "leading dot is not an extension",
			input:    ".gitignore",
			expected: ".gitignore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stem(tt.input); got != tt.expected {
				t.Errorf("Stem(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
