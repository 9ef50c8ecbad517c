package extract

import (
	"testing"

	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		strict    bool
		expected  models.AssetTag
		found     bool
	}{
		{name: "surrounded by text", fragments: []string{"ABC 12345 XYZ"}, expected: "12345", found: true},
		{name: "hyphen grouped", fragments: []string{"12-345-6"}, expected: "123456", found: true},
		{name: "dot grouped", fragments: []string{"PAT. 1.234.567"}, expected: "1234567", found: true},
		{name: "too short", fragments: []string{"1234"}},
		{name: "longer run takes first seven", fragments: []string{"12345678"}, expected: "1234567", found: true},
		{name: "leading zeros preserved", fragments: []string{"nº 0004521"}, expected: "0004521", found: true},
		{name: "first matching fragment", fragments: []string{"no digits here", "item 99887"}, expected: "99887", found: true},
		{name: "earlier match wins", fragments: []string{"11111", "22222"}, expected: "11111", found: true},
		{name: "no fragments"},
		{name: "digits split by letters", fragments: []string{"123ab45"}},
		{name: "strict exact fragment", fragments: []string{"12 345"}, strict: true, expected: "12345", found: true},
		{name: "strict rejects debris", fragments: []string{"ABC 12345 XYZ"}, strict: true},
		{name: "strict rejects long run", fragments: []string{"12345678"}, strict: true},
		{name: "strict skips to later fragment", fragments: []string{"SALA 12345", "54321"}, strict: true, expected: "54321", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Options{Strict: tt.strict})
			got, ok := e.Extract(tt.fragments)
			if ok != tt.found {
				t.Fatalf("Expected found=%v, got %v (tag %q)", tt.found, ok, got)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExtractResultIsValidTag(t *testing.T) {
	e := New(Options{})
	inputs := []string{"x 98765432 y", "00-00-01", "tel 3333-4444"}
	for _, in := range inputs {
		tag, ok := e.Extract([]string{in})
		if !ok {
			continue
		}
		if _, err := models.ParseAssetTag(tag.String()); err != nil {
			t.Errorf("Extract(%q) produced invalid tag %q: %v", in, tag, err)
		}
	}
}

func TestClean(t *testing.T) {
	if got := Clean(" 12.34-5\t6 "); got != "123456" {
		t.Errorf("Expected 123456, got %q", got)
	}
}
