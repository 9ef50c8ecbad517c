// Package extract finds the asset tag number among recognized text fragments.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

var (
	// leftmost match, greedy up to seven digits
	digitRun = regexp.MustCompile(`\d{5,7}`)
	fullRun  = regexp.MustCompile(`^\d{5,7}$`)
)

// Options controls the matching policy.
type Options struct {
	// Strict requires the whole cleaned fragment to be the digit run.
	// The default accepts a run surrounded by other characters.
	Strict bool
}

// Extractor scans fragments in order and returns the first qualifying tag.
type Extractor struct {
	pattern *regexp.Regexp
	strict  bool
}

// New returns an Extractor for the given options.
func New(opts Options) *Extractor {
	e := &Extractor{pattern: digitRun, strict: opts.Strict}
	if opts.Strict {
		e.pattern = fullRun
	}
	return e
}

// Strict reports whether full-fragment matching is in effect.
func (e *Extractor) Strict() bool { return e.strict }

// Extract returns the tag found in the first fragment that yields a match.
// Later fragments are never looked at once a match is found.
func (e *Extractor) Extract(fragments []string) (models.AssetTag, bool) {
	for _, fragment := range fragments {
		if tag, ok := e.Match(fragment); ok {
			return tag, true
		}
	}
	return "", false
}

// Match applies the policy to a single fragment.
func (e *Extractor) Match(fragment string) (models.AssetTag, bool) {
	m := e.pattern.FindString(Clean(fragment))
	if m == "" {
		return "", false
	}
	tag, err := models.ParseAssetTag(m)
	if err != nil {
		return "", false
	}
	return tag, true
}

// Clean drops whitespace, periods and hyphens that OCR tends to put between
// grouped digits.
func Clean(fragment string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, fragment)
}
