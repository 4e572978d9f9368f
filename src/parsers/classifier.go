// backend/src/parsers/classifier.go
package parsers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/username/paydash/backend/src/models"
)

// accentFolder strips combining marks so "Código" and "codigo" compare equal.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldHeader normalizes a header name for comparison: accents removed,
// lowercased, internal whitespace collapsed to single spaces.
func foldHeader(name string) string {
	folded, _, err := transform.String(accentFolder, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// DetectSource classifies a file by its header list. Each known source has a
// fixed set of required header names; profiles are checked in a fixed priority
// order and the first whose every required header is present wins. A partial
// match is worse than no match (it risks mapping an unrelated acquirer's
// columns), so anything short of a full match is SourceUnknown.
func DetectSource(header []string) models.Source {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = foldHeader(h)
	}

	for _, profile := range sourceProfiles {
		present := make(map[string]bool, len(folded))
		for _, h := range folded {
			present[profile.canonicalHeader(h)] = true
		}

		matched := true
		for _, required := range profile.requiredHeaders {
			if !present[required] {
				matched = false
				break
			}
		}
		if matched {
			return profile.source
		}
	}
	return models.SourceUnknown
}
