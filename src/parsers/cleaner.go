// backend/src/parsers/cleaner.go
package parsers

import (
	"strconv"
	"strings"

	"github.com/username/paydash/backend/src/models"
)

// Clean converts one raw record into a cleaned record. Columns whose folded
// header carries a numeric hint go through locale numeric cleanup; everything
// else is unquoted and trimmed only.
func Clean(rec models.RawRecord) models.CleanedRecord {
	cleaned := models.CleanedRecord{
		FileName: rec.FileName,
		Row:      rec.Row,
		Text:     make(map[string]string, len(rec.Fields)),
		Numeric:  make(map[string]float64),
	}
	for name, value := range rec.Fields {
		if isNumericHeader(name) {
			cleaned.Numeric[name] = CleanNumber(value)
		} else {
			cleaned.Text[name] = CleanText(value)
		}
	}
	return cleaned
}

// numericHints mark columns that carry locale-formatted numbers. Matched on
// the folded header name so both Portuguese and English exports are covered.
var numericHints = []string{"valor", "amount", "total", "parcela", "installment", "quantidade", "quantity"}

func isNumericHeader(name string) bool {
	folded := foldHeader(name)
	for _, hint := range numericHints {
		if strings.Contains(folded, hint) {
			return true
		}
	}
	return false
}

// CleanNumber reinterprets a locale-formatted numeric string: surrounding
// quotes stripped, comma treated as the decimal separator, dots as thousands
// separators when a comma is present, and every character outside
// digits/minus/decimal-point discarded. Unparsable input becomes 0; enforcing
// required-amount invariants is the normalizer's job, not the cleaner's.
func CleanNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// CleanText unquotes and trims a non-numeric field.
func CleanText(raw string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`))
}
