// backend/src/parsers/parser.go
package parsers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/username/paydash/backend/src/models"
)

// ErrUnknownSource marks a structurally readable file whose headers match no
// known acquirer profile. Like ErrMalformedFile it is fatal to that file only.
var ErrUnknownSource = errors.New("file format not recognized")

// ParseFile runs the per-file pipeline stages in sequence: tabular read,
// source classification, row cleanup, normalization. Row-level defects go to
// the collector and never abort the file; only a malformed structure or an
// unrecognized header set does, and then as a typed error so the caller can
// downgrade it to a file-level warning while other files proceed.
func ParseFile(fileName string, r io.Reader, runTime time.Time, warnings *models.WarningCollector) ([]models.CanonicalSale, models.Source, error) {
	rawRecords, header, err := ReadDelimited(fileName, r)
	if err != nil {
		return nil, models.SourceUnknown, err
	}

	source := DetectSource(header)
	if source == models.SourceUnknown {
		return nil, models.SourceUnknown, fmt.Errorf("%w: %s", ErrUnknownSource, fileName)
	}

	var sales []models.CanonicalSale
	for _, raw := range rawRecords {
		cleaned := Clean(raw)
		if sale, ok := NormalizeRecord(cleaned, source, runTime, warnings); ok {
			sales = append(sales, sale)
		}
	}
	return sales, source, nil
}
