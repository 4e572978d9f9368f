// backend/src/services/export.go
package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/username/paydash/backend/src/parsers"
)

// exportHeader is the fixed canonical column order of the audit re-export.
// Feeding the exported file back through the pipeline classifies it under the
// export profile and reproduces the same records (ids aside).
var exportHeader = []string{"id", "data", "terminal", "valor", "tipo", "status", "bandeira", "parcelas", "origem"}

// ExportRun renders a pending run's accepted records as a semicolon-delimited
// file for the operator to audit before approving the commit.
func (s *importServiceImpl) ExportRun(runID string) ([]byte, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = parsers.Delimiter

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("error writing export header: %w", err)
	}
	for _, rec := range run.Records {
		row := []string{
			rec.TransactionID,
			rec.SaleDate.Format(time.RFC3339),
			rec.TerminalID,
			strconv.FormatFloat(rec.GrossAmount, 'f', 2, 64),
			string(rec.PaymentType),
			rec.Status,
			rec.CardBrand,
			strconv.Itoa(rec.Installments),
			string(rec.Source),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("error writing export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing export: %w", err)
	}
	return buf.Bytes(), nil
}
