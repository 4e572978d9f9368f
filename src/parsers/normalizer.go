// backend/src/parsers/normalizer.go
package parsers

import (
	"fmt"
	"time"

	"github.com/username/paydash/backend/src/logger"
	"github.com/username/paydash/backend/src/models"
)

// genericDateLayouts is the fallback chain tried when none of a profile's own
// layouts match. Acquirers have been observed to switch formats between report
// versions without notice.
var genericDateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	time.RFC3339,
}

// NormalizeRecord maps one cleaned record into a CanonicalSale using the
// file's classified source profile. It returns false when the record is
// dropped; every defect, fatal to the row or not, lands in the collector.
//
// Order of operations: required fields first (terminal, gross amount), then
// date parsing with fallback, then payment vocabulary, then installment
// defaulting. runTime stands in for unparsable dates.
func NormalizeRecord(rec models.CleanedRecord, source models.Source, runTime time.Time, warnings *models.WarningCollector) (models.CanonicalSale, bool) {
	profile, ok := profileFor(source)
	if !ok {
		warnings.Add(rec.FileName, rec.Row, fmt.Sprintf("no mapping profile for source %q", source))
		return models.CanonicalSale{}, false
	}

	terminal := textField(rec, profile, profile.fields.Terminal)
	gross := numericField(rec, profile, profile.fields.Amount)
	if terminal == "" || gross <= 0 {
		warnings.Add(rec.FileName, rec.Row, "missing required field: terminal identifier and a positive gross amount are mandatory")
		return models.CanonicalSale{}, false
	}

	sale := models.CanonicalSale{
		TransactionID: textField(rec, profile, profile.fields.TransactionID),
		TerminalID:    terminal,
		GrossAmount:   gross,
		Status:        textField(rec, profile, profile.fields.Status),
		CardBrand:     textField(rec, profile, profile.fields.Brand),
		Source:        source,
	}

	sale.SaleDate = parseSaleDate(rec, profile, runTime, warnings)

	rawType := textField(rec, profile, profile.fields.PaymentType)
	sale.PaymentType = mapPaymentType(rawType, profile, rec, warnings)
	if sale.PaymentType == models.PaymentPix && sale.CardBrand == "" {
		sale.CardBrand = "Pix"
	}

	sale.Installments = int(numericField(rec, profile, profile.fields.Installments))
	if sale.Installments < 1 {
		sale.Installments = 1
	}

	if override := textField(rec, profile, profile.fields.Source); override != "" {
		if src, ok := models.ParseSource(override); ok {
			sale.Source = src
		} else {
			warnings.Add(rec.FileName, rec.Row, fmt.Sprintf("unknown source attribution %q; keeping %q", override, sale.Source))
		}
	}

	return sale, true
}

func parseSaleDate(rec models.CleanedRecord, profile sourceProfile, runTime time.Time, warnings *models.WarningCollector) time.Time {
	raw := textField(rec, profile, profile.fields.Date)
	if t := textField(rec, profile, profile.fields.Time); t != "" {
		raw = raw + " " + t
	}

	for _, layout := range profile.dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	warnings.Add(rec.FileName, rec.Row, fmt.Sprintf("unparsable sale date %q; using import time as an approximate placeholder", raw))
	if logger.L != nil {
		logger.L.Warn("sale date unparsable, substituting import time",
			"file", rec.FileName, "row", rec.Row, "value", raw)
	}
	return runTime
}

func mapPaymentType(rawType string, profile sourceProfile, rec models.CleanedRecord, warnings *models.WarningCollector) models.PaymentType {
	if rawType == "" {
		return models.PaymentUnknown
	}
	if mapped, ok := profile.paymentTypes[foldHeader(rawType)]; ok {
		return mapped
	}
	warnings.Add(rec.FileName, rec.Row, fmt.Sprintf("unmapped payment type %q; recorded as unknown", rawType))
	return models.PaymentUnknown
}

// textField resolves a profile column against a cleaned record, tolerating
// header spelling variations via folding and the profile's alias table.
// Numeric columns are not reachable through it on purpose.
func textField(rec models.CleanedRecord, profile sourceProfile, column string) string {
	if column == "" {
		return ""
	}
	for name, value := range rec.Text {
		if profile.canonicalHeader(foldHeader(name)) == column {
			return value
		}
	}
	return ""
}

func numericField(rec models.CleanedRecord, profile sourceProfile, column string) float64 {
	if column == "" {
		return 0
	}
	for name, value := range rec.Numeric {
		if profile.canonicalHeader(foldHeader(name)) == column {
			return value
		}
	}
	return 0
}
