// backend/src/models/canonical.go
package models

import (
	"strings"
	"time"
)

// Source identifies which acquirer export format a file follows. Detection is
// all-or-nothing: a file either fully matches one known header profile or is
// rejected as SourceUnknown.
type Source string

const (
	SourceCielo   Source = "cielo"
	SourceRede    Source = "rede"
	SourceStone   Source = "stone"
	SourceExport  Source = "export" // paydash's own audit re-export format
	SourceUnknown Source = "unknown"
)

// knownSources is the closed set of source identifiers a record may carry.
// SourceUnknown is excluded: it marks a classification failure, never a value
// legitimately attributed to a record.
var knownSources = map[Source]bool{
	SourceCielo:  true,
	SourceRede:   true,
	SourceStone:  true,
	SourceExport: true,
}

// ParseSource maps a free-form source label read from data onto the closed
// vocabulary. Used when a value arrives from file content rather than from
// classification, so hand-edited input cannot smuggle in arbitrary sources.
func ParseSource(s string) (Source, bool) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	return src, knownSources[src]
}

// PaymentType is the canonical payment modality vocabulary. Source-specific
// terms ("crédito", "débito", ...) are mapped into it by the normalizer.
type PaymentType string

const (
	PaymentCredit  PaymentType = "credit"
	PaymentDebit   PaymentType = "debit"
	PaymentPix     PaymentType = "pix"
	PaymentUnknown PaymentType = "unknown"
)

// CanonicalSale is the unified, source-independent representation of one sale
// transaction. The normalizer is responsible for populating it from a cleaned
// record using the source's mapping profile; it is never mutated afterwards.
//
// Invariant: GrossAmount > 0 and TerminalID != "". Records that cannot satisfy
// it are dropped with a warning instead of being emitted.
type CanonicalSale struct {
	// TransactionID may be empty here; the batch importer synthesizes one at
	// commit time when the source format carries no id of its own.
	TransactionID string      `json:"transaction_id"`
	TerminalID    string      `json:"terminal_id"`
	SaleDate      time.Time   `json:"sale_date"`
	GrossAmount   float64     `json:"gross_amount"`
	PaymentType   PaymentType `json:"payment_type"`
	Status        string      `json:"status"`
	CardBrand     string      `json:"card_brand"`
	Installments  int         `json:"installments"`
	Source        Source      `json:"source"`
}
