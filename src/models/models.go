package models

import "sync"

// RawRecord is one data line of an uploaded acquirer export, positioned by its
// 0-based distance from the header line. Values are kept exactly as read.
type RawRecord struct {
	FileName string
	Row      int
	Header   []string
	Fields   map[string]string
}

// CleanedRecord is a RawRecord after locale cleanup: numeric-looking columns
// (amounts, installments, quantities) parsed into float64, everything else
// unquoted and trimmed.
type CleanedRecord struct {
	FileName string
	Row      int
	Text     map[string]string
	Numeric  map[string]float64
}

// Warning is a non-fatal defect found while processing an import run.
// Row -1 means the warning applies to the whole file.
type Warning struct {
	FileName string `json:"file_name"`
	Row      int    `json:"row"`
	Message  string `json:"message"`
}

// WarningCollector accumulates warnings for one import run. Appends are safe
// from concurrent goroutines; entries are never discarded.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []Warning
}

func NewWarningCollector() *WarningCollector {
	return &WarningCollector{}
}

func (c *WarningCollector) Add(fileName string, row int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, Warning{FileName: fileName, Row: row, Message: message})
}

// All returns a copy of the collected warnings in append order.
func (c *WarningCollector) All() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

func (c *WarningCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

// Terminal is a payment terminal registry entry. SerialNormalized is the
// comparison key (lowercased, internal whitespace collapsed); Serial keeps the
// identifier as it appeared in the source data.
type Terminal struct {
	ID               int64  `json:"id"`
	Serial           string `json:"serial"`
	SerialNormalized string `json:"serial_normalized"`
	Model            string `json:"model"`
	Status           string `json:"status"`
	ClientID         int64  `json:"client_id"`
}

// Terminal lifecycle statuses.
const (
	TerminalStatusAvailable = "available"
	TerminalStatusAssigned  = "assigned"
)

// PlaceholderTerminalModel labels terminals auto-created by reconciliation
// until an operator fills in the real hardware model.
const PlaceholderTerminalModel = "unknown model"

// UnassignedClientID is the well-known placeholder stored when a sale cannot
// be attributed to a client.
const UnassignedClientID int64 = 0

// Client is a merchant that terminals are assigned to.
type Client struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
}

// PersistedSale is the storage-layer representation of a CanonicalSale after
// id synthesis, net-amount derivation and client resolution. Written exactly
// once per accepted record; never updated by the import pipeline.
type PersistedSale struct {
	ID             int64   `json:"id"`
	TransactionID  string  `json:"transaction_id"`
	TerminalSerial string  `json:"terminal_serial"`
	ClientID       int64   `json:"client_id"`
	SaleDate       string  `json:"sale_date"`
	GrossAmount    float64 `json:"gross_amount"`
	NetAmount      float64 `json:"net_amount"`
	PaymentType    string  `json:"payment_type"`
	Status         string  `json:"status"`
	CardBrand      string  `json:"card_brand"`
	Installments   int     `json:"installments"`
	Source         string  `json:"source"`
}
