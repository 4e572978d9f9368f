// backend/src/parsers/profiles.go
package parsers

import (
	"time"

	"github.com/username/paydash/backend/src/models"
)

// fieldMap names the cleaned column (by folded header) that supplies each
// canonical field. Empty entries mean the source format has no such column.
type fieldMap struct {
	TransactionID string
	Terminal      string
	Date          string
	Time          string // optional separate time-of-day column, appended to Date
	Amount        string
	PaymentType   string
	Status        string
	Brand         string
	Installments  string
	Source        string // only the audit re-export format carries its origin
}

// sourceProfile holds everything format-specific about one acquirer export:
// the headers that identify it, the column mapping, the date layouts to try in
// order, and the payment-type vocabulary. Adding a new acquirer is a matter of
// appending a profile here.
type sourceProfile struct {
	source          models.Source
	requiredHeaders []string // folded form; all must be present to classify
	// aliases map alternate folded header spellings onto the canonical column
	// names used in requiredHeaders and fields, for acquirers whose report
	// versions renamed columns.
	aliases      map[string]string
	fields       fieldMap
	dateLayouts  []string
	paymentTypes map[string]models.PaymentType
}

// canonicalHeader resolves a folded header through the profile's alias table.
func (p sourceProfile) canonicalHeader(folded string) string {
	if canonical, ok := p.aliases[folded]; ok {
		return canonical
	}
	return folded
}

// sourceProfiles is checked in order; the first full header match wins, so the
// most column-specific formats come first and the generic Stone layout last.
var sourceProfiles = []sourceProfile{
	{
		source:          models.SourceCielo,
		requiredHeaders: []string{"data da venda", "terminal", "valor bruto", "forma de pagamento"},
		fields: fieldMap{
			TransactionID: "codigo de autorizacao",
			Terminal:      "terminal",
			Date:          "data da venda",
			Time:          "hora",
			Amount:        "valor bruto",
			PaymentType:   "forma de pagamento",
			Status:        "status",
			Brand:         "bandeira",
			Installments:  "parcelas",
		},
		dateLayouts: []string{"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006"},
		paymentTypes: map[string]models.PaymentType{
			"credito":           models.PaymentCredit,
			"credito a vista":   models.PaymentCredit,
			"credito parcelado": models.PaymentCredit,
			"debito":            models.PaymentDebit,
			"debito a vista":    models.PaymentDebit,
			"pix":               models.PaymentPix,
		},
	},
	{
		source:          models.SourceRede,
		requiredHeaders: []string{"data", "numero do terminal", "valor da venda", "modalidade"},
		fields: fieldMap{
			TransactionID: "nsu",
			Terminal:      "numero do terminal",
			Date:          "data",
			Amount:        "valor da venda",
			PaymentType:   "modalidade",
			Status:        "situacao",
			Brand:         "bandeira",
			Installments:  "qtde de parcelas",
		},
		dateLayouts: []string{"02/01/2006", "2006-01-02"},
		paymentTypes: map[string]models.PaymentType{
			"credito":           models.PaymentCredit,
			"credito parcelado": models.PaymentCredit,
			"debito":            models.PaymentDebit,
			"pix":               models.PaymentPix,
		},
	},
	{
		source:          models.SourceExport,
		requiredHeaders: []string{"id", "data", "terminal", "valor", "origem"},
		fields: fieldMap{
			TransactionID: "id",
			Terminal:      "terminal",
			Date:          "data",
			Amount:        "valor",
			PaymentType:   "tipo",
			Status:        "status",
			Brand:         "bandeira",
			Installments:  "parcelas",
			Source:        "origem",
		},
		dateLayouts: []string{time.RFC3339},
		paymentTypes: map[string]models.PaymentType{
			"credit":  models.PaymentCredit,
			"debit":   models.PaymentDebit,
			"pix":     models.PaymentPix,
			"unknown": models.PaymentUnknown,
		},
	},
	{
		// Stone exports vary a lot between report versions; only the lowest
		// common denominator of columns is required, and the full report's
		// column names are folded onto it via aliases. Keep this one last,
		// its header set is a subset of the re-export format's.
		source:          models.SourceStone,
		requiredHeaders: []string{"data", "terminal", "valor", "tipo"},
		aliases: map[string]string{
			"serial":            "terminal",
			"valor bruto":       "valor",
			"tipo de pagamento": "tipo",
		},
		fields: fieldMap{
			TransactionID: "id transacao",
			Terminal:      "terminal",
			Date:          "data",
			Time:          "hora",
			Amount:        "valor",
			PaymentType:   "tipo",
			Status:        "situacao",
			Brand:         "bandeira",
			Installments:  "parcelas",
		},
		dateLayouts: []string{"2006-01-02 15:04:05", "2006-01-02", "02/01/2006"},
		paymentTypes: map[string]models.PaymentType{
			"credito": models.PaymentCredit,
			"debito":  models.PaymentDebit,
			"pix":     models.PaymentPix,
		},
	},
}

// profileFor returns the mapping profile of a classified source.
func profileFor(source models.Source) (sourceProfile, bool) {
	for _, p := range sourceProfiles {
		if p.source == source {
			return p, true
		}
	}
	return sourceProfile{}, false
}
