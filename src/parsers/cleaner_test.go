package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/paydash/backend/src/models"
)

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "thousands dot with comma decimal", raw: "1.234,56", want: 1234.56},
		{name: "currency prefix", raw: "R$ 1.234,56", want: 1234.56},
		{name: "plain comma decimal", raw: "45,10", want: 45.1},
		{name: "quoted value", raw: `"45,10"`, want: 45.1},
		{name: "dot decimal without comma", raw: "12.34", want: 12.34},
		{name: "negative", raw: "-12,5", want: -12.5},
		{name: "integer", raw: "3", want: 3},
		{name: "garbage", raw: "n/a", want: 0},
		{name: "empty", raw: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CleanNumber(tt.raw), 0.0001)
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Aprovada", CleanText(`  "Aprovada"  `))
	assert.Equal(t, "POS 01", CleanText(" POS 01 "))
	assert.Equal(t, "", CleanText(`""`))
}

func TestClean(t *testing.T) {
	raw := models.RawRecord{
		FileName: "sales.csv",
		Row:      2,
		Header:   []string{"Terminal", "Valor Bruto", "Parcelas", "Status"},
		Fields: map[string]string{
			"Terminal":    " POS 01 ",
			"Valor Bruto": "1.234,56",
			"Parcelas":    "3",
			"Status":      ` "Aprovada" `,
		},
	}

	cleaned := Clean(raw)

	assert.Equal(t, "sales.csv", cleaned.FileName)
	assert.Equal(t, 2, cleaned.Row)
	assert.Equal(t, "POS 01", cleaned.Text["Terminal"])
	assert.Equal(t, "Aprovada", cleaned.Text["Status"])
	assert.InDelta(t, 1234.56, cleaned.Numeric["Valor Bruto"], 0.0001)
	assert.InDelta(t, 3, cleaned.Numeric["Parcelas"], 0.0001)

	// Numeric-hint columns live only in the numeric map.
	_, inText := cleaned.Text["Valor Bruto"]
	assert.False(t, inText)
}
