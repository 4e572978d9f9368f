package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDelimited(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantHeader []string
		wantRows   int
		wantErr    error
	}{
		{
			name:       "unix line endings",
			content:    "Terminal;Valor\nT1;10,00\nT2;20,00\n",
			wantHeader: []string{"Terminal", "Valor"},
			wantRows:   2,
		},
		{
			name:       "windows line endings",
			content:    "Terminal;Valor\r\nT1;10,00\r\nT2;20,00\r\n",
			wantHeader: []string{"Terminal", "Valor"},
			wantRows:   2,
		},
		{
			name:       "blank lines between rows are skipped",
			content:    "Terminal;Valor\n\nT1;10,00\n\n\nT2;20,00\n",
			wantHeader: []string{"Terminal", "Valor"},
			wantRows:   2,
		},
		{
			name:       "lines of bare delimiters are skipped",
			content:    "Terminal;Valor\n;;\nT1;10,00\n",
			wantHeader: []string{"Terminal", "Valor"},
			wantRows:   1,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: ErrMalformedFile,
		},
		{
			name:    "header only",
			content: "Terminal;Valor\n",
			wantErr: ErrMalformedFile,
		},
		{
			name:    "only blank lines",
			content: "\n\n\n",
			wantErr: ErrMalformedFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, header, err := ReadDelimited("sales.csv", strings.NewReader(tt.content))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, header)
			require.Len(t, records, tt.wantRows)
			for i, rec := range records {
				assert.Equal(t, i, rec.Row)
				assert.Equal(t, "sales.csv", rec.FileName)
			}
		})
	}
}

func TestReadDelimitedFieldMapping(t *testing.T) {
	content := "Terminal;Valor;Tipo\nT1;10,00;credito\nT2;20,00\n"
	records, _, err := ReadDelimited("sales.csv", strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "T1", records[0].Fields["Terminal"])
	assert.Equal(t, "10,00", records[0].Fields["Valor"])
	assert.Equal(t, "credito", records[0].Fields["Tipo"])

	// A short row still maps every header, with missing columns empty.
	assert.Equal(t, "20,00", records[1].Fields["Valor"])
	assert.Equal(t, "", records[1].Fields["Tipo"])
}
