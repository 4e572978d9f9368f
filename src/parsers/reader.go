// backend/src/parsers/reader.go
package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/paydash/backend/src/models"
)

// ErrMalformedFile marks a file whose structure cannot be read at all (empty
// header or no data lines). It aborts that file only, never the whole run.
var ErrMalformedFile = errors.New("malformed file")

// Delimiter is the field separator used by every supported acquirer export.
const Delimiter = ';'

// ReadDelimited turns the raw content of one uploaded file into ordered raw
// records plus the header list. The first non-empty line is always the header;
// row index 0 is the first data line. Both \n and \r\n line endings are
// accepted, and blank lines are skipped without consuming a row index.
func ReadDelimited(fileName string, r io.Reader) ([]models.RawRecord, []string, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := readNonEmptyLine(reader)
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("%w: %s has no header line", ErrMalformedFile, fileName)
		}
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", fileName, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) == 0 || (len(header) == 1 && header[0] == "") {
		return nil, nil, fmt.Errorf("%w: %s has an empty header line", ErrMalformedFile, fileName)
	}

	var records []models.RawRecord
	row := 0
	for {
		line, err := readNonEmptyLine(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading %s row %d: %w", fileName, row, err)
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(line) {
				fields[name] = line[i]
			} else {
				fields[name] = ""
			}
		}
		records = append(records, models.RawRecord{
			FileName: fileName,
			Row:      row,
			Header:   header,
			Fields:   fields,
		})
		row++
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no data lines", ErrMalformedFile, fileName)
	}
	return records, header, nil
}

// readNonEmptyLine skips lines whose every field is blank. encoding/csv
// already drops fully empty lines; this also covers lines of bare delimiters.
func readNonEmptyLine(reader *csv.Reader) ([]string, error) {
	for {
		line, err := reader.Read()
		if err != nil {
			return nil, err
		}
		for _, f := range line {
			if strings.TrimSpace(f) != "" {
				return line, nil
			}
		}
	}
}
