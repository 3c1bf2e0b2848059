package loader

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// loadDelimited returns the first record as headers and the rest as rows.
// Records may have any number of fields.
func loadDelimited(input string, comma rune) (Table, error) {
	reader := csv.NewReader(strings.NewReader(input))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = comma == '\t'
	records, err := reader.ReadAll()
	if err != nil {
		if comma == '\t' {
			return Table{}, fmt.Errorf("invalid TSV: %w", err)
		}
		return Table{}, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, ErrEmpty
	}
	return Table{Headers: records[0], Rows: records[1:]}, nil
}
