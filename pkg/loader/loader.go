// Package loader reads tabular data for the table renderer. It accepts CSV, TSV,
// JSON, newline-delimited JSON, YAML (single or multi-document) and TOML, and
// turns each into a header row plus string rows.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Format names an input encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
)

// Formats lists the formats accepted by ParseFormat.
var Formats = []Format{FormatAuto, FormatCSV, FormatTSV, FormatJSON, FormatNDJSON, FormatYAML, FormatTOML}

// ErrEmpty is returned for input without any records.
var ErrEmpty = errors.New("empty input")

// Table is data laid out as a header row and rows of cells. Rows may be
// shorter or longer than Headers.
type Table struct {
	Headers []string
	Rows    [][]string
	// Format is the format the data was read as.
	Format Format
}

// ParseFormat parses a format name. The empty string is FormatAuto.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return FormatAuto, nil
	case "yml":
		return FormatYAML, nil
	case "jsonl":
		return FormatNDJSON, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
}

// FormatFromPath guesses the format from a file extension. Unknown extensions
// give FormatAuto.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}

// Load parses data in the given format. FormatAuto detects the format from the
// content.
func Load(data []byte, format Format) (Table, error) {
	input := string(data)
	if strings.TrimSpace(input) == "" {
		return Table{}, ErrEmpty
	}
	if format == "" || format == FormatAuto {
		format = Detect(input)
	}

	var (
		t   Table
		err error
	)
	switch format {
	case FormatCSV:
		t, err = loadDelimited(input, ',')
	case FormatTSV:
		t, err = loadDelimited(input, '\t')
	case FormatJSON, FormatYAML:
		t, err = loadYAML(input)
	case FormatNDJSON:
		t, err = loadNDJSON(input)
	case FormatTOML:
		t, err = loadTOML(input)
	default:
		return Table{}, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return Table{}, err
	}
	t.Format = format
	return t, nil
}

// LoadFile reads a file and parses it. With FormatAuto the extension decides,
// then the content.
func LoadFile(path string, format Format) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	if format == "" || format == FormatAuto {
		format = FormatFromPath(path)
	}
	return Load(data, format)
}

// Detect guesses the format of input. Anything that does not look like one of
// the structured formats is treated as delimited text.
func Detect(input string) Format {
	input = strings.TrimSpace(input)

	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return FormatYAML
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return FormatNDJSON
	}

	// TOML [section] headers look like JSON arrays, so check TOML first.
	if isLikelyTOML(input) {
		return FormatTOML
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return FormatJSON
	}

	if isLikelyYAML(lines) {
		return FormatYAML
	}

	first := lines[0]
	if strings.Contains(first, "\t") && !strings.Contains(first, ",") {
		return FormatTSV
	}
	return FormatCSV
}

// isLikelyNDJSON heuristic: returns true if the input looks like newline-delimited JSON.
// A majority of non-empty lines must be complete JSON objects or arrays, so YAML lists
// and pretty-printed JSON are not mistaken for NDJSON.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
			(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

var (
	// [server], [[items]], ["table name"], [database.credentials]
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// name = "value", "table name" = "value", database.host = "localhost"
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
	// key: value, "quoted key": value, key:
	yamlKeyPattern = regexp.MustCompile(`^\s*(?:[^\s,"'#:][^,:]*|"[^"]*"|'[^']*'):(?:\s|$)`)
)

// isLikelyTOML heuristic: returns true if the input has section headers or mostly
// key = value lines.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

// isLikelyYAML reports whether the first significant line is a block list item
// or a mapping key. Delimited text rarely starts that way.
func isLikelyYAML(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed == "-" || strings.HasPrefix(trimmed, "- ") || yamlKeyPattern.MatchString(line)
	}
	return false
}
