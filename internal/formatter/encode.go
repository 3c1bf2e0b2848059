package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a machine readable output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
)

// ParseFormat accepts table, yaml, yml, json and toml. The empty string is table.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected table, yaml, json or toml)", s)
	}
}

// Encode writes v in the given format. FormatTable is not an encoding and is
// rejected.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatYAML:
		return encodeYAML(w, v)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(v)
	default:
		return fmt.Errorf("format %q cannot encode values", f)
	}
}

// encodeYAML writes multi-line strings as literal blocks.
func encodeYAML(w io.Writer, v any) error {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return err
	}
	literalBlocks(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func literalBlocks(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		literalBlocks(c)
	}
}
