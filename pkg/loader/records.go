package loader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// valueColumn holds records that are not mappings.
const valueColumn = "value"

// loadYAML reads one or more YAML documents. JSON is read the same way since it
// is a subset of YAML; decoding into nodes keeps the key order of the input.
func loadYAML(input string) (Table, error) {
	decoder := yaml.NewDecoder(strings.NewReader(input))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Table{}, fmt.Errorf("invalid YAML: %w", err)
		}
		// A trailing "---" yields an empty document.
		if root := documentRoot(&doc); root != nil && !isNull(root) {
			docs = append(docs, root)
		}
	}
	if len(docs) == 1 {
		return fromNodes(recordsOf(docs[0]))
	}
	return fromNodes(flatten(docs))
}

// loadNDJSON reads one JSON value per line. Lines that do not parse are kept
// as plain values.
func loadNDJSON(input string) (Table, error) {
	var docs []*yaml.Node
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(line), &doc); err != nil || documentRoot(&doc) == nil {
			docs = append(docs, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: line})
			continue
		}
		docs = append(docs, documentRoot(&doc))
	}
	return fromNodes(flatten(docs))
}

// loadTOML reads a TOML document. TOML tables have no order once decoded, so
// keys come out sorted.
func loadTOML(input string) (Table, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return Table{}, fmt.Errorf("invalid TOML: %w", err)
	}
	if len(data) == 0 {
		return Table{}, ErrEmpty
	}
	var root yaml.Node
	if err := root.Encode(data); err != nil {
		return Table{}, fmt.Errorf("invalid TOML: %w", err)
	}
	return fromNodes(recordsOf(documentRoot(&root)))
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	return doc
}

// recordsOf returns the records of a single document: the items of a sequence,
// the items of the only sequence in a single-key mapping such as
// {"items": [...]} or a TOML array of tables, or the node itself.
func recordsOf(n *yaml.Node) []*yaml.Node {
	n = resolve(n)
	switch n.Kind {
	case yaml.SequenceNode:
		return n.Content
	case yaml.MappingNode:
		if len(n.Content) == 2 {
			if v := resolve(n.Content[1]); v.Kind == yaml.SequenceNode {
				return v.Content
			}
		}
	}
	return []*yaml.Node{n}
}

// flatten turns each document of a stream into records. Sequences contribute
// their items.
func flatten(docs []*yaml.Node) []*yaml.Node {
	var out []*yaml.Node
	for _, d := range docs {
		d = resolve(d)
		if d.Kind == yaml.SequenceNode {
			out = append(out, d.Content...)
			continue
		}
		out = append(out, d)
	}
	return out
}

// fromNodes lays records out as a table. Headers are the keys of all mapping
// records in the order they first appear.
func fromNodes(records []*yaml.Node) (Table, error) {
	if len(records) == 0 {
		return Table{}, ErrEmpty
	}

	var headers []string
	column := map[string]int{}
	addHeader := func(key string) int {
		if i, ok := column[key]; ok {
			return i
		}
		column[key] = len(headers)
		headers = append(headers, key)
		return len(headers) - 1
	}

	type cell struct {
		col  int
		text string
	}
	cells := make([][]cell, len(records))
	for r, rec := range records {
		rec = resolve(rec)
		if rec.Kind != yaml.MappingNode {
			cells[r] = []cell{{col: addHeader(valueColumn), text: nodeText(rec)}}
			continue
		}
		for i := 0; i+1 < len(rec.Content); i += 2 {
			key := nodeText(rec.Content[i])
			cells[r] = append(cells[r], cell{col: addHeader(key), text: nodeText(rec.Content[i+1])})
		}
	}

	rows := make([][]string, len(records))
	for r, cs := range cells {
		row := make([]string, len(headers))
		for _, c := range cs {
			row[c.col] = c.text
		}
		rows[r] = row
	}
	return Table{Headers: headers, Rows: rows}, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null" && n.Value == ""
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// nodeText is the cell text of a value. Nulls are empty and nested values are
// written in YAML flow style.
func nodeText(n *yaml.Node) string {
	n = resolve(n)
	if n == nil {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	}
	flow := *n
	flow.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&flow)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
