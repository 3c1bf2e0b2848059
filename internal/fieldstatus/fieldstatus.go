// Package fieldstatus reads the telemetry field status document: markdown
// tables listing each field of the unified sim model and how far every game
// adapter implements it.
package fieldstatus

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed fields.md
var embeddedFields []byte

// ErrNoTables is returned when a document contains no field table.
var ErrNoTables = errors.New("no field tables found")

// Status is the implementation state of a field for one source.
type Status string

const (
	StatusDone    Status = "done"
	StatusPartial Status = "partial"
	StatusMissing Status = "missing"
	StatusNA      Status = "n/a"
)

// Statuses lists the statuses in display order.
var Statuses = []Status{StatusDone, StatusPartial, StatusMissing, StatusNA}

// ParseStatus normalizes the spellings used in status documents. Empty cells
// count as missing.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "done", "yes", "✓", "✔", "✔️", "x":
		return StatusDone, nil
	case "partial", "wip", "~":
		return StatusPartial, nil
	case "", "missing", "no", "todo", "✗":
		return StatusMissing, nil
	case "n/a", "na", "-", "—":
		return StatusNA, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Field is one row of the document.
type Field struct {
	Name        string
	Group       string
	Description string
	// Status is keyed by source name as written in the table header.
	Status map[string]Status
}

// Catalog is a parsed status document.
type Catalog struct {
	// Sources are the status columns in header order, e.g. ACC and iRacing.
	Sources []string
	Fields  []Field
}

// Default parses the embedded document.
func Default() (*Catalog, error) {
	return Parse(embeddedFields)
}

// Parse reads every table of a markdown document. Each table must have a Field
// column; a Description column is optional and every other column is a source.
// The nearest heading above a table names the group of its rows.
func Parse(md []byte) (*Catalog, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(md)

	c := &Catalog{}
	group := ""
	var perr error
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Heading:
			group = strings.TrimSpace(nodeText(n))
			return ast.SkipChildren
		case *ast.Table:
			if err := c.addTable(n, group); err != nil {
				perr = err
				return ast.Terminate
			}
			return ast.SkipChildren
		}
		return ast.GoToNext
	})
	if perr != nil {
		return nil, perr
	}
	if c.Sources == nil && len(c.Fields) == 0 {
		return nil, ErrNoTables
	}
	return c, nil
}

func (c *Catalog) addTable(table *ast.Table, group string) error {
	var header []string
	var rows [][]string
	for _, section := range table.Children {
		for _, r := range section.GetChildren() {
			row, ok := r.(*ast.TableRow)
			if !ok {
				continue
			}
			cells := make([]string, 0, len(row.Children))
			for _, cell := range row.Children {
				cells = append(cells, strings.TrimSpace(nodeText(cell)))
			}
			if _, isHeader := section.(*ast.TableHeader); isHeader {
				header = cells
			} else {
				rows = append(rows, cells)
			}
		}
	}

	nameCol, descCol := -1, -1
	var sources []string
	var sourceCols []int
	for i, h := range header {
		switch strings.ToLower(h) {
		case "field", "name":
			nameCol = i
		case "description":
			descCol = i
		default:
			sources = append(sources, h)
			sourceCols = append(sourceCols, i)
		}
	}
	if nameCol < 0 {
		return fmt.Errorf("table in %q has no Field column", group)
	}
	if c.Sources == nil {
		c.Sources = sources
	} else if !equalFold(c.Sources, sources) {
		return fmt.Errorf("table in %q has sources %v, expected %v", group, sources, c.Sources)
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	for _, row := range rows {
		f := Field{
			Name:        cell(row, nameCol),
			Group:       group,
			Description: cell(row, descCol),
			Status:      make(map[string]Status, len(sources)),
		}
		for k, col := range sourceCols {
			st, err := ParseStatus(cell(row, col))
			if err != nil {
				return fmt.Errorf("field %s.%s, %s: %w", group, f.Name, c.Sources[k], err)
			}
			f.Status[c.Sources[k]] = st
		}
		c.Fields = append(c.Fields, f)
	}
	return nil
}

// nodeText concatenates the literal text below n.
func nodeText(n ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Literal)
		case *ast.Code:
			b.Write(t.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}

func equalFold(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Groups returns the group names in document order.
func (c *Catalog) Groups() []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range c.Fields {
		if !seen[f.Group] {
			seen[f.Group] = true
			out = append(out, f.Group)
		}
	}
	return out
}

// Headers returns the column titles used by Rows.
func (c *Catalog) Headers() []string {
	return append([]string{"Field", "Group", "Description"}, c.Sources...)
}

// Rows returns the catalog as string rows matching Headers.
func (c *Catalog) Rows() [][]string {
	rows := make([][]string, len(c.Fields))
	for i, f := range c.Fields {
		row := []string{f.Name, f.Group, f.Description}
		for _, s := range c.Sources {
			row = append(row, string(f.Status[s]))
		}
		rows[i] = row
	}
	return rows
}

// SourceSummary counts the statuses of one source.
type SourceSummary struct {
	Source string         `json:"source" yaml:"source" toml:"source"`
	Counts map[Status]int `json:"counts" yaml:"counts" toml:"counts"`
	Total  int            `json:"total" yaml:"total" toml:"total"`
}

// Coverage is the share of applicable fields that are done, in percent. Fields
// marked n/a are not applicable.
func (s SourceSummary) Coverage() float64 {
	applicable := s.Total - s.Counts[StatusNA]
	if applicable <= 0 {
		return 0
	}
	return 100 * float64(s.Counts[StatusDone]) / float64(applicable)
}

// Summary counts statuses per source, in source order.
func (c *Catalog) Summary() []SourceSummary {
	out := make([]SourceSummary, len(c.Sources))
	for i, s := range c.Sources {
		sum := SourceSummary{Source: s, Counts: make(map[Status]int, len(Statuses))}
		for _, f := range c.Fields {
			sum.Counts[f.Status[s]]++
			sum.Total++
		}
		out[i] = sum
	}
	return out
}

// SortedBy returns a copy of the catalog with fields ordered by the given key:
// name, group or a source name. Unknown keys keep document order.
func (c *Catalog) SortedBy(key string) *Catalog {
	out := &Catalog{Sources: c.Sources, Fields: append([]Field(nil), c.Fields...)}
	rank := make(map[Status]int, len(Statuses))
	for i, s := range Statuses {
		rank[s] = i
	}
	var less func(a, b Field) bool
	switch strings.ToLower(key) {
	case "name", "field":
		less = func(a, b Field) bool { return a.Name < b.Name }
	case "group":
		less = func(a, b Field) bool { return a.Group < b.Group }
	default:
		for _, s := range c.Sources {
			if strings.EqualFold(s, key) {
				src := s
				less = func(a, b Field) bool { return rank[a.Status[src]] < rank[b.Status[src]] }
			}
		}
	}
	if less != nil {
		sort.SliceStable(out.Fields, func(i, j int) bool { return less(out.Fields[i], out.Fields[j]) })
	}
	return out
}
