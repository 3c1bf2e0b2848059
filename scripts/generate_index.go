package main

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/ltable/internal/fieldstatus"
)

const defaultCatalog = "internal/fieldstatus/fields.md"

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir> [catalog.md]\n", os.Args[0])
		os.Exit(1)
	}

	distDir := os.Args[1]
	catalogPath := defaultCatalog
	if len(os.Args) == 3 {
		catalogPath = os.Args[2]
	}
	indexPath := filepath.Join(distDir, "index.html")

	md, err := os.ReadFile(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", catalogPath, err)
		os.Exit(1)
	}
	cat, err := fieldstatus.Parse(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", catalogPath, err)
		os.Exit(1)
	}

	// Convert the catalog to HTML
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := mdhtml.CommonFlags | mdhtml.HrefTargetBlank
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: htmlFlags})
	page := markdown.Render(doc, renderer)

	page = markStatusCells(page)
	page = insertSummary(page, summaryHTML(cat))

	if err := os.MkdirAll(distDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", distDir, err)
		os.Exit(1)
	}
	f, err := os.Create(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating index.html: %v\n", err)
		os.Exit(1)
	}

	writeHeader(f)
	if _, err := f.Write(page); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error writing catalog content: %v\n", err)
		os.Exit(1)
	}
	writeFooter(f)
	f.Close()

	fmt.Fprintf(os.Stderr, "Generated %s (%d fields)\n", indexPath, len(cat.Fields))
}

// summaryHTML renders the per-source coverage table.
func summaryHTML(cat *fieldstatus.Catalog) string {
	var sb strings.Builder

	sb.WriteString(`  <div class="summary">
    <h2>Coverage</h2>
    <table class="summary-table">
      <tr><th>Source</th>`)
	for _, st := range fieldstatus.Statuses {
		sb.WriteString(fmt.Sprintf(`<th class="%s">%s</th>`, statusClass(st), html.EscapeString(string(st))))
	}
	sb.WriteString("<th>coverage</th></tr>\n")

	for _, s := range cat.Summary() {
		sb.WriteString(fmt.Sprintf(`      <tr><td class="source">%s</td>`, html.EscapeString(s.Source)))
		for _, st := range fieldstatus.Statuses {
			sb.WriteString(fmt.Sprintf("<td>%d</td>", s.Counts[st]))
		}
		sb.WriteString(fmt.Sprintf("<td>%.0f%%</td></tr>\n", s.Coverage()))
	}

	sb.WriteString(`    </table>
  </div>
`)
	return sb.String()
}

func statusClass(s fieldstatus.Status) string {
	if s == fieldstatus.StatusNA {
		return "na"
	}
	return string(s)
}

// markStatusCells adds a class to table cells holding a status value.
func markStatusCells(page []byte) []byte {
	out := string(page)
	for _, st := range fieldstatus.Statuses {
		cell := "<td>" + html.EscapeString(string(st)) + "</td>"
		out = strings.ReplaceAll(out, cell, fmt.Sprintf(`<td class="%s">%s</td>`, statusClass(st), html.EscapeString(string(st))))
	}
	return []byte(out)
}

// insertSummary places the summary before the first section of the page.
func insertSummary(page []byte, summary string) []byte {
	s := string(page)
	first := strings.Index(s, `<h2 id="`)
	if first == -1 {
		return append(page, summary...)
	}
	return []byte(s[:first] + summary + "\n" + s[first:])
}

func writeHeader(w io.Writer) {
	fmt.Fprint(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>ltable - Field status</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 1100px; margin: 40px auto; padding: 0 20px; line-height: 1.5; color: #333; }
    h1 { color: #2563eb; border-bottom: 2px solid #2563eb; padding-bottom: 10px; }
    h2 { color: #1e40af; margin-top: 30px; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    table { border-collapse: collapse; width: 100%; }
    th, td { padding: 4px 8px; border-bottom: 1px solid #e2e8f0; text-align: left; }
    .summary { background: #eff6ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2563eb; }
    .summary h2 { margin-top: 0; }
    .summary-table td { text-align: right; }
    .summary-table td.source { text-align: left; font-weight: 500; color: #1e3a8a; }
    .done { color: #15803d; }
    .partial { color: #b45309; }
    .missing { color: #b91c1c; font-weight: 500; }
    .na { color: #6b7280; }
  </style>
</head>
<body>
`)
}

func writeFooter(w io.Writer) {
	fmt.Fprint(w, `</body>
</html>
`)
}
