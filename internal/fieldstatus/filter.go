package fieldstatus

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	celeval "github.com/oakwood-commons/ltable/internal/cel"
)

// FieldVar is the CEL variable a filter expression uses for the current row.
const FieldVar = "f"

// Filter returns the fields for which expr is true. The row is exposed as a
// string map: f.name, f.group, f.description and one lowercase key per source,
// e.g. f.acc == "missing" || f.iracing == "partial". An empty expression keeps
// every field.
func (c *Catalog) Filter(expr string) (*Catalog, error) {
	if strings.TrimSpace(expr) == "" {
		return &Catalog{Sources: c.Sources, Fields: append([]Field(nil), c.Fields...)}, nil
	}
	ev, err := celeval.NewEvaluator(cel.Variable(FieldVar, cel.MapType(cel.StringType, cel.StringType)))
	if err != nil {
		return nil, err
	}
	pred, err := ev.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("filter: %w (functions: %s)", err, strings.Join(ev.Functions(), ", "))
	}

	out := &Catalog{Sources: c.Sources}
	for _, f := range c.Fields {
		ok, err := pred.Match(map[string]any{FieldVar: f.vars()})
		if err != nil {
			return nil, fmt.Errorf("filter %s.%s: %w", f.Group, f.Name, err)
		}
		if ok {
			out.Fields = append(out.Fields, f)
		}
	}
	return out, nil
}

func (f Field) vars() map[string]string {
	m := map[string]string{
		"name":        f.Name,
		"group":       strings.ToLower(f.Group),
		"description": f.Description,
	}
	for src, st := range f.Status {
		m[strings.ToLower(src)] = string(st)
	}
	return m
}
