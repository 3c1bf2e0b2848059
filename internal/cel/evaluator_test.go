package cel

import (
	"testing"

	"github.com/google/cel-go/cel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRowEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(cel.Variable("f", cel.MapType(cel.StringType, cel.StringType)))
	require.NoError(t, err)
	return e
}

func TestPredicateMatch(t *testing.T) {
	e := newRowEvaluator(t)
	row := map[string]any{"f": map[string]string{"name": "speed", "acc": "done"}}

	tests := []struct {
		expr string
		want bool
	}{
		{expr: `f.acc == "done"`, want: true},
		{expr: `f.name.startsWith("sp")`, want: true},
		{expr: `f.name.upperAscii() == "SPEED"`, want: true},
		{expr: `f.acc != "done"`, want: false},
		{expr: `"acc" in f && f.name.size() > 10`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := e.Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, p.String())
			got, err := p.Match(row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	e := newRowEvaluator(t)

	_, err := e.Compile(`f.name +`)
	assert.ErrorContains(t, err, "compile")

	_, err = e.Compile(`f.name`)
	assert.ErrorContains(t, err, "want bool")

	_, err = e.Compile(`g == 1`)
	assert.Error(t, err, "undeclared variable")
}

func TestMatchMissingKey(t *testing.T) {
	e := newRowEvaluator(t)
	p, err := e.Compile(`f.missing == "x"`)
	require.NoError(t, err)
	_, err = p.Match(map[string]any{"f": map[string]string{}})
	assert.ErrorContains(t, err, "eval")
}

func TestFunctions(t *testing.T) {
	e := newRowEvaluator(t)
	fns := e.Functions()
	assert.Contains(t, fns, "startsWith")
	assert.Contains(t, fns, "filter")
	for _, f := range fns {
		assert.False(t, isOperator(f), f)
	}
}
