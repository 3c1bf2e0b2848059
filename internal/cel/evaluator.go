// Package cel compiles and runs CEL expressions over plain Go values.
package cel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// Evaluator holds a CEL environment with the string, list and math extensions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator. opts declare the variables expressions may
// reference.
func NewEvaluator(opts ...cel.EnvOption) (*Evaluator, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	all := make([]cel.EnvOption, 0, 3+len(opts))
	all = append(all,
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	all = append(all, opts...)
	return cel.NewEnv(all...)
}

// Predicate is a compiled boolean expression.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type checks expr and requires it to yield a bool.
func (e *Evaluator) Compile(expr string) (*Predicate, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile %q: expression returns %s, want bool", expr, out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate with the given variable bindings.
func (p *Predicate) Match(vars map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("eval %q: result %v is not a bool", p.expr, out.Type())
	}
	return bool(b), nil
}

// Functions lists the function and macro names available to expressions,
// leaving out operators.
func (e *Evaluator) Functions() []string {
	seen := make(map[string]bool)
	for name := range e.env.Functions() {
		if !isOperator(name) {
			seen[name] = true
		}
	}
	for _, m := range e.env.Macros() {
		if !isOperator(m.Function()) {
			seen[m.Function()] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isOperator(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_") || strings.HasPrefix(name, "@")
}
