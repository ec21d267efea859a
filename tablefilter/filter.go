// Package tablefilter selects the tables of a schema by name patterns and
// CEL expressions before rendering.
package tablefilter

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/shibukawa/erdump"
)

var (
	ErrInvalidPattern       = errors.New("invalid table pattern")
	ErrExpressionCompile    = errors.New("filter expression compile error")
	ErrExpressionNotBoolean = errors.New("filter expression must evaluate to bool")
	ErrExpressionEval       = errors.New("filter expression evaluation error")
)

// Config describes which tables to keep. A table is kept when it matches at
// least one include pattern, no exclude pattern and the expression (if any).
// Patterns use path.Match syntax and ignore case.
type Config struct {
	Include    []string
	Exclude    []string
	Expression string
}

// Filter is a compiled Config
type Filter struct {
	include []string
	exclude []string
	program cel.Program
}

// New validates the patterns and compiles the expression.
//
// The expression sees these variables:
//
//	name          string        canonical table name
//	columns       int           number of columns
//	primary_keys  list(string)  primary key column names
//	column_names  list(string)  all column names
func New(config Config) (*Filter, error) {
	f := &Filter{
		include: upperAll(config.Include),
		exclude: upperAll(config.Exclude),
	}

	for _, pattern := range append(append([]string{}, f.include...), f.exclude...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("%w '%s': %w", ErrInvalidPattern, pattern, err)
		}
	}

	if strings.TrimSpace(config.Expression) == "" {
		return f, nil
	}

	env, err := cel.NewEnv(
		cel.HomogeneousAggregateLiterals(),
		cel.EagerlyValidateDeclarations(true),
		cel.Variable("name", cel.StringType),
		cel.Variable("columns", cel.IntType),
		cel.Variable("primary_keys", cel.ListType(cel.StringType)),
		cel.Variable("column_names", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter CEL environment: %w", err)
	}

	ast, issues := env.Compile(config.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpressionCompile, issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: got %s", ErrExpressionNotBoolean, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpressionCompile, err)
	}

	f.program = program

	return f, nil
}

// Match reports whether a single table passes the filter
func (f *Filter) Match(table *erdump.Table) (bool, error) {
	name := strings.ToUpper(table.Name)

	if len(f.include) > 0 && !matchAny(f.include, name) {
		return false, nil
	}

	if matchAny(f.exclude, name) {
		return false, nil
	}

	if f.program == nil {
		return true, nil
	}

	columnNames := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		columnNames = append(columnNames, c.Name)
	}

	primaryKeys := table.PrimaryKey()
	if primaryKeys == nil {
		primaryKeys = []string{}
	}

	out, _, err := f.program.Eval(map[string]any{
		"name":         table.Name,
		"columns":      len(table.Columns),
		"primary_keys": primaryKeys,
		"column_names": columnNames,
	})
	if err != nil {
		return false, fmt.Errorf("%w: table %s: %w", ErrExpressionEval, table.Name, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: table %s", ErrExpressionNotBoolean, table.Name)
	}

	return result, nil
}

// Apply returns a new schema holding the matching tables in their original
// order. Relationships are kept as they are; the ones that lost an endpoint
// become dangling.
func (f *Filter) Apply(schema *erdump.Schema) (*erdump.Schema, error) {
	result := &erdump.Schema{
		Tables:        make([]*erdump.Table, 0, len(schema.Tables)),
		Relationships: schema.Relationships,
	}

	for _, table := range schema.Tables {
		ok, err := f.Match(table)
		if err != nil {
			return nil, err
		}

		if ok {
			result.Tables = append(result.Tables, table)
		}
	}

	return result, nil
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}

	return false
}

func upperAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, strings.ToUpper(v))
		}
	}

	return result
}
