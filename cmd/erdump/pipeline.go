package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/erdump"
	"github.com/shibukawa/erdump/ddlscan"
	"github.com/shibukawa/erdump/tablefilter"
)

// FilterFlags narrows the tables taken from the dump. Flags extend the
// filter section of the configuration file.
type FilterFlags struct {
	Include []string `help:"Glob pattern of tables to keep (repeatable)" short:"i"`
	Exclude []string `help:"Glob pattern of tables to drop (repeatable)" short:"x"`
	Where   string   `help:"CEL expression a table must satisfy (overrides config)"`
}

func (f FilterFlags) config(base erdump.FilterConfig) tablefilter.Config {
	config := tablefilter.Config{
		Include:    base.Include,
		Exclude:    append(append([]string{}, base.Exclude...), f.Exclude...),
		Expression: base.Expression,
	}

	if len(f.Include) > 0 {
		config.Include = f.Include
	}

	if f.Where != "" {
		config.Expression = f.Where
	}

	return config
}

// loadSchema reads the input, builds the schema and applies the filters.
// An input without tables yields an empty schema and no error.
func loadSchema(ctx *Context, config *erdump.Config, input string, filter FilterFlags) (*erdump.Schema, error) {
	text, err := readInput(input)
	if err != nil {
		return nil, err
	}

	if ctx.Verbose {
		color.Blue("Scanning %s (%d bytes)", sourceName(input), len(text))
	}

	builder := ddlscan.NewBuilder()
	builder.Logger = ctx.Logger()

	schema := builder.Build(text)
	if schema.IsEmpty() {
		return schema, nil
	}

	f, err := tablefilter.New(filter.config(config.Filter))
	if err != nil {
		return nil, fmt.Errorf("invalid table filter: %w", err)
	}

	filtered, err := f.Apply(schema)
	if err != nil {
		return nil, err
	}

	if ctx.Verbose && len(filtered.Tables) != len(schema.Tables) {
		color.Blue("Filter kept %d of %d tables", len(filtered.Tables), len(schema.Tables))
	}

	return filtered, nil
}

// reportEmpty prints the informational message for dumps without tables
func reportEmpty(ctx *Context, input string) {
	if !ctx.Quiet {
		color.Yellow("%v in %s, nothing to do", erdump.ErrNoTables, sourceName(input))
	}
}
