package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/shibukawa/erdump"
	"github.com/shibukawa/erdump/export"
)

// ExportCmd represents the export command
type ExportCmd struct {
	Input  string `arg:"" help:"Dump file to read ('-' for stdin)"`
	Format string `help:"Export format" enum:"tbls,yaml,graphml" default:"yaml" short:"f"`
	Output string `help:"Output file (default: stdout)" short:"o"`
	Name   string `help:"Schema name recorded in tbls output (default: output base name)"`
	Driver string `help:"Driver name recorded in tbls output (overrides config)"`

	FilterFlags `embed:""`
}

// Run executes the export command
func (e *ExportCmd) Run(ctx *Context) error {
	config, err := erdump.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format, err := export.ParseFormat(e.Format)
	if err != nil {
		return err
	}

	schema, err := loadSchema(ctx, config, e.Input, e.FilterFlags)
	if err != nil {
		return err
	}

	if schema.IsEmpty() {
		reportEmpty(ctx, e.Input)
		return nil
	}

	opts := export.Options{
		Name:        e.Name,
		Driver:      e.Driver,
		Source:      sourceName(e.Input),
		GeneratedAt: time.Now(),
	}
	if opts.Name == "" {
		opts.Name = config.Output.BaseName
	}

	if opts.Driver == "" {
		opts.Driver = config.Export.DriverName
	}

	output := e.Output
	if output != "" && filepath.Ext(output) == "" {
		output += format.Extension()
	}

	err = writeOutput(output, func(w io.Writer) error {
		return export.Write(w, format, schema, opts)
	})
	if err != nil {
		return fmt.Errorf("failed to export schema: %w", err)
	}

	if output != "" && !ctx.Quiet {
		color.Green("Exported %d tables as %s to %s", len(schema.Tables), format, output)
	}

	return nil
}
