package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/shibukawa/erdump"
	"github.com/shibukawa/erdump/ddlscan"
	"github.com/shibukawa/erdump/formatter"
)

// FlattenCmd represents the flatten command
type FlattenCmd struct {
	Input  string `arg:"" help:"Dump file to read ('-' for stdin)"`
	Output string `help:"Output file (default: stdout)" short:"o"`
	Pretty bool   `help:"Lay out table definitions one member per line"`
}

// Run executes the flatten command
func (f *FlattenCmd) Run(ctx *Context) error {
	config, err := erdump.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	text, err := readInput(f.Input)
	if err != nil {
		return err
	}

	buckets := ddlscan.ExtractBuckets(text)
	if buckets.Len() == 0 {
		reportEmpty(ctx, f.Input)
		return nil
	}

	if ctx.Verbose {
		color.Blue("Found %d tables, %d indexes, %d alter statements, %d constraints",
			len(buckets.Tables), len(buckets.Indexes), len(buckets.Alters), len(buckets.Constraints))
	}

	var opts ddlscan.FlattenOptions
	if f.Pretty || config.Flatten.Pretty {
		opts.Formatter = formatter.NewDDLFormatter()
	}

	flat := buckets.Flatten(opts)

	err = writeOutput(f.Output, func(w io.Writer) error {
		_, err := io.WriteString(w, flat)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write flattened statements: %w", err)
	}

	if f.Output != "" && !ctx.Quiet {
		color.Green("Flattened %d statements into %s", buckets.Len(), f.Output)
	}

	return nil
}
