package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/erdump"
	"github.com/shibukawa/erdump/erdiagram"
	"github.com/shibukawa/erdump/report"
)

// RenderCmd represents the render command
type RenderCmd struct {
	Input string `arg:"" help:"Dump file to read ('-' for stdin)"`

	Output              string `help:"Output directory (overrides config)" short:"o"`
	BaseName            string `help:"File name stem of produced documents (overrides config)"`
	Title               string `help:"Document title (overrides config)"`
	SingleDocumentLimit int    `help:"Largest table count rendered as one document (overrides config)"`
	ChunkSize           int    `help:"Tables per partition document (overrides config)"`
	DryRun              bool   `help:"Render and verify without writing files"`
	SkipLinkCheck       bool   `help:"Do not verify cross-document links"`

	FilterFlags `embed:""`
}

// Run executes the render command
func (r *RenderCmd) Run(ctx *Context) error {
	config, err := erdump.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	r.applyOverrides(config)

	schema, err := loadSchema(ctx, config, r.Input, r.FilterFlags)
	if err != nil {
		return err
	}

	if schema.IsEmpty() {
		reportEmpty(ctx, r.Input)
		return nil
	}

	result, err := erdiagram.Render(schema, erdiagram.OptionsFromConfig(config, sourceName(r.Input)))
	if err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}

	if ctx.Verbose {
		color.Blue("Rendered %d documents (partitioned: %t)", len(result.Documents), result.Partitioned)
	}

	if !r.SkipLinkCheck {
		if err := report.Verify(result.Documents); err != nil {
			return err
		}
	}

	if r.DryRun {
		if !ctx.Quiet {
			for _, name := range result.Names() {
				fmt.Println(name)
			}
		}

		return nil
	}

	writer := report.NewWriter(config.Output.Dir)
	writer.Logger = ctx.Logger()

	paths, err := writer.Write(result.Documents)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		color.Green("ER diagram written: %d tables, %d relationships, %d files in %s",
			len(schema.Tables), len(schema.Relationships), len(paths), config.Output.Dir)
	}

	return nil
}

func (r *RenderCmd) applyOverrides(config *erdump.Config) {
	if r.Output != "" {
		config.Output.Dir = r.Output
	}

	if r.BaseName != "" {
		config.Output.BaseName = r.BaseName
	}

	if r.Title != "" {
		config.Diagram.Title = r.Title
	}

	if r.SingleDocumentLimit > 0 {
		config.Diagram.SingleDocumentLimit = r.SingleDocumentLimit
	}

	if r.ChunkSize > 0 {
		config.Diagram.ChunkSize = r.ChunkSize
	}
}
